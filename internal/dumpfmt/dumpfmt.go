// Package dumpfmt renders a pool's internal state as plain text for
// debugging. Nothing here is meant to be machine-parsed or round-tripped;
// it is the textual equivalent of the teacher's show.go/ls.go command
// output - fmt.Fprintf against a strings.Builder, no templating library.
package dumpfmt

import (
	"fmt"
	"strings"
)

// ChunkInfo is one chunk's dump-relevant state, handed over by pkg/chunkpool
// so this package never needs to see chunkpool's unexported chunk table
// type.
type ChunkInfo struct {
	Index      uint32
	Used       bool
	UsedChunks uint32 // > 0 only when Index is a used-slot head
	FreeRun    uint32 // > 0 only when Index is a live free-slot head
	FreeHead   bool   // Index currently has a live entry in the free-slot index
}

// Raw renders a pool's entire backing buffer as a classic hex dump: 16
// bytes per line, offset prefix, hex columns, ASCII gutter.
func Raw(data []byte) string {
	var b strings.Builder

	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}

		line := data[off:end]

		fmt.Fprintf(&b, "%08x  ", off)

		for i := 0; i < 16; i++ {
			if i < len(line) {
				fmt.Fprintf(&b, "%02x ", line[i])
			} else {
				b.WriteString("   ")
			}

			if i == 7 {
				b.WriteByte(' ')
			}
		}

		b.WriteString(" |")

		for _, c := range line {
			if c >= 0x20 && c < 0x7f {
				b.WriteByte(c)
			} else {
				b.WriteByte('.')
			}
		}

		b.WriteString("|\n")
	}

	return b.String()
}

// ChunkMap renders one marker per chunk: '.' for a free chunk not at a slot
// boundary, and a "|<N-" / "->|" pair bracketing every allocated slot -
// emitted for every slot regardless of length, including single-chunk
// slots, matching the original implementation's DumpChunksToFile.
func ChunkMap(chunks []ChunkInfo) string {
	var b strings.Builder

	for i := 0; i < len(chunks); {
		c := chunks[i]

		switch {
		case c.Used && c.UsedChunks > 0:
			fmt.Fprintf(&b, "|<%d-", c.UsedChunks)

			for j := uint32(1); j < c.UsedChunks; j++ {
				b.WriteByte('.')
			}

			b.WriteString("->|")

			i += int(c.UsedChunks)

		case !c.Used:
			b.WriteByte('.')

			i++

		default:
			// non-head chunk of a used slot reached without its head
			// (should not happen if Used/UsedChunks were assembled
			// correctly) - render it inert rather than panic in a
			// debug-only formatter.
			b.WriteByte('?')

			i++
		}
	}

	b.WriteByte('\n')

	return b.String()
}

// Debug renders one line per chunk: index, used/free, free_run,
// used_chunks, and a tag on any chunk that is a live free-slot index head.
func Debug(chunks []ChunkInfo) string {
	var b strings.Builder

	for _, c := range chunks {
		state := "free"
		if c.Used {
			state = "used"
		}

		fmt.Fprintf(&b, "%6d  %-4s  free_run=%-6d used_chunks=%-6d", c.Index, state, c.FreeRun, c.UsedChunks)

		if c.FreeHead {
			b.WriteString("  <-- free slot head")
		}

		b.WriteByte('\n')
	}

	return b.String()
}
