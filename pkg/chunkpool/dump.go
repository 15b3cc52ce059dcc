package chunkpool

import "github.com/chunkpool/chunkpool/internal/dumpfmt"

// RawDump renders the pool's entire backing buffer as a hex dump. It is for
// debugging only; the format is not stable across versions.
func (p *Pool) RawDump() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return dumpfmt.Raw(p.eng.buf.data)
}

// ChunkMapDump renders a compact one-marker-per-chunk view of the pool,
// bracketing every allocated slot with a |<N-...->| marker regardless of
// its length (spec.md §6, §9 Open Question (a): resolved in favor of
// always emitting both markers).
func (p *Pool) ChunkMapDump() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return dumpfmt.ChunkMap(p.chunkInfoLocked())
}

// DebugDump renders one line per chunk with its full bookkeeping state:
// index, used/free, free_run, used_chunks, and a tag on live free-slot
// index heads.
func (p *Pool) DebugDump() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return dumpfmt.Debug(p.chunkInfoLocked())
}

// chunkInfoLocked snapshots the chunk table into dumpfmt's exported
// ChunkInfo shape so internal/dumpfmt never needs to see chunkRecord.
func (p *Pool) chunkInfoLocked() []dumpfmt.ChunkInfo {
	out := make([]dumpfmt.ChunkInfo, len(p.eng.chunks))

	freeHeads := make(map[uint32]bool, p.eng.free.live())
	for i := 0; i < p.eng.free.live(); i++ {
		freeHeads[p.eng.free.at(i)] = true
	}

	for i, c := range p.eng.chunks {
		out[i] = dumpfmt.ChunkInfo{
			Index:      c.index,
			Used:       c.used,
			UsedChunks: c.usedChunks,
			FreeRun:    c.freeRun,
			FreeHead:   freeHeads[c.index],
		}
	}

	return out
}
