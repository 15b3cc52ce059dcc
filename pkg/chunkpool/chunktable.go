package chunkpool

// chunkRecord is one per-chunk bookkeeping entry (spec.md §3). The table is
// a single dense []chunkRecord indexed by chunk number - neighbour lookup is
// always ±1 on that index, never a pointer chase (Design Note §9: "prefer
// index arithmetic... removes two pointers per chunk and makes the entire
// structure trivially relocatable").
type chunkRecord struct {
	// index is this record's own position. Redundant with the slice index
	// but kept as a field because handles and free-slot markers carry a
	// bare chunk index and the record must be self-describing when handed
	// around independently of the table (e.g. in dump formatting).
	index uint32

	// used reports whether this chunk is part of an allocated slot (as
	// either head or tail; see isHead/usedChunks below).
	used bool

	// usedChunks is the slot length in chunks when this chunk is the head
	// of an allocated slot; zero otherwise, including for non-head chunks
	// of a multi-chunk allocation. The free() path depends on this
	// head-only convention to recognize slot boundaries (spec.md §9,
	// Open Question (b)).
	usedChunks uint32

	// freeRun is the number of contiguous free chunks starting here, valid
	// only when this chunk is the head of a free slot. Zero for used
	// chunks and for non-head free chunks.
	freeRun uint32
}

// isHead reports whether c is the head of an allocated slot (spec.md §9,
// Open Question (c): IsHeader == used && usedChunks > 0).
func (c *chunkRecord) isHead() bool {
	return c.used && c.usedChunks > 0
}

// newChunkTable builds the post-construction chunk table: every chunk free,
// a single free slot spanning the whole pool rooted at chunk 0 (spec.md §3
// "Lifecycle", §4.1).
func newChunkTable(count int) []chunkRecord {
	table := make([]chunkRecord, count)
	for i := range table {
		table[i].index = uint32(i)
	}

	table[0].freeRun = uint32(count)

	return table
}

// resetChunkTable restores an existing table to the post-construction state
// in place, used by Clear so it does not need to reallocate.
func resetChunkTable(table []chunkRecord) {
	for i := range table {
		table[i] = chunkRecord{index: uint32(i)}
	}

	if len(table) > 0 {
		table[0].freeRun = uint32(len(table))
	}
}
