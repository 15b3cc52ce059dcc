package chunkpool

// freeIndex is the free-slot index F from spec.md §3/§4.2: an append-only
// vector naming the chunk-index heads of every free slot, with a lazily
// reclaimed tombstone tail. Free-list ordering is not maintained - search
// walks the live prefix from the back (most-recently-inserted first) and
// rejects entries whose freeRun is too small; the dirty-tail trick makes
// Remove O(1) without ever shifting elements.
//
// Grounded on the teacher's tombstone/rehash bookkeeping for its bucket
// table (pkg/slotcache/writer.go's bucketTombstone sentinel): both designs
// prefer "mark and lazily reclaim" over "shift on delete" for a flat slice.
type freeIndex struct {
	entries []uint32
	dirty   int
}

// newFreeIndex pre-reserves capacity for chunkCount/5+1 entries (spec.md
// §4.2's chunkCount/5, plus one so the seed entry always fits), and seeds
// the single free slot covering the whole pool.
func newFreeIndex(chunkCount int) freeIndex {
	f := freeIndex{entries: make([]uint32, 0, chunkCount/5+1)}
	f.insert(0)

	return f
}

// reset empties F and re-seeds it with a single entry at head 0, used by
// Clear.
func (f *freeIndex) reset() {
	f.entries = f.entries[:0]
	f.dirty = 0
	f.insert(0)
}

// live returns the number of live (non-tombstone) entries.
func (f *freeIndex) live() int {
	return len(f.entries) - f.dirty
}

// at returns the chunk index stored in the live entry at position p.
func (f *freeIndex) at(p int) uint32 {
	return f.entries[p]
}

// insert adds head as a new live marker, reusing a tombstone slot if one
// exists (spec.md §4.2 "Insert").
func (f *freeIndex) insert(head uint32) {
	if f.dirty > 0 {
		f.entries[len(f.entries)-f.dirty] = head
		f.dirty--

		return
	}

	f.entries = append(f.entries, head)
}

// set overwrites the live entry at position p in place - used when a free
// slot's head moves forward after a split (spec.md §4.3 step 7) rather than
// being removed and reinserted.
func (f *freeIndex) set(p int, head uint32) {
	f.entries[p] = head
}

// remove tombstones the live entry at position p in O(1) by swapping it
// with the last live entry and growing the dirty tail (spec.md §4.2
// "Remove").
func (f *freeIndex) remove(p int) {
	last := len(f.entries) - f.dirty - 1
	f.entries[p] = f.entries[last]
	f.entries[last] = 0
	f.dirty++
}

// find returns the live position of the entry naming head, or -1. Used by
// free()'s coalescing path to locate a neighbouring free slot's marker
// (spec.md §4.3 free() cases 2 and 4): a linear scan of the live prefix,
// same as the spec's "linear scan of the live prefix, matching pointer".
func (f *freeIndex) find(head uint32) int {
	for p := 0; p < f.live(); p++ {
		if f.entries[p] == head {
			return p
		}
	}

	return -1
}
