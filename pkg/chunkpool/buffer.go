package chunkpool

// rawBuffer is the pool's single contiguous byte region (spec.md §3, §4.1).
// Chunk i's bytes are always buf[i*chunkSize : (i+1)*chunkSize]; the buffer
// is allocated once at construction and never moved or reallocated for the
// life of the pool (no growth - spec.md §1 non-goals).
type rawBuffer struct {
	data      []byte
	chunkSize int
}

func newRawBuffer(chunkSize, chunkCount int) rawBuffer {
	return rawBuffer{
		data:      make([]byte, chunkSize*chunkCount),
		chunkSize: chunkSize,
	}
}

// slice returns the bytes backing a run of n chunks starting at index.
// Callers are responsible for bounds checking via the chunk table; this is
// a thin offset computation, not a safety boundary.
func (b *rawBuffer) slice(index, n int) []byte {
	start := index * b.chunkSize
	end := start + n*b.chunkSize

	return b.data[start:end]
}
