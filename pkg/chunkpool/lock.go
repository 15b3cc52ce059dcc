package chunkpool

// Locking architecture (spec.md §4.5, §5)
//
//  1. Pool.mu - a single mutex guarding the engine (C1-C3: chunk table,
//     raw buffer, free-slot index). Alloc, Free, Clear, and every read-only
//     query acquire it before touching engine state and release it before
//     returning.
//
//  2. Handle construction and Handle.Bytes/Handle.IsValid do NOT lock.
//     A caller holding a Handle after a concurrent Clear or Free of the
//     same slot may observe stale or reused data; that race is the
//     caller's responsibility, exactly as with memory returned by a
//     general-purpose allocator (spec.md §4.5, §5 "Shared-resource
//     policy").
//
// There is exactly one lock in play, so there is no lock ordering to get
// wrong. The spec calls for a "recursive-safe" mutex (inherited from the
// original C++ source's std::recursive_mutex); Go's sync.Mutex is not
// reentrant, so instead every public method is written to acquire Pool.mu
// exactly once per call and never call back into another locking method -
// see engine.go's xxxLocked methods, which assume the lock and are only
// ever reached through the locking wrappers in this file, pool.go, and
// dump.go.
//
// Grounded on the "Locking architecture" doc comment at the top of the
// teacher's pkg/slotcache/lock.go, trimmed down: that cache additionally
// coordinates a seqlock generation counter, a per-file in-process
// RWMutex, and an interprocess advisory file lock, because it is mmap'd
// and shared across processes. This pool is in-process, in-memory only
// (spec.md §1 non-goals), so only the first of the teacher's four layers
// has a target here.

// Alloc reserves a contiguous run of chunks covering at least bytes bytes
// and returns a Handle to it (spec.md §4.3 "alloc(bytes)").
//
// Returns ErrInvalidRequest if bytes <= 0, or ErrOutOfSpace if no free slot
// has enough contiguous chunks; in both cases the returned Handle is the
// zero Handle.
func (p *Pool) Alloc(bytes int) (Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	chunkIndex, need, ok, err := p.eng.allocLocked(bytes)
	if err != nil {
		p.logf("alloc %d bytes: error: %v", bytes, err)

		return Handle{}, err
	}

	if !ok {
		p.logf("alloc %d bytes: out of space (need %d chunks, %d free)", bytes, need, p.eng.freeChunksLocked())

		return Handle{}, ErrOutOfSpace
	}

	p.logf("alloc %d bytes: chunk %d, %d chunks", bytes, chunkIndex, need)

	return Handle{pool: p, chunkIndex: chunkIndex, length: uint32(need)}, nil
}

// Free returns h's chunks to the pool, coalescing with any free neighbours
// (spec.md §4.3 "free(handle)"). After Free returns successfully, h is
// invalid.
//
// Returns ErrInvalidFree for a nil/foreign handle, a handle whose chunk is
// not currently a used-slot head, or a double free.
func (p *Pool) Free(h Handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx, err := p.chunkIndexOf(h)
	if err != nil {
		p.logf("free: error: %v", err)

		return err
	}

	if err := p.eng.freeLocked(idx); err != nil {
		p.logf("free chunk %d: error: %v", idx, err)

		return err
	}

	p.logf("free chunk %d", idx)

	return nil
}

// Clear resets the pool to its post-construction state: every chunk free,
// one free slot spanning the whole pool (spec.md §4.3 "clear()"). All
// outstanding handles become invalid; Clear cannot detect or invalidate
// them itself (spec.md: "this is an admin/debug operation").
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.eng.clearLocked()
	p.logf("clear")
}
