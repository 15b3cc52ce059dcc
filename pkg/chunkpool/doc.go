// Package chunkpool provides a fixed-capacity, variable-size memory pool
// allocator.
//
// A Pool reserves one contiguous byte buffer at construction and partitions
// it into equal-sized chunks. Alloc reserves a contiguous run of chunks and
// returns a [Handle]; Free returns those chunks to the pool and coalesces
// the freed run with any free chunks immediately adjacent to it. The pool
// never grows past its initial capacity and never moves already-allocated
// bytes.
//
// # Basic usage
//
//	pool, err := chunkpool.New(chunkpool.Config{
//	    ChunkSize:  64,
//	    ChunkCount: 1024,
//	})
//	if err != nil {
//	    // ChunkSize/ChunkCount were <= 0, or the resulting pool size
//	    // exceeds chunkpool.MaxPoolSize
//	}
//	defer pool.Destroy()
//
//	h, err := pool.Alloc(200)
//	if err != nil {
//	    // ErrInvalidRequest or ErrOutOfSpace
//	}
//	copy(h.Bytes(), []byte("hello"))
//
//	if err := pool.Free(h); err != nil {
//	    // ErrInvalidFree: double free, foreign handle, or corrupt handle
//	}
//
// # Concurrency
//
// Alloc, Free, Clear, and every query method are safe for concurrent use
// against the same Pool. A [Handle] itself does not lock: reading or
// writing through [Handle.Bytes] while another goroutine concurrently frees
// or clears the same slot is a data race the caller must avoid, the same
// contract as memory returned by any general-purpose allocator.
//
// # Error handling
//
// [ErrInvalidRequest], [ErrOutOfSpace], and [ErrInvalidFree] are ordinary,
// expected error returns a caller can branch on with errors.Is. A panic
// from Alloc, Free, or Clear (always via an unexported invariantViolation
// helper) means the engine observed a state that should be structurally
// impossible - that is a bug in chunkpool itself, not a caller mistake, and
// is not meant to be recovered from in normal use. [Pool.Destroy] also
// panics through that helper when allocations are still live; that panic
// reports a caller mistake.
package chunkpool
