package chunkpool

import "errors"

// Error classification.
//
// InvalidRequest and OutOfSpace are returned to the caller as ordinary
// errors. InvalidFree is a programmer error: it is returned rather than
// panicking so callers can decide how to react (the spec leaves release-mode
// behavior undefined for double free; this implementation always reports it
// rather than corrupting state). InvariantViolation is never returned - it
// panics, since it indicates a bug in the engine itself, not a caller error.
var (
	// ErrInvalidRequest is returned for a zero-sized construction or a
	// zero-byte Alloc.
	ErrInvalidRequest = errors.New("chunkpool: invalid request")

	// ErrOutOfSpace is returned when no free slot has enough contiguous
	// chunks to satisfy an allocation.
	ErrOutOfSpace = errors.New("chunkpool: out of space")

	// ErrInvalidFree is returned by Free for a nil/foreign handle, a handle
	// whose chunk is not a used-slot head, or a handle already freed.
	ErrInvalidFree = errors.New("chunkpool: invalid free")
)

// invariantViolation panics with a message identifying the broken invariant.
// Inside the engine, reaching this indicates a bug in the engine (spec.md
// §7): unlike ErrInvalidFree, no caller mistake leads there. The one caller
// mistake that does panic through this helper is Pool.Destroy with live
// allocations outstanding.
func invariantViolation(msg string) {
	panic("chunkpool: invariant violation: " + msg)
}
