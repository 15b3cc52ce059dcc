package chunkpool

import "time"

// Clock abstracts time.Now so diagnostic-sink output can be tested
// deterministically. The engine's own logic never consults the clock -
// allocation, free, and coalescing decisions are purely structural.
type Clock interface {
	Now() time.Time
}

// realClock is the default Clock, backed by the standard library.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
