package chunkpool

import (
	"fmt"
	"sync"
)

// Pool is a fixed-capacity, variable-size memory pool allocator (spec.md
// §1). Construct with New; the zero Pool is not usable.
//
// A Pool must not be copied after first use (it holds a sync.Mutex); pass
// *Pool.
type Pool struct {
	mu sync.Mutex

	eng   engine
	clock Clock
	diag  func(string)
}

// New reserves one contiguous buffer of cfg.ChunkSize*cfg.ChunkCount bytes
// and partitions it into cfg.ChunkCount equal chunks, all initially free
// (spec.md §3 "Lifecycle", §6 "Constructor").
func New(cfg Config) (*Pool, error) {
	if cfg.ChunkSize <= 0 || cfg.ChunkCount <= 0 {
		return nil, fmt.Errorf("chunk_size=%d chunk_count=%d: %w", cfg.ChunkSize, cfg.ChunkCount, ErrInvalidRequest)
	}

	if cfg.ChunkSize > MaxPoolSize/cfg.ChunkCount {
		return nil, fmt.Errorf("chunk_size=%d chunk_count=%d: pool_size exceeds maximum %d: %w", cfg.ChunkSize, cfg.ChunkCount, MaxPoolSize, ErrInvalidRequest)
	}

	poolSize := cfg.ChunkSize * cfg.ChunkCount

	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}

	p := &Pool{
		eng:   newEngine(cfg.ChunkSize, cfg.ChunkCount),
		clock: clock,
		diag:  cfg.Diagnostic,
	}

	p.logf("new pool chunk_size=%d chunk_count=%d pool_size=%d", cfg.ChunkSize, cfg.ChunkCount, poolSize)

	return p, nil
}

// Destroy releases the pool. It asserts that no live allocations remain -
// destroying a pool while a handle is still outstanding is a programmer
// error (spec.md §3 "Lifecycle", §5 "Destruction"), surfaced here as a
// panic via invariantViolation rather than silently leaking the check.
func (p *Pool) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.eng.free.live() != 1 || p.eng.freeChunksLocked() != p.eng.chunkCount() {
		invariantViolation("Destroy called with live allocations outstanding")
	}

	p.logf("destroy pool")
}

// PoolSize returns chunk_size * chunk_count in bytes.
func (p *Pool) PoolSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.eng.chunkSize * p.eng.chunkCount()
}

// ChunkSize returns the configured bytes-per-chunk.
func (p *Pool) ChunkSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.eng.chunkSize
}

// ChunkCount returns the configured total chunk count.
func (p *Pool) ChunkCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.eng.chunkCount()
}

// FreeChunks returns the number of currently free chunks.
func (p *Pool) FreeChunks() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.eng.freeChunksLocked()
}

// UsedChunks returns chunk_count - FreeChunks().
func (p *Pool) UsedChunks() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.eng.usedChunksLocked()
}

// logf formats and forwards a diagnostic line, if a sink was configured.
// The engine hands over plain, already-formatted strings; it never leaks
// its internal structures to the sink (Design Note §9).
func (p *Pool) logf(format string, args ...any) {
	if p.diag == nil {
		return
	}

	ts := p.clock.Now().Format("15:04:05.000")
	p.diag(fmt.Sprintf("[%s] "+format, append([]any{ts}, args...)...))
}
