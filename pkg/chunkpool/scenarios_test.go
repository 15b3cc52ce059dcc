package chunkpool_test

import (
	"errors"
	"testing"

	"github.com/chunkpool/chunkpool/pkg/chunkpool"
)

// Scenario: split-and-reuse. Allocating less than the whole pool leaves a
// free tail; a second, smaller allocation must land in that tail rather
// than failing or landing elsewhere.
func TestScenario_SplitAndReuse(t *testing.T) {
	t.Parallel()

	pool, err := chunkpool.New(chunkpool.Config{ChunkSize: 8, ChunkCount: 10})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	first, err := pool.Alloc(3 * 8) // 3 chunks, head 0
	if err != nil {
		t.Fatalf("first Alloc failed: %v", err)
	}

	if got := chunkpool.ChunkIndexForTesting(first); got != 0 {
		t.Fatalf("first alloc landed at chunk %d, want 0", got)
	}

	if got := pool.FreeChunks(); got != 7 {
		t.Fatalf("FreeChunks() = %d, want 7", got)
	}

	second, err := pool.Alloc(2 * 8) // must land in the tail, at chunk 3
	if err != nil {
		t.Fatalf("second Alloc failed: %v", err)
	}

	if got := chunkpool.ChunkIndexForTesting(second); got != 3 {
		t.Fatalf("second alloc landed at chunk %d, want 3 (the free tail)", got)
	}

	if got := pool.FreeChunks(); got != 5 {
		t.Fatalf("FreeChunks() = %d, want 5", got)
	}
}

// Scenario: coalesce-left-and-right. Three adjacent slots are allocated and
// freed in three orders: left to right, right slot then left then middle
// (the middle free merges both neighbours), and middle first (no neighbour
// free yet) then right then left. Every order must fully merge the pool
// back into one contiguous free run.
func TestScenario_CoalesceLeftAndRight(t *testing.T) {
	t.Parallel()

	for _, order := range [][]int{{0, 1, 2}, {2, 0, 1}, {1, 2, 0}} {
		order := order

		t.Run("", func(t *testing.T) {
			t.Parallel()

			pool, err := chunkpool.New(chunkpool.Config{ChunkSize: 8, ChunkCount: 9})
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}

			var handles [3]chunkpool.Handle

			for i := 0; i < 3; i++ {
				h, err := pool.Alloc(2 * 8)
				if err != nil {
					t.Fatalf("Alloc %d failed: %v", i, err)
				}

				handles[i] = h
			}

			if got := pool.FreeChunks(); got != 3 {
				t.Fatalf("FreeChunks() after 3 allocs = %d, want 3", got)
			}

			for _, idx := range order {
				if err := pool.Free(handles[idx]); err != nil {
					t.Fatalf("Free(handles[%d]) failed: %v", idx, err)
				}
			}

			if got := pool.FreeChunks(); got != 9 {
				t.Fatalf("FreeChunks() after freeing all = %d, want 9", got)
			}

			// A request for the whole pool only succeeds if every free chunk
			// coalesced into a single contiguous run.
			whole, err := pool.Alloc(9 * 8)
			if err != nil {
				t.Fatalf("expected whole-pool alloc to succeed after full coalescing, got: %v", err)
			}

			if err := pool.Free(whole); err != nil {
				t.Fatalf("Free(whole) failed: %v", err)
			}
		})
	}
}

// Scenario: overflow. A request larger than the entire pool must fail with
// ErrOutOfSpace, never a partial allocation or a panic.
func TestScenario_Overflow(t *testing.T) {
	t.Parallel()

	pool, err := chunkpool.New(chunkpool.Config{ChunkSize: 8, ChunkCount: 4})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = pool.Alloc(4*8 + 1)
	if !errors.Is(err, chunkpool.ErrOutOfSpace) {
		t.Fatalf("expected ErrOutOfSpace, got %v", err)
	}
}

// Scenario: fragmentation blocks a large request. Freeing alternating
// single-chunk slots leaves free chunks whose sum could satisfy a request
// that no single run can.
func TestScenario_FragmentationBlocksLargeRequest(t *testing.T) {
	t.Parallel()

	pool, err := chunkpool.New(chunkpool.Config{ChunkSize: 8, ChunkCount: 4})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var handles [4]chunkpool.Handle

	for i := 0; i < 4; i++ {
		h, err := pool.Alloc(8)
		if err != nil {
			t.Fatalf("Alloc %d failed: %v", i, err)
		}

		handles[i] = h
	}

	if err := pool.Free(handles[0]); err != nil {
		t.Fatalf("Free(handles[0]) failed: %v", err)
	}

	if err := pool.Free(handles[2]); err != nil {
		t.Fatalf("Free(handles[2]) failed: %v", err)
	}

	if got := pool.FreeChunks(); got != 2 {
		t.Fatalf("FreeChunks() = %d, want 2", got)
	}

	// 2 chunks are free in total, but in two isolated single-chunk runs;
	// a 2-chunk request must still fail.
	_, err = pool.Alloc(2 * 8)
	if !errors.Is(err, chunkpool.ErrOutOfSpace) {
		t.Fatalf("expected ErrOutOfSpace for a fragmented request, got %v", err)
	}
}

// Scenario: last-inserted-first search policy. With two free slots able to
// satisfy a request, the most recently freed one is chosen, never the
// smaller (best-fit) or earlier-inserted one.
func TestScenario_LastInsertedFirstPolicy(t *testing.T) {
	t.Parallel()

	pool, err := chunkpool.New(chunkpool.Config{ChunkSize: 8, ChunkCount: 10})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a, err := pool.Alloc(2 * 8) // chunks 0-1
	if err != nil {
		t.Fatalf("Alloc a failed: %v", err)
	}

	b, err := pool.Alloc(3 * 8) // chunks 2-4
	if err != nil {
		t.Fatalf("Alloc b failed: %v", err)
	}

	c, err := pool.Alloc(2 * 8) // chunks 5-6
	if err != nil {
		t.Fatalf("Alloc c failed: %v", err)
	}

	d, err := pool.Alloc(3 * 8) // chunks 7-9
	if err != nil {
		t.Fatalf("Alloc d failed: %v", err)
	}

	_ = b
	_ = c

	// Free the small, best-fit slot (a, 2 chunks) first, then the larger,
	// non-adjacent slot (d, 3 chunks) second - best-fit would reuse a's
	// slot for a 2-chunk request, but last-inserted-first must reuse d's.
	if err := pool.Free(a); err != nil {
		t.Fatalf("Free(a) failed: %v", err)
	}

	if err := pool.Free(d); err != nil {
		t.Fatalf("Free(d) failed: %v", err)
	}

	reused, err := pool.Alloc(2 * 8)
	if err != nil {
		t.Fatalf("Alloc reused failed: %v", err)
	}

	if got := chunkpool.ChunkIndexForTesting(reused); got != 7 {
		t.Fatalf("last-inserted-first policy not honoured: landed at chunk %d, want 7 (d's slot)", got)
	}
}

// Scenario: clear mid-use. Clearing a pool with outstanding allocations
// silently resets bookkeeping; a subsequent whole-pool allocation must
// succeed.
func TestScenario_ClearMidUse(t *testing.T) {
	t.Parallel()

	pool, err := chunkpool.New(chunkpool.Config{ChunkSize: 8, ChunkCount: 10})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := pool.Alloc(3 * 8); err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}

	if _, err := pool.Alloc(4 * 8); err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}

	pool.Clear()

	if got := pool.FreeChunks(); got != 10 {
		t.Fatalf("FreeChunks() after Clear = %d, want 10", got)
	}

	whole, err := pool.Alloc(10 * 8)
	if err != nil {
		t.Fatalf("expected whole-pool alloc to succeed after Clear, got: %v", err)
	}

	if err := pool.Free(whole); err != nil {
		t.Fatalf("Free(whole) failed: %v", err)
	}

	pool.Destroy()
}
