package chunkpool_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/chunkpool/chunkpool/pkg/chunkpool"
)

// stats is an exported-field snapshot of a Pool's queries, used only to
// diff "before" and "after" states with cmp.Diff - the same
// before/after-equality pattern as the teacher's metamorphic tests
// (pkg/slotcache/slotcache_metamorphic_test.go).
type stats struct {
	PoolSize   int
	ChunkSize  int
	ChunkCount int
	FreeChunks int
	UsedChunks int
}

func snapshot(p *chunkpool.Pool) stats {
	return stats{
		PoolSize:   p.PoolSize(),
		ChunkSize:  p.ChunkSize(),
		ChunkCount: p.ChunkCount(),
		FreeChunks: p.FreeChunks(),
		UsedChunks: p.UsedChunks(),
	}
}

// R1, restated as a metamorphic property: alloc immediately followed by
// free must be a no-op on every observable query, not just FreeChunks.
func TestSnapshot_AllocThenFreeIsANoOpOnObservableState(t *testing.T) {
	t.Parallel()

	pool, err := chunkpool.New(chunkpool.Config{ChunkSize: 16, ChunkCount: 20})
	require.NoError(t, err)

	before := snapshot(pool)

	h, err := pool.Alloc(48)
	require.NoError(t, err)

	require.NoError(t, pool.Free(h))

	after := snapshot(pool)

	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("pool state changed across alloc+free (-before +after):\n%s", diff)
	}
}

// Same property, but for Clear after a mixed sequence of allocations: the
// resulting snapshot must match a freshly constructed pool of the same
// dimensions.
func TestSnapshot_ClearMatchesFreshPool(t *testing.T) {
	t.Parallel()

	fresh, err := chunkpool.New(chunkpool.Config{ChunkSize: 16, ChunkCount: 20})
	require.NoError(t, err)

	used, err := chunkpool.New(chunkpool.Config{ChunkSize: 16, ChunkCount: 20})
	require.NoError(t, err)

	_, err = used.Alloc(32)
	require.NoError(t, err)

	_, err = used.Alloc(64)
	require.NoError(t, err)

	used.Clear()

	if diff := cmp.Diff(snapshot(fresh), snapshot(used)); diff != "" {
		t.Errorf("cleared pool does not match a fresh pool (-fresh +cleared):\n%s", diff)
	}
}
