package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignitedb/ignite/pkg/logger"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New(context.Background(), &Config{DataDir: t.TempDir(), Logger: logger.Noop()})
	require.NoError(t, err)
	return idx
}

func TestIndexGetMissing(t *testing.T) {
	idx := newTestIndex(t)
	_, ok := idx.Get("missing")
	assert.False(t, ok)
}

func TestIndexSetGetDelete(t *testing.T) {
	idx := newTestIndex(t)

	prev, had := idx.Set("a", Locator{Gen: 1, Offset: 0, Length: 10})
	assert.False(t, had)
	assert.Zero(t, prev)

	loc, ok := idx.Get("a")
	require.True(t, ok)
	assert.Equal(t, Locator{Gen: 1, Offset: 0, Length: 10}, loc)

	prev, had = idx.Set("a", Locator{Gen: 1, Offset: 10, Length: 20})
	assert.True(t, had)
	assert.Equal(t, Locator{Gen: 1, Offset: 0, Length: 10}, prev)

	prev, had = idx.Delete("a")
	assert.True(t, had)
	assert.Equal(t, Locator{Gen: 1, Offset: 10, Length: 20}, prev)

	_, ok = idx.Get("a")
	assert.False(t, ok)
}

func TestIndexReplaceDoesNotReportPrevious(t *testing.T) {
	idx := newTestIndex(t)
	idx.Set("a", Locator{Gen: 1, Offset: 0, Length: 5})

	idx.Replace("a", Locator{Gen: 2, Offset: 0, Length: 5})

	loc, ok := idx.Get("a")
	require.True(t, ok)
	assert.Equal(t, Locator{Gen: 2, Offset: 0, Length: 5}, loc)
}

func TestIndexSnapshotIsStableUnderConcurrentMutation(t *testing.T) {
	idx := newTestIndex(t)
	idx.Set("a", Locator{Gen: 1, Offset: 0, Length: 5})
	idx.Set("b", Locator{Gen: 1, Offset: 5, Length: 5})

	snap := idx.Snapshot()
	assert.Equal(t, 2, snap.Len())

	idx.Set("c", Locator{Gen: 1, Offset: 10, Length: 5})
	idx.Delete("a")

	// The earlier snapshot is unaffected by subsequent mutations.
	assert.Equal(t, 2, snap.Len())
	_, ok := snap.Get("a")
	assert.True(t, ok)

	assert.Equal(t, 2, idx.Len())
}

func TestIndexCloseIsNotReentrant(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Close())
	assert.ErrorIs(t, idx.Close(), ErrIndexClosed)
}
