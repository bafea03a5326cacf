package writer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignitedb/ignite/internal/codec"
	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/record"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/metrics"
	"github.com/ignitedb/ignite/pkg/segname"
)

func newTestIndex(t *testing.T, dir string) *index.Index {
	t.Helper()
	idx, err := index.New(context.Background(), &index.Config{DataDir: dir, Logger: logger.Noop()})
	require.NoError(t, err)
	return idx
}

func newTestWriter(t *testing.T, dir string, idx *index.Index, threshold uint64) *Writer {
	t.Helper()
	w, err := New(context.Background(), &Config{
		DataDir:             dir,
		Index:               idx,
		CompactionThreshold: threshold,
		Metrics:             metrics.New(nil, "writer-test"),
		Logger:              logger.Noop(),
	})
	require.NoError(t, err)
	return w
}

func TestCurrentGenStrictlyIncreasesAcrossCompactions(t *testing.T) {
	dir := t.TempDir()
	idx := newTestIndex(t, dir)
	w := newTestWriter(t, dir, idx, 64)
	defer w.Close()

	gens := []uint64{w.CurrentGen()}
	for i := 0; i < 100; i++ {
		require.NoError(t, w.Set("hot-key", strings.Repeat("x", 32)))
		if g := w.CurrentGen(); g != gens[len(gens)-1] {
			gens = append(gens, g)
		}
	}

	require.GreaterOrEqual(t, len(gens), 3, "expected repeated overwrites of one key to trigger more than one compaction")
	for i := 1; i < len(gens); i++ {
		assert.Greater(t, gens[i], gens[i-1], "gens observed across a run must be strictly increasing")
	}
}

func TestBootstrapReplaySkipsTruncatedTrailingRecord(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	_, err := codec.Encode(&buf, record.NewSet("a", "1"))
	require.NoError(t, err)
	_, err = codec.Encode(&buf, record.NewSet("b", "2"))
	require.NoError(t, err)
	full := buf.Bytes()

	// A third record is appended but cut off partway through, simulating an
	// unclean shutdown mid-write.
	var thirdBuf bytes.Buffer
	_, err = codec.Encode(&thirdBuf, record.NewSet("c", "3"))
	require.NoError(t, err)
	third := thirdBuf.Bytes()
	truncated := append(append([]byte{}, full...), third[:len(third)/2]...)

	require.NoError(t, os.WriteFile(segname.Path(dir, 1), truncated, 0644))

	idx := newTestIndex(t, dir)
	w := newTestWriter(t, dir, idx, 0)
	defer w.Close()

	locA, ok := idx.Get("a")
	require.True(t, ok, "fully-written record before the truncated tail must survive replay")
	assert.Equal(t, uint64(1), locA.Gen)

	_, ok = idx.Get("b")
	require.True(t, ok, "fully-written record before the truncated tail must survive replay")

	_, ok = idx.Get("c")
	assert.False(t, ok, "the truncated trailing record must not be visible")

	// Bootstrap always opens a fresh active segment one generation past the
	// highest one it found on disk, truncated tail included.
	assert.Equal(t, uint64(2), w.CurrentGen())
}

func TestRemoveTriggeredCompactionBoundsTotalSegmentBytes(t *testing.T) {
	dir := t.TempDir()
	idx := newTestIndex(t, dir)
	// A threshold of 1 means any stale byte at all crosses it, so this
	// exercises compaction triggered purely by Remove calls: none of the
	// Sets below overwrite an existing key, so they never themselves push
	// staleBytes past the threshold.
	w := newTestWriter(t, dir, idx, 1)
	defer w.Close()

	const total = 20
	for i := 0; i < total; i++ {
		require.NoError(t, w.Set(fmt.Sprintf("key-%d", i), fmt.Sprintf("value-%d", i)))
	}

	const removed = 10
	for i := 0; i < removed; i++ {
		require.NoError(t, w.Remove(fmt.Sprintf("key-%d", i)))
	}

	assert.Zero(t, w.StaleBytes(), "the last Remove should have triggered a compaction that reset the stale counter")

	snapshot := idx.Snapshot()
	assert.Equal(t, total-removed, snapshot.Len())

	var liveBytes int64
	itr := snapshot.Iterator()
	for !itr.Done() {
		_, loc, ok := itr.Next()
		if !ok {
			break
		}
		liveBytes += loc.Length
	}

	gens, err := segname.ListGens(dir)
	require.NoError(t, err)

	var totalBytes int64
	for _, gen := range gens {
		info, err := os.Stat(segname.Path(dir, gen))
		require.NoError(t, err)
		totalBytes += info.Size()
	}

	// Compaction packs every live record into one segment and opens a fresh,
	// empty segment alongside it for new writes: total on-disk bytes must
	// never exceed live bytes plus that one empty segment.
	assert.Equal(t, liveBytes, totalBytes, "post-compaction bytes on disk must equal live bytes exactly once the active segment is freshly opened")
}
