package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignitedb/ignite/pkg/backend"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/metrics"
	"github.com/ignitedb/ignite/pkg/options"
)

func openTestHandle(t *testing.T, threshold uint64) (*Handle, string) {
	t.Helper()
	dir := t.TempDir()
	if threshold == 0 {
		threshold = options.DefaultCompactionThreshold
	}

	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	opts.CompactionThreshold = threshold

	h, err := New(context.Background(), &Config{
		Options: &opts,
		Logger:  logger.Noop(),
		Metrics: metrics.New(nil, "test"),
	})
	require.NoError(t, err)
	return h, dir
}

func TestScenarioBasicSetGetMiss(t *testing.T) {
	h, _ := openTestHandle(t, 0)
	defer h.Close()
	ctx := context.Background()

	require.NoError(t, h.Set(ctx, "a", "1"))

	v, ok, err := h.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok, err = h.Get(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScenarioOverwriteThenRemove(t *testing.T) {
	h, _ := openTestHandle(t, 0)
	defer h.Close()
	ctx := context.Background()

	require.NoError(t, h.Set(ctx, "a", "1"))
	require.NoError(t, h.Set(ctx, "a", "2"))
	require.NoError(t, h.Remove(ctx, "a"))

	_, ok, err := h.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	err = h.Remove(ctx, "a")
	require.Error(t, err)
	assert.True(t, errors.IsIndexError(err))
}

func TestCloseAndReopenPreservesState(t *testing.T) {
	h, dir := openTestHandle(t, 0)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		require.NoError(t, h.Set(ctx, fmt.Sprintf("key-%d", i), fmt.Sprintf("value-%d", i)))
	}
	require.NoError(t, h.Remove(ctx, "key-3"))
	require.NoError(t, h.Close())

	opts := options.NewDefaultOptions()
	opts.DataDir = dir

	h2, err := New(ctx, &Config{Options: &opts, Logger: logger.Noop(), Metrics: metrics.New(nil, "test2")})
	require.NoError(t, err)
	defer h2.Close()

	for i := 0; i < 50; i++ {
		v, ok, err := h2.Get(ctx, fmt.Sprintf("key-%d", i))
		require.NoError(t, err)
		if i == 3 {
			assert.False(t, ok)
			continue
		}
		assert.True(t, ok)
		assert.Equal(t, fmt.Sprintf("value-%d", i), v)
	}
}

func TestCompactionTriggersAndPreservesVisibleState(t *testing.T) {
	// A tiny threshold forces compaction well before the loop ends.
	h, dir := openTestHandle(t, 256)
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		require.NoError(t, h.Set(ctx, "hot-key", fmt.Sprintf("value-%d", i)))
	}

	v, ok, err := h.Get(ctx, "hot-key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value-199", v)
	require.NoError(t, h.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	// Compaction should have retired every segment below the watermark,
	// leaving only the marker file plus the compacted segment and the
	// active segment that followed it.
	logFiles := 0
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".log" {
			logFiles++
		}
	}
	assert.LessOrEqual(t, logFiles, 2)
}

func TestCloneSharesStateAndRefcountsClose(t *testing.T) {
	h, _ := openTestHandle(t, 0)
	ctx := context.Background()

	require.NoError(t, h.Set(ctx, "a", "1"))

	clone, err := h.Clone()
	require.NoError(t, err)

	v, ok, err := clone.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	require.NoError(t, clone.Set(ctx, "b", "2"))
	v, ok, err = h.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	// Closing one clone must not make the other unusable.
	require.NoError(t, clone.Close())
	_, _, err = h.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, h.Close())
}

func TestEngineMismatchRejectsReopenWithDifferentBackend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, backend.Verify(dir, "bolt"))

	opts := options.NewDefaultOptions()
	opts.DataDir = dir

	_, err := New(context.Background(), &Config{
		Options: &opts,
		Logger:  logger.Noop(),
		Metrics: metrics.New(nil, "test3"),
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	// The directory must be untouched: no segment files created.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, ".log", filepath.Ext(e.Name()))
	}
}
