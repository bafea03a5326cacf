// Package engine implements the "kvs" log-structured storage engine: the
// index, writer, and reader pools wired together behind a cloneable
// Handle. It is one of two implementations of the ignite.Engine interface
// (see pkg/boltengine for the other); the server and pkg/ignite select
// between them by the configured engine name.
package engine

import (
	"context"
	stdErrors "errors"

	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/readerpool"
	"github.com/ignitedb/ignite/internal/writer"
	"github.com/ignitedb/ignite/pkg/backend"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/filesys"
)

// EngineName identifies this backend in the data directory's marker file.
const EngineName = "kvs"

// ErrHandleClosed is returned when attempting to perform operations on a
// closed handle.
var ErrHandleClosed = stdErrors.New("operation failed: cannot access closed handle")

// New opens (creating if necessary) the data directory named by
// config.Options.DataDir, verifies or records the backend marker, replays
// the segment log, and returns a ready Handle.
func New(ctx context.Context, config *Config) (*Handle, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "engine configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	dataDir := config.Options.DataDir
	if err := filesys.CreateDir(dataDir, 0755, true); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, dataDir)
	}

	if err := backend.Verify(dataDir, EngineName); err != nil {
		return nil, err
	}

	idx, err := index.New(ctx, &index.Config{DataDir: dataDir, Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	w, err := writer.New(ctx, &writer.Config{
		DataDir:             dataDir,
		Index:               idx,
		CompactionThreshold: config.Options.CompactionThreshold,
		Metrics:             config.Metrics,
		Logger:              config.Logger,
	})
	if err != nil {
		return nil, err
	}

	s := &shared{dataDir: dataDir, log: config.Logger, metrics: config.Metrics, idx: idx, writer: w}
	s.refs.Store(1)

	config.Logger.Infow("engine opened", "dataDir", dataDir, "engine", EngineName)

	return &Handle{s: s, pool: readerpool.New(dataDir, w.Watermark())}, nil
}

// Get returns the value stored for key, or ok=false if key has no live
// entry. It never touches the writer.
func (h *Handle) Get(ctx context.Context, key string) (string, bool, error) {
	loc, ok := h.s.idx.Get(key)
	if !ok {
		return "", false, nil
	}

	result, err := h.pool.ReadRecord(loc)
	if err != nil {
		return "", false, err
	}

	if !result.Record.IsSet() {
		return "", false, errors.NewStorageError(
			nil, errors.ErrorCodeLogInconsistency, "locator points at a Remove record",
		).WithSegmentID(int(loc.Gen)).WithOffset(int(loc.Offset))
	}

	if result.Record.Set.Key != key {
		return "", false, errors.NewStorageError(
			nil, errors.ErrorCodeLogInconsistency, "locator's record key does not match the indexed key",
		).WithSegmentID(int(loc.Gen)).WithOffset(int(loc.Offset))
	}

	if h.s.metrics != nil {
		h.s.metrics.GetsTotal.Inc()
	}
	return result.Record.Set.Value, true, nil
}

// Set stores key/value, durably and visibly to subsequent Get calls from
// any clone of this handle.
func (h *Handle) Set(ctx context.Context, key, value string) error {
	return h.s.writer.Set(key, value)
}

// Remove deletes key, returning a key-not-found error if it has no live
// entry.
func (h *Handle) Remove(ctx context.Context, key string) error {
	return h.s.writer.Remove(key)
}

// Clone returns an independent handle sharing this one's index, writer,
// and watermark, with its own reader pool cache.
func (h *Handle) Clone() (*Handle, error) {
	if h.s.closed.Load() {
		return nil, ErrHandleClosed
	}
	h.s.refs.Add(1)
	return &Handle{s: h.s, pool: readerpool.New(h.s.dataDir, h.s.writer.Watermark())}, nil
}

// Close releases this handle's reader pool. Once every clone has been
// closed, the shared writer and index are closed too.
func (h *Handle) Close() error {
	if err := h.pool.Close(); err != nil {
		h.s.log.Warnw("closing reader pool", "error", err)
	}

	if h.s.refs.Add(-1) > 0 {
		return nil
	}

	if !h.s.closed.CompareAndSwap(false, true) {
		return ErrHandleClosed
	}

	h.s.log.Infow("closing engine", "dataDir", h.s.dataDir)

	writerErr := h.s.writer.Close()
	idxErr := h.s.idx.Close()
	if writerErr != nil {
		return writerErr
	}
	return idxErr
}
