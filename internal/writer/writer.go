// Package writer implements the single-writer append path: loading the
// segment log on open, serializing Set/Remove records to the active
// segment, maintaining the stale-byte counter, and running compaction
// inline once that counter crosses its threshold.
package writer

import (
	"context"
	stdErrors "errors"
	"io"
	"os"

	"github.com/ignitedb/ignite/internal/codec"
	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/readerpool"
	"github.com/ignitedb/ignite/internal/record"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/segname"
)

var ErrWriterClosed = stdErrors.New("operation failed: cannot access closed writer")

// New replays every segment under config.DataDir in ascending gen order to
// rebuild config.Index and the stale-byte counter, then opens a fresh,
// empty active segment one generation past the highest one found. Unlike
// continuing to append to whatever segment was last active, always
// starting a new one keeps segment boundaries aligned with process
// lifetimes and sidesteps having to re-derive a trustworthy end-of-file
// position from a segment that might have a truncated tail.
func New(ctx context.Context, config *Config) (*Writer, error) {
	if config == nil || config.DataDir == "" || config.Index == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "writer configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	gens, err := segname.ListGens(config.DataDir)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "listing segment files").
			WithPath(config.DataDir)
	}

	w := &Writer{
		dataDir:   config.DataDir,
		log:       config.Logger,
		metrics:   config.Metrics,
		idx:       config.Index,
		threshold: config.CompactionThreshold,
	}

	var staleBytes uint64
	for _, gen := range gens {
		n, err := loadSegment(config.DataDir, gen, config.Index)
		if err != nil {
			return nil, err
		}
		staleBytes += n
	}
	w.staleBytes.Store(staleBytes)

	latest, hasLatest, err := segname.LatestGen(config.DataDir)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "finding latest segment gen").
			WithPath(config.DataDir)
	}

	nextGen := uint64(1)
	if hasLatest {
		nextGen = latest + 1
	}

	active, err := createSegment(config.DataDir, nextGen)
	if err != nil {
		return nil, err
	}

	w.currGen = nextGen
	w.active = active
	w.pos = 0
	w.readerPool = readerpool.New(config.DataDir, w.Watermark())

	config.Logger.Infow(
		"writer bootstrapped",
		"dataDir", config.DataDir,
		"segmentsLoaded", len(gens),
		"activeGen", nextGen,
		"staleBytes", staleBytes,
		"keys", config.Index.Len(),
	)

	return w, nil
}

// loadSegment replays one segment file into idx, returning the number of
// stale bytes it contributes (displaced Sets, removed entries, and Remove
// records themselves).
func loadSegment(dataDir string, gen uint64, idx *index.Index) (uint64, error) {
	path := segname.Path(dataDir, gen)
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "opening segment for replay").
			WithPath(path).WithSegmentID(int(gen))
	}
	defer f.Close()

	var stale uint64
	err = codec.DecodeStream(f, func(start, end int64, rec record.Record) error {
		key, kerr := rec.Key()
		if kerr != nil {
			return errors.NewStorageError(kerr, errors.ErrorCodeCodecFailure, "record missing both Set and Remove").
				WithSegmentID(int(gen)).WithOffset(int(start))
		}

		length := end - start
		if rec.IsSet() {
			if prev, had := idx.Set(key, index.Locator{Gen: gen, Offset: start, Length: length}); had {
				stale += uint64(prev.Length)
			}
		} else {
			if prev, had := idx.Delete(key); had {
				stale += uint64(prev.Length)
			}
			stale += uint64(length)
		}
		return nil
	})

	if err != nil {
		var decErr *codec.DecodeError
		if stdErrors.As(err, &decErr) {
			// A half-written tail is expected after an unclean shutdown:
			// keep everything decoded before it and move on.
			return stale, nil
		}
		return stale, errors.NewStorageError(err, errors.ErrorCodeCodecFailure, "replaying segment").
			WithPath(path).WithSegmentID(int(gen))
	}

	return stale, nil
}

func createSegment(dataDir string, gen uint64) (*os.File, error) {
	path := segname.Path(dataDir, gen)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, segname.FileName(gen))
	}
	return f, nil
}

// Set appends a Set record for key/value, updates the index, and runs
// compaction inline if the stale-byte threshold has been crossed.
func (w *Writer) Set(key, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	pos := w.pos
	encoded, err := codec.Encode(w.active, record.NewSet(key, value))
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeCodecFailure, "encoding Set record").
			WithSegmentID(int(w.currGen)).WithOffset(int(pos))
	}

	length := int64(len(encoded))
	w.pos += length

	if prev, had := w.idx.Set(key, index.Locator{Gen: w.currGen, Offset: pos, Length: length}); had {
		w.staleBytes.Add(uint64(prev.Length))
	}

	if w.metrics != nil {
		w.metrics.SetsTotal.Inc()
		w.metrics.BytesWrittenTotal.Add(float64(length))
		w.metrics.StaleBytes.Set(float64(w.staleBytes.Load()))
	}

	if w.staleBytes.Load() > w.threshold {
		return w.compactLocked()
	}
	return nil
}

// Remove appends a Remove record for key and updates the index. Returns a
// key-not-found error, writing nothing, if key has no live entry.
func (w *Writer) Remove(key string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	prevLoc, had := w.idx.Get(key)
	if !had {
		return errors.NewKeyNotFoundError(key)
	}

	pos := w.pos
	encoded, err := codec.Encode(w.active, record.NewRemove(key))
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeCodecFailure, "encoding Remove record").
			WithSegmentID(int(w.currGen)).WithOffset(int(pos))
	}

	length := int64(len(encoded))
	w.pos += length

	w.idx.Delete(key)
	w.staleBytes.Add(uint64(prevLoc.Length) + uint64(length))

	if w.metrics != nil {
		w.metrics.RemovesTotal.Inc()
		w.metrics.BytesWrittenTotal.Add(float64(length))
		w.metrics.StaleBytes.Set(float64(w.staleBytes.Load()))
	}

	if w.staleBytes.Load() > w.threshold {
		return w.compactLocked()
	}
	return nil
}

// Close flushes and releases every file handle the writer holds, including
// its private compaction reader pool.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	if w.active != nil {
		err = w.active.Close()
	}
	if poolErr := w.readerPool.Close(); poolErr != nil && err == nil {
		err = poolErr
	}
	return err
}

var _ io.Closer = (*Writer)(nil)
