package writer

import (
	"os"

	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/segname"
)

// compactLocked rewrites every live entry into a fresh segment and retires
// everything older. Called with mu already held, so no concurrent Set,
// Remove, or compaction can interleave with it; Get calls proceed
// unaffected throughout, since they never touch mu.
func (w *Writer) compactLocked() error {
	compactGen := w.currGen + 1
	nextGen := w.currGen + 2

	// Swap the active segment first so new writes land in nextGen
	// immediately; only then do we start rewriting old data, keeping
	// compacted output and fresh writes in distinct files.
	retiredActive := w.active
	nextActive, err := createSegment(w.dataDir, nextGen)
	if err != nil {
		return err
	}
	w.active = nextActive
	w.currGen = nextGen
	w.pos = 0

	compactFile, err := createSegment(w.dataDir, compactGen)
	if err != nil {
		return err
	}

	var pos int64
	snapshot := w.idx.Snapshot()
	itr := snapshot.Iterator()
	for !itr.Done() {
		key, oldLoc, ok := itr.Next()
		if !ok {
			break
		}

		raw, err := w.readerPool.Read(oldLoc)
		if err != nil {
			compactFile.Close()
			return err
		}

		n, err := compactFile.Write(raw)
		if err != nil {
			compactFile.Close()
			return errors.NewStorageError(err, errors.ErrorCodeIO, "writing compacted record").
				WithSegmentID(int(compactGen)).WithOffset(int(pos))
		}

		w.idx.Replace(key, index.Locator{Gen: compactGen, Offset: pos, Length: int64(n)})
		pos += int64(n)
	}

	if err := compactFile.Close(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "closing compacted segment").
			WithSegmentID(int(compactGen))
	}
	if err := retiredActive.Close(); err != nil {
		w.log.Warnw("closing retired active segment", "error", err, "gen", compactGen-1)
	}

	// Every segment older than compactGen, including the one we just
	// closed, is now dead; publish the watermark before unlinking so
	// reader pools drop their cached handles on next use rather than
	// reading through a deleted inode indefinitely.
	w.watermark.Store(compactGen)

	gens, err := segname.ListGens(w.dataDir)
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "listing segments for retirement").
			WithPath(w.dataDir)
	}
	for _, gen := range gens {
		if gen < compactGen {
			if err := os.Remove(segname.Path(w.dataDir, gen)); err != nil {
				w.log.Warnw("unlinking retired segment", "error", err, "gen", gen)
			}
		}
	}

	w.staleBytes.Store(0)

	if w.metrics != nil {
		w.metrics.CompactionsTotal.Inc()
		w.metrics.StaleBytes.Set(0)
	}

	w.log.Infow("compaction complete", "compactGen", compactGen, "nextGen", nextGen, "keys", w.idx.Len())
	return nil
}
