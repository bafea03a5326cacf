// Package readerpool implements the per-handle cache of open segment file
// descriptors used for positional reads. A Pool is never shared across
// goroutines — each engine handle (and the writer, for its compaction
// passes) owns its own,
// which is what lets the read path avoid locking entirely: the only shared
// state a Pool consults is the atomic read-watermark published by
// compaction.
package readerpool

import (
	"os"
	"sync/atomic"

	"github.com/ignitedb/ignite/internal/codec"
	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/record"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/segname"
)

// ReadResult carries both the raw bytes and the decoded record for a read,
// since compaction needs the raw bytes to copy verbatim while the engine
// façade needs the decoded value.
type ReadResult struct {
	Raw    []byte
	Record record.Record
}

// Pool caches open, read-only file handles keyed by segment generation.
type Pool struct {
	dataDir   string
	watermark *atomic.Uint64
	handles   map[uint64]*os.File
}

// New returns a Pool rooted at dataDir. watermark is the shared counter a
// compactor bumps after retiring segments; the pool consults it on every
// read to decide whether a cached handle might point at an unlinked file.
func New(dataDir string, watermark *atomic.Uint64) *Pool {
	return &Pool{dataDir: dataDir, watermark: watermark, handles: make(map[uint64]*os.File)}
}

// Read fetches the exact bytes loc describes, reopening and caching the
// segment file handle as needed.
func (p *Pool) Read(loc index.Locator) ([]byte, error) {
	p.evictStale()

	f, err := p.handle(loc.Gen)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, loc.Length)
	if _, err := f.ReadAt(buf, loc.Offset); err != nil {
		path := segname.Path(p.dataDir, loc.Gen)
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "reading segment record").
			WithPath(path).
			WithSegmentID(int(loc.Gen)).
			WithOffset(int(loc.Offset))
	}

	return buf, nil
}

// ReadRecord fetches and decodes the record at loc.
func (p *Pool) ReadRecord(loc index.Locator) (r ReadResult, err error) {
	buf, err := p.Read(loc)
	if err != nil {
		return ReadResult{}, err
	}

	rec, err := codec.DecodeBounded[record.Record](buf)
	if err != nil {
		return ReadResult{}, errors.NewStorageError(
			err, errors.ErrorCodeLogInconsistency, "locator does not decode to a valid record",
		).WithSegmentID(int(loc.Gen)).WithOffset(int(loc.Offset))
	}

	return ReadResult{Raw: buf, Record: rec}, nil
}

// evictStale drops cached handles for generations the compactor has
// retired; the pool discovers this lazily, on the next read, rather than
// being notified synchronously.
func (p *Pool) evictStale() {
	wm := p.watermark.Load()
	for gen, f := range p.handles {
		if gen < wm {
			f.Close()
			delete(p.handles, gen)
		}
	}
}

func (p *Pool) handle(gen uint64) (*os.File, error) {
	if f, ok := p.handles[gen]; ok {
		return f, nil
	}

	path := segname.Path(p.dataDir, gen)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "opening segment for read").
			WithPath(path).
			WithSegmentID(int(gen))
	}

	p.handles[gen] = f
	return f, nil
}

// Close releases every cached handle. Safe to call once the owning engine
// handle is done with the pool.
func (p *Pool) Close() error {
	for gen, f := range p.handles {
		f.Close()
		delete(p.handles, gen)
	}
	return nil
}
