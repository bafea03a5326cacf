package writer

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/readerpool"
	"github.com/ignitedb/ignite/pkg/metrics"
	"go.uber.org/zap"
)

// Writer is the single-threaded append path shared by every cloned engine
// handle. All mutation — Set, Remove, and the inline compaction they can
// trigger — runs under mu, which is held for the whole duration of each
// call; this is what lets concurrent Get calls proceed lock-free while
// still observing a consistent, linearized sequence of writes.
type Writer struct {
	mu sync.Mutex

	dataDir   string
	log       *zap.SugaredLogger
	metrics   *metrics.Metrics
	idx       *index.Index
	threshold uint64

	staleBytes atomic.Uint64
	watermark  atomic.Uint64

	currGen    uint64
	active     *os.File
	pos        int64
	readerPool *readerpool.Pool
}

// Config encapsulates the parameters required to initialize a Writer.
type Config struct {
	DataDir             string
	Index               *index.Index
	CompactionThreshold uint64
	Metrics             *metrics.Metrics
	Logger              *zap.SugaredLogger
}

// Watermark returns the shared atomic counter compaction publishes to and
// reader pools consult before trusting a cached handle.
func (w *Writer) Watermark() *atomic.Uint64 {
	return &w.watermark
}

// StaleBytes returns the writer's current over-approximation of dead bytes
// across its segments.
func (w *Writer) StaleBytes() uint64 {
	return w.staleBytes.Load()
}

// CurrentGen returns the generation of the active segment.
func (w *Writer) CurrentGen() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.currGen
}
