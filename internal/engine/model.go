package engine

import (
	"sync/atomic"

	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/readerpool"
	"github.com/ignitedb/ignite/internal/writer"
	"github.com/ignitedb/ignite/pkg/metrics"
	"github.com/ignitedb/ignite/pkg/options"
	"go.uber.org/zap"
)

// shared is the state every clone of a Handle points at: the index, the
// single writer, and the bookkeeping needed to close everything exactly
// once, when the last handle is dropped.
type shared struct {
	dataDir string
	log     *zap.SugaredLogger
	metrics *metrics.Metrics
	idx     *index.Index
	writer  *writer.Writer
	refs    atomic.Int64
	closed  atomic.Bool
}

// Handle is a cheaply cloneable engine handle. Each Handle owns its own
// reader pool cache; Get reads never contend with each other or with Set,
// Remove, and compaction, all of which are serialized through the shared
// writer's mutex.
type Handle struct {
	s    *shared
	pool *readerpool.Pool
}

// Config holds the parameters needed to open a new Handle.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
	Metrics *metrics.Metrics
}
