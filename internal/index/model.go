package index

import (
	"sync/atomic"

	"github.com/benbjohnson/immutable"
	"go.uber.org/zap"
)

// Locator is a byte-accurate pointer to one record: which segment it lives
// in, where it starts, and how long it is. Locators are immutable once
// placed in the index — a key's locator is always replaced wholesale, never
// mutated in place.
type Locator struct {
	// Gen identifies the segment file (<Gen>.log) the record lives in.
	Gen uint64

	// Offset is the byte position of the record's first byte within that
	// segment.
	Offset int64

	// Length is the record's exact byte size, letting a reader fetch it
	// with a single bounded read.
	Length int64
}

// Index is the concurrent ordered mapping from key to Locator. Reads never
// block: Get loads the current persistent snapshot through an atomic
// pointer with no locking at all. Mutation is the exclusive province of the
// single writer, which builds the next snapshot and publishes it with one
// atomic store; Index does not itself enforce that single-writer contract,
// trusting the caller the way the rest of this engine's mutation path does.
type Index struct {
	log     *zap.SugaredLogger
	dataDir string
	snap    atomic.Pointer[immutable.SortedMap[string, Locator]]
	closed  atomic.Bool
}

// Config encapsulates the parameters required to initialize an Index.
type Config struct {
	DataDir string
	Logger  *zap.SugaredLogger
}
