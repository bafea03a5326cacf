// Package index provides the concurrent, ordered key-to-locator mapping at
// the center of the storage engine. It is backed by a persistent
// (copy-on-write) sorted map: every mutation produces a new immutable
// snapshot that is published with a single atomic pointer store, so reads
// never take a lock and a compaction in progress can keep iterating the
// snapshot it started with even while the writer moves on to a newer one.
package index

import (
	"context"
	stdErrors "errors"

	"github.com/benbjohnson/immutable"
	"github.com/ignitedb/ignite/pkg/errors"
)

var ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")

// New creates and initializes a new Index. The returned Index is
// immediately ready for concurrent Get calls from any number of goroutines.
func New(ctx context.Context, config *Config) (*Index, error) {
	if config == nil || config.DataDir == "" || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "Index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	idx := &Index{log: config.Logger, dataDir: config.DataDir}
	idx.snap.Store(immutable.NewSortedMap[string, Locator](nil))
	return idx, nil
}

// Get returns the current locator for key without blocking on any mutation
// in progress.
func (idx *Index) Get(key string) (Locator, bool) {
	return idx.snap.Load().Get(key)
}

// Set records key's new locator, returning the locator it replaced, if any.
// Only the writer holding the storage mutex may call this.
func (idx *Index) Set(key string, loc Locator) (previous Locator, hadPrevious bool) {
	current := idx.snap.Load()
	previous, hadPrevious = current.Get(key)
	idx.snap.Store(current.Set(key, loc))
	return previous, hadPrevious
}

// Delete removes key from the index, returning the locator it held, if any.
// Only the writer holding the storage mutex may call this.
func (idx *Index) Delete(key string) (previous Locator, hadPrevious bool) {
	current := idx.snap.Load()
	previous, hadPrevious = current.Get(key)
	idx.snap.Store(current.Delete(key))
	return previous, hadPrevious
}

// Replace atomically re-points key at loc without consulting or reporting
// the prior locator — used by compaction, which already knows the prior
// value it fetched for copying and only needs the new one published.
func (idx *Index) Replace(key string, loc Locator) {
	current := idx.snap.Load()
	idx.snap.Store(current.Set(key, loc))
}

// Snapshot returns the persistent map as it stands at the moment of the
// call. The returned value never changes underneath the caller even as
// further Set/Delete calls publish newer snapshots, making it safe for a
// compactor to iterate while the writer keeps accepting new mutations.
func (idx *Index) Snapshot() *immutable.SortedMap[string, Locator] {
	return idx.snap.Load()
}

// Len returns the number of live keys in the current snapshot.
func (idx *Index) Len() int {
	return idx.snap.Load().Len()
}

// Close releases the index. It is idempotent-unsafe by design, matching the
// rest of this engine's lifecycle types: closing twice is a programmer
// error and is reported as such.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	idx.log.Infow("closing index", "keys", idx.Len())
	idx.snap.Store(immutable.NewSortedMap[string, Locator](nil))
	return nil
}
