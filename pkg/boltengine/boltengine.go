// Package boltengine implements the alternative storage engine: the same
// get/set/remove façade as the log-structured engine, layered over an
// embedded ordered key-value library instead of hand-rolled segment files.
// It exists so a server can be launched with either backend.
package boltengine

import (
	"context"
	stdErrors "errors"
	"path/filepath"
	"sync/atomic"

	bolt "go.etcd.io/bbolt"

	"github.com/ignitedb/ignite/pkg/backend"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/metrics"
	"github.com/ignitedb/ignite/pkg/options"
	"go.uber.org/zap"
)

// EngineName identifies this backend in the data directory's marker file.
const EngineName = "bolt"

const dbFileName = "bolt.db"

var bucketName = []byte("kv")

// ErrStoreClosed is returned when attempting to perform operations on a
// closed store.
var ErrStoreClosed = stdErrors.New("operation failed: cannot access closed store")

var errKeyNotFound = stdErrors.New("key not found")

type shared struct {
	db      *bolt.DB
	log     *zap.SugaredLogger
	metrics *metrics.Metrics
	refs    atomic.Int64
	closed  atomic.Bool
}

// Store is a cheaply cloneable handle onto a bbolt-backed key-value store.
// bbolt already serializes writers internally through its own transaction
// lock, so every clone can issue transactions against the same *bolt.DB
// without additional coordination here.
type Store struct {
	s *shared
}

// Open verifies or records the "bolt" backend marker, opens (creating if
// necessary) a bbolt database under opts.DataDir, and returns a ready
// Store.
func Open(ctx context.Context, opts *options.Options, log *zap.SugaredLogger, met *metrics.Metrics) (*Store, error) {
	dataDir := opts.DataDir
	if err := filesys.CreateDir(dataDir, 0755, true); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, dataDir)
	}

	if err := backend.Verify(dataDir, EngineName); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	db, err := bolt.Open(dbPath, 0644, nil)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "opening bolt database").WithPath(dbPath)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "creating bolt bucket").WithPath(dbPath)
	}

	s := &shared{db: db, log: log, metrics: met}
	s.refs.Store(1)

	log.Infow("engine opened", "dataDir", dataDir, "engine", EngineName)
	return &Store{s: s}, nil
}

// Get returns the value stored for key, or ok=false if key has no entry.
func (st *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value []byte

	err := st.s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return "", false, errors.NewStorageError(err, errors.ErrorCodeIO, "reading bolt key")
	}
	if value == nil {
		return "", false, nil
	}

	if st.s.metrics != nil {
		st.s.metrics.GetsTotal.Inc()
	}
	return string(value), true, nil
}

// Set stores key/value.
func (st *Store) Set(ctx context.Context, key, value string) error {
	err := st.s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "writing bolt key")
	}

	if st.s.metrics != nil {
		st.s.metrics.SetsTotal.Inc()
		st.s.metrics.BytesWrittenTotal.Add(float64(len(key) + len(value)))
	}
	return nil
}

// Remove deletes key, returning a key-not-found error if it has no entry.
func (st *Store) Remove(ctx context.Context, key string) error {
	err := st.s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b.Get([]byte(key)) == nil {
			return errKeyNotFound
		}
		return b.Delete([]byte(key))
	})

	if stdErrors.Is(err, errKeyNotFound) {
		return errors.NewKeyNotFoundError(key)
	}
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "removing bolt key")
	}

	if st.s.metrics != nil {
		st.s.metrics.RemovesTotal.Inc()
	}
	return nil
}

// Clone returns an independent handle sharing the same underlying database.
func (st *Store) Clone() (*Store, error) {
	if st.s.closed.Load() {
		return nil, ErrStoreClosed
	}
	st.s.refs.Add(1)
	return &Store{s: st.s}, nil
}

// Close releases this handle. Once every clone has been closed, the
// underlying bbolt database is closed too.
func (st *Store) Close() error {
	if st.s.refs.Add(-1) > 0 {
		return nil
	}
	if !st.s.closed.CompareAndSwap(false, true) {
		return ErrStoreClosed
	}
	return st.s.db.Close()
}
