// Package ignite is the public entry point for embedding the store: Open
// selects and initializes one of the two storage engines and returns a
// cheaply cloneable Engine handle, the same façade the request server uses
// over the wire.
package ignite

import (
	"context"

	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/pkg/boltengine"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/metrics"
	"github.com/ignitedb/ignite/pkg/options"
)

// Engine is the get/set/remove façade shared by both storage backends.
// A value obtained from Clone is independent: closing it never closes the
// handle it was cloned from, and the underlying files are only released
// once every clone has been closed.
type Engine interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Clone() (Engine, error)
	Close() error
}

// Open initializes the backend named by the resolved options' Engine field
// ("kvs" for the log-structured engine, "bolt" for the bbolt-backed one)
// and returns a ready Engine handle. service names the logger so log lines
// from multiple embedded instances in one process can be told apart.
func Open(ctx context.Context, service string, opts ...options.OptionFunc) (Engine, error) {
	log := logger.New(service)

	cfg := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	met := metrics.New(nil, cfg.MetricsNamespace)

	switch cfg.Engine {
	case "", options.DefaultEngine:
		h, err := engine.New(ctx, &engine.Config{Options: &cfg, Logger: log, Metrics: met})
		if err != nil {
			return nil, err
		}
		return &kvsEngine{h: h}, nil

	case "bolt":
		st, err := boltengine.Open(ctx, &cfg, log, met)
		if err != nil {
			return nil, err
		}
		return &boltAdapter{st: st}, nil

	default:
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "unknown storage engine",
		).WithField("engine").WithRule("one_of").WithProvided(cfg.Engine).WithExpected("kvs, bolt")
	}
}

// kvsEngine adapts *engine.Handle's concrete Clone return type to the
// Engine interface.
type kvsEngine struct {
	h *engine.Handle
}

func (k *kvsEngine) Get(ctx context.Context, key string) (string, bool, error) {
	return k.h.Get(ctx, key)
}

func (k *kvsEngine) Set(ctx context.Context, key, value string) error {
	return k.h.Set(ctx, key, value)
}

func (k *kvsEngine) Remove(ctx context.Context, key string) error {
	return k.h.Remove(ctx, key)
}

func (k *kvsEngine) Clone() (Engine, error) {
	c, err := k.h.Clone()
	if err != nil {
		return nil, err
	}
	return &kvsEngine{h: c}, nil
}

func (k *kvsEngine) Close() error {
	return k.h.Close()
}

// boltAdapter adapts *boltengine.Store's concrete Clone return type to the
// Engine interface.
type boltAdapter struct {
	st *boltengine.Store
}

func (b *boltAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	return b.st.Get(ctx, key)
}

func (b *boltAdapter) Set(ctx context.Context, key, value string) error {
	return b.st.Set(ctx, key, value)
}

func (b *boltAdapter) Remove(ctx context.Context, key string) error {
	return b.st.Remove(ctx, key)
}

func (b *boltAdapter) Clone() (Engine, error) {
	c, err := b.st.Clone()
	if err != nil {
		return nil, err
	}
	return &boltAdapter{st: c}, nil
}

func (b *boltAdapter) Close() error {
	return b.st.Close()
}
