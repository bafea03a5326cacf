// Package logger builds the structured loggers used throughout Ignite.
// Every subsystem constructor takes a *zap.SugaredLogger rather than
// depending on zap directly, keeping the logging backend swappable.
package logger

import (
	"go.uber.org/zap"
)

// New builds a production zap logger scoped to service via Named, and
// returns its sugared form for the Infow/Errorw call sites used across
// the engine, server and CLI packages.
func New(service string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true

	log, err := cfg.Build()
	if err != nil {
		// zap.NewProductionConfig().Build() only fails on a broken encoder
		// config; fall back to a logger that still works rather than
		// propagating a constructor error through every New() in the tree.
		log = zap.NewNop()
	}

	return log.Named(service).Sugar()
}

// Noop returns a logger that discards everything, for tests that don't
// want log output but still need to satisfy a *zap.SugaredLogger field.
func Noop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
