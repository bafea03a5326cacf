// Package options provides data structures and functions for configuring
// the Ignite database. It defines the parameters that control Ignite's
// storage behavior, compaction trigger, worker pool sizing, and which
// storage backend a handle is opened against.
package options

import "strings"

// Options defines the configuration parameters for Ignite DB. It provides
// control over storage layout, compaction aggressiveness, and the request
// server's concurrency.
type Options struct {
	// DataDir is the directory segment files (or the alternative engine's
	// database file) live in.
	//
	// Default: "/var/lib/ignitedb"
	DataDir string `json:"dataDir"`

	// CompactionThreshold is the number of stale bytes a writer tolerates
	// across its live segments before running an inline compaction.
	//
	// Default: 1 MiB
	CompactionThreshold uint64 `json:"compactionThreshold"`

	// Workers is the number of goroutines in the request server's worker
	// pool.
	//
	// Default: 4
	Workers int `json:"workers"`

	// Engine selects the storage backend: "kvs" for the log-structured
	// engine, or "bolt" for the embedded B-tree adapter.
	//
	// Default: "kvs"
	Engine string `json:"engine"`

	// MetricsNamespace prefixes every Prometheus metric this module
	// registers.
	//
	// Default: "ignitedb"
	MetricsNamespace string `json:"metricsNamespace"`
}

// OptionFunc is a function type that modifies the Ignite system's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies the baseline configuration values to Options.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.CompactionThreshold = opts.CompactionThreshold
		o.Workers = opts.Workers
		o.Engine = opts.Engine
		o.MetricsNamespace = opts.MetricsNamespace
	}
}

// WithDataDir sets the primary data directory for Ignite.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithCompactionThreshold sets the stale-byte threshold that triggers
// inline compaction.
func WithCompactionThreshold(threshold uint64) OptionFunc {
	return func(o *Options) {
		if threshold >= MinCompactionThreshold {
			o.CompactionThreshold = threshold
		}
	}
}

// WithWorkers sets the number of goroutines in the request server's pool.
func WithWorkers(n int) OptionFunc {
	return func(o *Options) {
		if n > 0 {
			o.Workers = n
		}
	}
}

// WithEngine selects the storage backend ("kvs" or "bolt").
func WithEngine(engine string) OptionFunc {
	return func(o *Options) {
		engine = strings.TrimSpace(strings.ToLower(engine))
		if engine != "" {
			o.Engine = engine
		}
	}
}

// WithMetricsNamespace overrides the Prometheus metric name prefix.
func WithMetricsNamespace(namespace string) OptionFunc {
	return func(o *Options) {
		namespace = strings.TrimSpace(namespace)
		if namespace != "" {
			o.MetricsNamespace = namespace
		}
	}
}
