package options

const (
	// DefaultDataDir is the base directory IgniteDB stores its data files
	// in when no other directory is specified during initialization.
	DefaultDataDir = "/var/lib/ignitedb"

	// DefaultCompactionThreshold is the number of stale bytes accumulated
	// across segments above which an inline compaction runs, at the end of
	// the Set or Remove call that pushed the count past it.
	DefaultCompactionThreshold uint64 = 1024 * 1024

	// MinCompactionThreshold is the smallest threshold WithCompactionThreshold
	// accepts; below this, compaction would run on nearly every write.
	MinCompactionThreshold uint64 = 4 * 1024

	// DefaultWorkers is the number of goroutines in the request server's
	// worker pool when no explicit count is configured.
	DefaultWorkers = 4

	// DefaultEngine names the backend used when none is specified.
	DefaultEngine = "kvs"

	// DefaultMetricsNamespace prefixes every metric this module registers.
	DefaultMetricsNamespace = "ignitedb"
)

// defaultOptions holds the baseline configuration for an IgniteDB instance.
var defaultOptions = Options{
	DataDir:             DefaultDataDir,
	CompactionThreshold: DefaultCompactionThreshold,
	Workers:             DefaultWorkers,
	Engine:              DefaultEngine,
	MetricsNamespace:    DefaultMetricsNamespace,
}

// NewDefaultOptions returns a copy of the baseline configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
