package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	o := NewDefaultOptions()
	assert.Equal(t, DefaultDataDir, o.DataDir)
	assert.Equal(t, DefaultCompactionThreshold, o.CompactionThreshold)
	assert.Equal(t, DefaultWorkers, o.Workers)
	assert.Equal(t, DefaultEngine, o.Engine)
	assert.Equal(t, DefaultMetricsNamespace, o.MetricsNamespace)
}

func TestWithDataDirIgnoresBlank(t *testing.T) {
	o := NewDefaultOptions()
	WithDataDir("  ")(&o)
	assert.Equal(t, DefaultDataDir, o.DataDir)

	WithDataDir("/tmp/custom")(&o)
	assert.Equal(t, "/tmp/custom", o.DataDir)
}

func TestWithCompactionThresholdRejectsBelowMinimum(t *testing.T) {
	o := NewDefaultOptions()
	WithCompactionThreshold(MinCompactionThreshold - 1)(&o)
	assert.Equal(t, DefaultCompactionThreshold, o.CompactionThreshold)

	WithCompactionThreshold(MinCompactionThreshold)(&o)
	assert.Equal(t, MinCompactionThreshold, o.CompactionThreshold)
}

func TestWithWorkersRejectsNonPositive(t *testing.T) {
	o := NewDefaultOptions()
	WithWorkers(0)(&o)
	assert.Equal(t, DefaultWorkers, o.Workers)

	WithWorkers(8)(&o)
	assert.Equal(t, 8, o.Workers)
}

func TestWithEngineNormalizesCase(t *testing.T) {
	o := NewDefaultOptions()
	WithEngine(" BOLT ")(&o)
	assert.Equal(t, "bolt", o.Engine)
}
