// Package metrics registers the Prometheus instrumentation exposed by the
// writer and request server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every counter and gauge this module exports. A nil
// *Metrics is never passed to components — New always returns a usable
// value backed by either the caller's registerer or a private one.
type Metrics struct {
	SetsTotal         prometheus.Counter
	GetsTotal         prometheus.Counter
	RemovesTotal      prometheus.Counter
	CompactionsTotal  prometheus.Counter
	BytesWrittenTotal prometheus.Counter
	StaleBytes        prometheus.Gauge
	RequestsTotal     *prometheus.CounterVec
}

// New registers Metrics under namespace against reg. Passing nil for reg
// registers against a fresh, private prometheus.Registry so tests and
// multiple engine instances in the same process don't collide on metric
// names.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		SetsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sets_total",
			Help:      "sets_total counts completed Set operations.",
		}),
		GetsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gets_total",
			Help:      "gets_total counts completed Get operations.",
		}),
		RemovesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "removes_total",
			Help:      "removes_total counts completed Remove operations.",
		}),
		CompactionsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions_total",
			Help:      "compactions_total counts inline compactions the writer has run.",
		}),
		BytesWrittenTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_written_total",
			Help:      "bytes_written_total counts encoded record bytes appended to segments.",
		}),
		StaleBytes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stale_bytes",
			Help:      "stale_bytes is the writer's current over-approximation of dead bytes.",
		}),
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "requests_total counts server requests by API and outcome.",
		}, []string{"api", "outcome"}),
	}
}
