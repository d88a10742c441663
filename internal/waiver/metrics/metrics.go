// Package metrics exposes Prometheus collectors for the waiver interpreter.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the waiver collectors.
type Metrics struct {
	Evaluations      *prometheus.CounterVec
	ActiveWaivers    prometheus.Gauge
	Revocations      prometheus.Counter
	Extensions       prometheus.Counter
	CleanupRuns      *prometheus.CounterVec
	CleanupProcessed prometheus.Counter
	CleanupDuration  prometheus.Histogram
}

// New registers the waiver collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "concord_waiver_evaluations_total",
			Help: "Waiver evaluations by decision.",
		}, []string{"decision"}),
		ActiveWaivers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "concord_waiver_active",
			Help: "Number of currently active waivers in the registry.",
		}),
		Revocations: factory.NewCounter(prometheus.CounterOpts{
			Name: "concord_waiver_revocations_total",
			Help: "Waivers revoked, explicitly or on expiry.",
		}),
		Extensions: factory.NewCounter(prometheus.CounterOpts{
			Name: "concord_waiver_extensions_total",
			Help: "Waiver extensions granted.",
		}),
		CleanupRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "concord_waiver_cleanup_runs_total",
			Help: "Expired-waiver cleanup sweeps by result.",
		}, []string{"status"}),
		CleanupProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "concord_waiver_cleanup_processed_total",
			Help: "Expired waivers processed by cleanup sweeps.",
		}),
		CleanupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "concord_waiver_cleanup_duration_seconds",
			Help:    "Duration of expired-waiver cleanup sweeps.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Default registers the collectors on the default Prometheus registerer.
func Default() *Metrics {
	return New(prometheus.DefaultRegisterer)
}

// IncrementEvaluation records one evaluation outcome.
func (m *Metrics) IncrementEvaluation(decision string) {
	if m == nil {
		return
	}
	m.Evaluations.WithLabelValues(decision).Inc()
}
