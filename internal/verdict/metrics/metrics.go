package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for verdict generation.
type Metrics struct {
	VerdictsIssued    *prometheus.CounterVec
	GenerationLatency prometheus.Histogram
	Warnings          *prometheus.CounterVec
	ChainLength       prometheus.Histogram
}

// New registers and returns verdict metrics collectors.
func New() *Metrics {
	return &Metrics{
		VerdictsIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "concord_verdicts_issued_total",
			Help: "Total verdicts issued, labeled by outcome and violation severity",
		}, []string{"outcome", "severity"}),
		GenerationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "concord_verdict_generation_latency_seconds",
			Help:    "Latency of verdict generation in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.15, 0.5, 1},
		}),
		Warnings: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "concord_verdict_warnings_total",
			Help: "Total non-fatal warnings emitted during generation, labeled by kind",
		}, []string{"kind"}),
		ChainLength: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "concord_verdict_reasoning_steps",
			Help:    "Distribution of reasoning chain lengths",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
		}),
	}
}

func (m *Metrics) IncrementVerdict(outcome, severity string) {
	m.VerdictsIssued.WithLabelValues(outcome, severity).Inc()
}

func (m *Metrics) ObserveGenerationLatency(d time.Duration) {
	m.GenerationLatency.Observe(d.Seconds())
}

func (m *Metrics) IncrementWarning(kind string) {
	m.Warnings.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveChainLength(n int) {
	m.ChainLength.Observe(float64(n))
}
