// Package metrics exposes Prometheus collectors for precedent matching.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the precedent matcher collectors.
type Metrics struct {
	Searches      prometheus.Counter
	Matches       prometheus.Histogram
	SearchLatency prometheus.Histogram
	Fallbacks     prometheus.Counter
	TopScore      prometheus.Histogram
}

// New registers the precedent collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Searches: factory.NewCounter(prometheus.CounterOpts{
			Name: "concord_precedent_searches_total",
			Help: "Total number of precedent similarity searches.",
		}),
		Matches: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "concord_precedent_matches",
			Help:    "Number of precedents returned per search.",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 10},
		}),
		SearchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "concord_precedent_search_duration_seconds",
			Help:    "Latency of precedent similarity searches.",
			Buckets: prometheus.DefBuckets,
		}),
		Fallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "concord_precedent_fallback_scores_total",
			Help: "Number of precedents scored with the simplified fallback.",
		}),
		TopScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "concord_precedent_top_score",
			Help:    "Similarity score of the best match per search.",
			Buckets: prometheus.LinearBuckets(0.5, 0.05, 11),
		}),
	}
}

// Default registers the collectors on the default Prometheus registerer.
func Default() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
