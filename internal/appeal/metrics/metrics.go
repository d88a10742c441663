// Package metrics exposes Prometheus collectors for the appeal arbitrator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the appeal collectors.
type Metrics struct {
	Submissions prometheus.Counter
	Reviews     *prometheus.CounterVec
	Escalations prometheus.Counter
	Finalized   prometheus.Counter
	ReviewScore prometheus.Histogram
}

// New registers the appeal collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounter(prometheus.CounterOpts{
			Name: "concord_appeal_submissions_total",
			Help: "Appeals accepted at submission.",
		}),
		Reviews: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "concord_appeal_reviews_total",
			Help: "Appeal reviews by outcome.",
		}, []string{"outcome"}),
		Escalations: factory.NewCounter(prometheus.CounterOpts{
			Name: "concord_appeal_escalations_total",
			Help: "Appeals escalated to the next level.",
		}),
		Finalized: factory.NewCounter(prometheus.CounterOpts{
			Name: "concord_appeal_finalized_total",
			Help: "Appeals finalized.",
		}),
		ReviewScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "concord_appeal_review_score",
			Help:    "Overall review score per appeal decision.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}
}

// Default registers the collectors on the default Prometheus registerer.
func Default() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
