// Package precedent implements precedent similarity matching: scoring a
// violation context against a corpus of prior decisions across weighted
// factors and returning the closest matches above a similarity threshold.
package precedent

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"concord/internal/arbitration"
	"concord/internal/precedent/metrics"
	"concord/internal/precedent/tracer"
	id "concord/pkg/domain"
)

// Context is the query side of a similarity search: the violation being
// arbitrated, flattened to the fields the factor scorers consume.
type Context struct {
	Description string
	Category    string
	Severity    arbitration.Severity
	Evidence    []string
	RuleIDs     []id.RuleID
}

// Match is one scored precedent. Fallback marks precedents scored with the
// simplified scorer after full factor computation failed.
type Match struct {
	Precedent arbitration.Precedent
	Score     float64
	Factors   Factors
	Fallback  bool
}

// Matcher scores precedents against violation contexts. Safe for concurrent
// use; all state is read-only after construction.
type Matcher struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

// Option configures the Matcher.
type Option func(*Matcher)

// WithLogger sets the logger for the matcher.
func WithLogger(l *slog.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics sets the metrics collector for the matcher.
func WithMetrics(mx *metrics.Metrics) Option {
	return func(m *Matcher) {
		m.metrics = mx
	}
}

// WithTracer sets the tracer for the matcher.
func WithTracer(t tracer.Tracer) Option {
	return func(m *Matcher) {
		if t != nil {
			m.tracer = t
		}
	}
}

// NewMatcher creates a Matcher with the given config.
func NewMatcher(cfg Config, opts ...Option) *Matcher {
	m := &Matcher{
		cfg:    cfg,
		logger: slog.Default(),
		tracer: tracer.Noop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// scored is one precedent's result slot during parallel scoring.
type scored struct {
	factors  Factors
	score    float64
	fallback bool
}

// FindSimilar scores every precedent in the corpus against the query context
// and returns matches at or above the similarity threshold, sorted by score
// descending and truncated to the configured maximum.
//
// Scoring runs in parallel with bounded concurrency. A failure while scoring
// one precedent never aborts the search: that precedent is rescored with the
// simplified fallback and flagged on its match.
func (m *Matcher) FindSimilar(ctx context.Context, qc Context, precedents []arbitration.Precedent) ([]Match, error) {
	start := time.Now()
	ctx, span := m.tracer.Start(ctx, tracer.SpanFindSimilar,
		tracer.Int(tracer.AttrCorpusSize, len(precedents)),
		tracer.String("severity", string(qc.Severity)),
	)

	slots := make([]scored, len(precedents))
	g, gctx := errgroup.WithContext(ctx)
	if m.cfg.MaxConcurrency > 0 {
		g.SetLimit(m.cfg.MaxConcurrency)
	}
	for i := range precedents {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = m.scoreOne(qc, precedents[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.End(err)
		return nil, err
	}

	matches := make([]Match, 0, len(precedents))
	fallbacks := 0
	for i, slot := range slots {
		if slot.fallback {
			fallbacks++
		}
		if slot.score >= m.cfg.SimilarityThreshold {
			matches = append(matches, Match{
				Precedent: precedents[i],
				Score:     slot.score,
				Factors:   slot.factors,
				Fallback:  slot.fallback,
			})
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].Score != matches[b].Score {
			return matches[a].Score > matches[b].Score
		}
		return matches[a].Precedent.ID.String() < matches[b].Precedent.ID.String()
	})
	if m.cfg.MaxResults > 0 && len(matches) > m.cfg.MaxResults {
		matches = matches[:m.cfg.MaxResults]
	}

	m.observe(matches, fallbacks, time.Since(start))
	span.SetAttributes(
		tracer.Int(tracer.AttrMatches, len(matches)),
		tracer.Int(tracer.AttrFallbacks, fallbacks),
	)
	span.End(nil)
	return matches, nil
}

// scoreOne computes one precedent's factors and overall score, recovering a
// panic in the full scorer into the fallback path.
func (m *Matcher) scoreOne(qc Context, p arbitration.Precedent) (out scored) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("precedent scoring failed, using fallback",
				slog.String("precedent_id", p.ID.String()),
				slog.Any("panic", r),
			)
			f := m.fallbackFactors(qc, p)
			out = scored{factors: f, score: m.combine(f), fallback: true}
		}
	}()
	f := m.computeFactors(qc, p)
	return scored{factors: f, score: m.combine(f)}
}

func (m *Matcher) observe(matches []Match, fallbacks int, elapsed time.Duration) {
	if m.metrics == nil {
		return
	}
	m.metrics.Searches.Inc()
	m.metrics.Matches.Observe(float64(len(matches)))
	m.metrics.SearchLatency.Observe(elapsed.Seconds())
	if fallbacks > 0 {
		m.metrics.Fallbacks.Add(float64(fallbacks))
	}
	if len(matches) > 0 {
		m.metrics.TopScore.Observe(matches[0].Score)
	}
}
