// Package cleanup runs the periodic expired-waiver sweep.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"concord/internal/waiver/metrics"
)

// Result contains the outcome of one sweep.
type Result struct {
	Processed int
	Duration  time.Duration
}

// Sweeper is the waiver service surface the worker drives.
type Sweeper interface {
	CleanupExpiredWaivers(ctx context.Context) (int, error)
}

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithInterval(interval time.Duration) Option {
	return func(w *Worker) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

// Worker sweeps the waiver registry on a fixed interval.
type Worker struct {
	sweeper  Sweeper
	logger   *slog.Logger
	interval time.Duration
	metrics  *metrics.Metrics
}

func New(sweeper Sweeper, opts ...Option) *Worker {
	w := &Worker{
		sweeper:  sweeper,
		logger:   slog.Default(),
		interval: 15 * time.Minute,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start runs sweeps until the context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			startTime := time.Now()
			res, err := w.RunOnce(ctx)
			duration := time.Since(startTime)

			if err != nil {
				w.logger.Error("waiver_cleanup_failed",
					"error", err,
					"duration_ms", duration.Milliseconds(),
				)
				if w.metrics != nil {
					w.metrics.CleanupRuns.WithLabelValues("error").Inc()
					w.metrics.CleanupDuration.Observe(duration.Seconds())
				}
				continue
			}

			res.Duration = duration
			w.logger.Info("waiver_cleanup_completed",
				"waivers_processed", res.Processed,
				"duration_ms", duration.Milliseconds(),
			)

			if w.metrics != nil {
				w.metrics.CleanupProcessed.Add(float64(res.Processed))
				w.metrics.CleanupRuns.WithLabelValues("success").Inc()
				w.metrics.CleanupDuration.Observe(duration.Seconds())
			}

		case <-ctx.Done():
			w.logger.Info("waiver cleanup worker stopping", "reason", ctx.Err())
			return ctx.Err()
		}
	}
}

// RunOnce executes a single sweep. Logging is handled by the caller (Start).
func (w *Worker) RunOnce(ctx context.Context) (*Result, error) {
	processed, err := w.sweeper.CleanupExpiredWaivers(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Processed: processed}, nil
}
