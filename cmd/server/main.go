package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	appealhandler "concord/internal/appeal/handler"
	appealstore "concord/internal/appeal/store"
	"concord/internal/platform/config"
	"concord/internal/platform/logger"
	precedenthandler "concord/internal/precedent/handler"
	httptransport "concord/internal/transport/http"
	verdicthandler "concord/internal/verdict/handler"
	waiverhandler "concord/internal/waiver/handler"
	waiverstore "concord/internal/waiver/store"
	"concord/internal/waiver/workers/cleanup"
	"concord/pkg/platform/audit"

	"concord/internal/appeal"
	appealmetrics "concord/internal/appeal/metrics"
	"concord/internal/precedent"
	precedentmetrics "concord/internal/precedent/metrics"
	"concord/internal/precedent/tracer"
	"concord/internal/verdict"
	verdictmetrics "concord/internal/verdict/metrics"
	"concord/internal/waiver"
	waivermetrics "concord/internal/waiver/metrics"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Arbitration logic lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing concord",
		"addr", cfg.Addr,
		"cleanup_interval", cfg.CleanupInterval,
	)

	auditor := audit.NewSlogPublisher(log)
	waiverMetrics := waivermetrics.Default()

	verdictSvc := verdict.New(cfg.Verdict,
		verdict.WithLogger(log),
		verdict.WithMetrics(verdictmetrics.New()),
		verdict.WithAuditor(auditor),
	)
	matcher := precedent.NewMatcher(cfg.Precedent,
		precedent.WithLogger(log),
		precedent.WithMetrics(precedentmetrics.Default()),
		precedent.WithTracer(tracer.NewOTel()),
	)
	waiverSvc := waiver.NewService(cfg.Waiver, waiverstore.New(),
		waiver.WithLogger(log),
		waiver.WithMetrics(waiverMetrics),
		waiver.WithAuditor(auditor),
	)
	appealSvc := appeal.NewService(cfg.Appeal, appealstore.New(),
		appeal.WithLogger(log),
		appeal.WithMetrics(appealmetrics.Default()),
		appeal.WithAuditor(auditor),
	)

	router := httptransport.NewRouter(
		httptransport.Config{
			JWTSigningKey:  cfg.JWTSigningKey,
			RequestTimeout: cfg.RequestTimeout,
		},
		log,
		verdicthandler.New(verdictSvc, log),
		precedenthandler.New(matcher, log),
		waiverhandler.New(waiverSvc, log),
		appealhandler.New(appealSvc, log),
	)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	sweeper := cleanup.New(waiverSvc,
		cleanup.WithLogger(log),
		cleanup.WithInterval(cfg.CleanupInterval),
		cleanup.WithMetrics(waiverMetrics),
	)
	go func() {
		if err := sweeper.Start(workerCtx); err != nil && err != context.Canceled {
			log.Error("waiver cleanup worker stopped", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
