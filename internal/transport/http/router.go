package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"concord/internal/platform/health"
	"concord/internal/platform/middleware"
)

// Registrar mounts a handler's routes on a router. Each domain handler
// implements it; the router stays ignorant of endpoint shapes.
type Registrar interface {
	Register(chi.Router)
}

// Config carries the transport-level knobs the router needs.
type Config struct {
	JWTSigningKey  string
	RequestTimeout time.Duration
}

// NewRouter wires all public endpoints with middleware.
// Arbitration routes require a bearer token; health and metrics do not.
func NewRouter(cfg Config, logger *slog.Logger, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.ClientInfo)

	health.New().Register(r)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireActor(cfg.JWTSigningKey, logger))
		for _, h := range handlers {
			h.Register(r)
		}
	})

	return r
}
