package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/question"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// PingFunc checks one upstream dependency.
type PingFunc func(ctx context.Context) error

// NewHTTPServer wraps NewRouter in an http.Server bound to cfg.HTTPAddr.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, questionHandler *question.HTTPHandler, pings ...PingFunc) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: NewRouter(cfg.CORS, logger, prometheus.NewRegistry(), questionHandler, pings...),
	}
}

// NewRouter wires base routes (health, metrics, ping) and the trivia API.
func NewRouter(cors config.CORS, logger zerolog.Logger, registry *prometheus.Registry, questionHandler *question.HTTPHandler, pings ...PingFunc) http.Handler {
	metrics := newMetrics(registry)

	r := chi.NewRouter()
	r.Use(corsHeaders(cors))
	r.Use(requestLogger(logger))
	r.Use(metrics.middleware)
	r.Use(recoverer)
	r.Use(preflight)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondNotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondMethodNotAllowed(w)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Get("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), pings); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	if questionHandler != nil {
		questionHandler.Routes(r)
	}

	return r
}

func pingDependencies(ctx context.Context, pings []PingFunc) error {
	for _, ping := range pings {
		if err := ping(ctx); err != nil {
			return err
		}
	}
	return nil
}
