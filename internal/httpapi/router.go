// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/cibwatch/internal/config"
	"github.com/tomtom215/cibwatch/internal/pipeline"
)

// NewRouter builds the full chi-routed HTTP surface for cfg, backed by p.
func NewRouter(cfg *config.Config, p *pipeline.Pipeline) http.Handler {
	h := NewHandler(p)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogging)
	r.Use(corsMiddleware(cfg.Security.CORSOrigins))

	r.Route("/v1/analyze", func(r chi.Router) {
		r.Use(rateLimitMiddleware(cfg.RateLimit.RequestsPerMinute))
		r.With(metricsMiddleware("/v1/analyze")).Post("/", h.Analyze)
		r.Get("/stream", h.AnalyzeStream)
	})

	r.With(metricsMiddleware("/healthz")).Get("/healthz", h.Healthz)

	if cfg.Observability.MetricsEnabled {
		r.Get("/metrics", Metrics().ServeHTTP)
	}

	return r
}
