// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/cibwatch/internal/logging"
	"github.com/tomtom215/cibwatch/internal/metrics"
)

// corsMiddleware builds a go-chi/cors handler from the configured
// allowed origins.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})
}

// rateLimitMiddleware applies an IP-keyed request budget using
// go-chi/httprate, mirroring the teacher's ChiMiddleware.RateLimit.
func rateLimitMiddleware(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	)
}

// metricsMiddleware wraps every request with a status-capturing response
// writer and records it into internal/metrics, grounded on the
// teacher's internal/middleware.PrometheusMetrics response-writer wrap.
func metricsMiddleware(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			metrics.RecordHTTPRequest(r.Method, route, wrapped.status, time.Since(start))
		})
	}
}

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// requestLogging attaches a correlation ID to the request context and
// logs completion at debug level, mirroring the teacher's
// RequestIDWithLogging middleware without Chi's X-Request-ID header
// plumbing (this API has no authenticated caller identity to tie it to).
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.ContextWithNewCorrelationID(r.Context())
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		logging.CtxDebug(ctx).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}
