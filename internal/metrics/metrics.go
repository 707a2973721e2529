// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunDuration observes the wall-clock time of a full Pipeline.Run.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_run_duration_seconds",
			Help:    "Duration of a full detection pipeline run",
			Buckets: prometheus.DefBuckets,
		},
	)

	// StageDuration observes the duration of a single indicator detector
	// stage, labeled by detector name.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Duration of a single pipeline stage",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// PostsProcessed counts posts successfully indexed into a Dataset.
	PostsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_posts_processed_total",
			Help: "Total posts successfully indexed into a dataset",
		},
	)

	// PostsSkipped counts posts dropped during indexing (InvalidPost).
	PostsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_posts_skipped_total",
			Help: "Total posts dropped during indexing for missing author_id/created_at",
		},
	)

	// RunsTotal counts completed runs, labeled by outcome.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	// EmbeddingCacheHits counts embedding requests served from cache.
	EmbeddingCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_cache_hits_total",
			Help: "Total embedding requests served from the in-memory cache",
		},
	)

	// EmbeddingCacheMisses counts embedding requests that required a
	// transport call.
	EmbeddingCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_cache_misses_total",
			Help: "Total embedding requests not served from cache",
		},
	)

	// EmbeddingBatches counts transport calls issued.
	EmbeddingBatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_batches_total",
			Help: "Total embedding transport batch calls issued",
		},
	)

	// EmbeddingBatchDuration observes the latency of a single transport call.
	EmbeddingBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "embedding_batch_duration_seconds",
			Help:    "Duration of a single embedding transport batch call",
			Buckets: prometheus.DefBuckets,
		},
	)

	// WSActiveSessions gauges the number of open /v1/analyze/stream
	// websocket sessions.
	WSActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_active_sessions",
			Help: "Current number of open analyze-stream websocket sessions",
		},
	)

	// HTTPRequestsTotal counts HTTP requests served by the API.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordRun observes a completed pipeline run's duration and outcome.
func RecordRun(d time.Duration, outcome string) {
	RunDuration.Observe(d.Seconds())
	RunsTotal.WithLabelValues(outcome).Inc()
}

// RecordStage observes a single detector stage's duration.
func RecordStage(stage string, d time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordPosts records how many posts a run processed and skipped.
func RecordPosts(processed, skipped int) {
	PostsProcessed.Add(float64(processed))
	PostsSkipped.Add(float64(skipped))
}

// RecordHTTPRequest observes a completed HTTP request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	statusLabel := statusClass(status)
	HTTPRequestsTotal.WithLabelValues(method, route, statusLabel).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
