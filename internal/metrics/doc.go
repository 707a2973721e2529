// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

/*
Package metrics provides Prometheus instrumentation for the detection
pipeline, the embedding service, and the HTTP API.

# Metrics Endpoint

Metrics are exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Pipeline:
  - pipeline_run_duration_seconds: full Pipeline.Run duration (histogram)
  - pipeline_stage_duration_seconds: per-detector-stage duration (histogram)
    Labels: stage
  - pipeline_posts_processed_total: posts indexed into a Dataset (counter)
  - pipeline_posts_skipped_total: posts dropped as InvalidPost (counter)
  - pipeline_runs_total: completed runs, by outcome (counter)
    Labels: outcome (ok, error)

Embedding service:
  - embedding_cache_hits_total / embedding_cache_misses_total (counters)
  - embedding_batches_total: transport calls issued (counter)
  - embedding_batch_duration_seconds: transport call latency (histogram)

HTTP API:
  - http_requests_total: labeled by method, route, status (counter)
  - http_request_duration_seconds: labeled by method, route (histogram)

# Usage

	metrics.RecordRun(duration, outcome)
	metrics.RecordStage(stage, duration)
	metrics.RecordHTTPRequest(method, route, status, duration)
*/
package metrics
