// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cibwatch/internal/logging"
	"github.com/tomtom215/cibwatch/internal/pipeline"
	"github.com/tomtom215/cibwatch/internal/progress"
	"github.com/tomtom215/cibwatch/internal/wsgateway"
)

// Handler holds the dependencies shared by every route.
type Handler struct {
	Pipeline *pipeline.Pipeline
}

// NewHandler returns a Handler backed by p.
func NewHandler(p *pipeline.Pipeline) *Handler {
	return &Handler{Pipeline: p}
}

// Analyze implements POST /v1/analyze: a synchronous run of the engine
// against a spec.md §6 input message.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validate.Struct(req.Params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid params: "+err.Error())
		return
	}

	report, _, err := h.Pipeline.Run(r.Context(), req, nil)
	if err != nil {
		logging.CtxErr(r.Context(), err).Msg("analyze run failed")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// AnalyzeStream implements GET /v1/analyze/stream: the same run, but
// over a websocket that first receives the input message, then carries
// a stream of progress frames terminated by exactly one result or error
// frame.
func (h *Handler) AnalyzeStream(w http.ResponseWriter, r *http.Request) {
	session, err := wsgateway.Upgrade(w, r)
	if err != nil {
		logging.CtxErr(r.Context(), err).Msg("websocket upgrade failed")
		return
	}
	defer wsgateway.CloseAndRelease(session)

	go session.Run()

	wsReporter := progress.NewWSReporter(session)

	var req pipeline.Request
	if err := session.ReadRequest(&req); err != nil {
		logging.CtxErr(r.Context(), err).Msg("failed to read analyze stream request")
		return
	}
	if err := validate.Struct(req.Params); err != nil {
		wsReporter.ReportError("invalid params: " + err.Error())
		return
	}

	reporter := progress.NewThrottled(wsReporter)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	report, _, err := h.Pipeline.Run(ctx, req, reporter)
	if err != nil {
		wsReporter.ReportError(err.Error())
		return
	}
	session.Send(report)
}

// Healthz implements GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Metrics implements GET /metrics using the default Prometheus registry.
func Metrics() http.Handler {
	return promhttp.Handler()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("httpapi: failed to encode response body")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, newErrorBody(message))
}
