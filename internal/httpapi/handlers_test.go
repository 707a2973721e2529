// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/cibwatch/internal/config"
	"github.com/tomtom215/cibwatch/internal/detect"
	"github.com/tomtom215/cibwatch/internal/pipeline"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Security:      config.SecurityConfig{CORSOrigins: []string{"*"}},
		RateLimit:     config.RateLimitConfig{RequestsPerMinute: 1000, Burst: 100},
		Observability: config.ObservabilityConfig{MetricsEnabled: true},
	}
	return NewRouter(cfg, pipeline.New(nil))
}

func TestHealthzReturnsOK(t *testing.T) {
	router := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAnalyzeRejectsInvalidParams(t *testing.T) {
	router := testRouter(t)
	body := pipeline.Request{
		FilteredData: nil,
		Params:       detect.Params{}, // zero-value: fails min=1 etc.
		TimeWindow:   3600,
	}
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze/", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body: %s", rec.Code, rec.Body.String())
	}

	var resp errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Type != "error" {
		t.Errorf("type = %q, want error", resp.Type)
	}
}

func TestAnalyzeEmptyBatchSucceeds(t *testing.T) {
	router := testRouter(t)
	body := pipeline.Request{
		FilteredData: []detect.Post{},
		Params:       detect.DefaultParams(),
		TimeWindow:   3600,
	}
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze/", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var report pipeline.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report.SuspiciousUsers) != 0 {
		t.Errorf("SuspiciousUsers = %v, want empty", report.SuspiciousUsers)
	}
}

func TestAnalyzeStreamSendsResultFrame(t *testing.T) {
	router := testRouter(t)
	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/analyze/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	req := pipeline.Request{
		FilteredData: []detect.Post{},
		Params:       detect.DefaultParams(),
		TimeWindow:   3600,
	}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resultFrame map[string]any
	for {
		var frame map[string]any
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("ReadJSON failed before a result frame arrived: %v", err)
		}
		if frame["type"] == "error" {
			t.Fatalf("received error frame: %+v", frame)
		}
		if _, isProgress := frame["stage"]; isProgress {
			continue
		}
		resultFrame = frame
		break
	}

	if _, ok := resultFrame["suspiciousUsers"]; !ok {
		t.Errorf("result frame = %+v, missing suspiciousUsers", resultFrame)
	}
}

func TestMetricsEndpointExposesText(t *testing.T) {
	router := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
