// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package wsgateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

func TestUpgradeAndCloseAndReleaseTrackActiveSessions(t *testing.T) {
	before := ActiveSessions()

	upgraded := make(chan *Session, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := Upgrade(w, r)
		if err != nil {
			t.Errorf("Upgrade failed: %v", err)
			return
		}
		upgraded <- session
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	session := <-upgraded
	if ActiveSessions() != before+1 {
		t.Fatalf("ActiveSessions = %d, want %d", ActiveSessions(), before+1)
	}

	CloseAndRelease(session)
	if ActiveSessions() != before {
		t.Fatalf("ActiveSessions after release = %d, want %d", ActiveSessions(), before)
	}
}
