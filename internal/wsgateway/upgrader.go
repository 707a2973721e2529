// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package wsgateway

import (
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/cibwatch/internal/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The analyze stream is same-origin-agnostic: callers are trusted
	// API clients behind the cors middleware, not browser pages relying
	// on ambient cookie auth, so origin checking adds no real boundary.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// activeSessions counts in-flight streaming sessions. Mirrored into
// metrics.WSActiveSessions on every change.
var activeSessions atomic.Int64

// ActiveSessions returns the current count of open streaming sessions.
func ActiveSessions() int64 {
	return activeSessions.Load()
}

// Upgrade promotes an HTTP request to a websocket connection and wraps
// it in a Session. Callers must pass the returned Session to
// CloseAndRelease when done, which decrements the active-session count.
func Upgrade(w http.ResponseWriter, r *http.Request) (*Session, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	activeSessions.Add(1)
	metrics.WSActiveSessions.Inc()
	s := NewSession(conn)
	return s, nil
}

// CloseAndRelease closes the session and decrements the active-session
// count. Use this instead of Session.Close directly once a session was
// created via Upgrade.
func CloseAndRelease(s *Session) {
	s.Close()
	activeSessions.Add(-1)
	metrics.WSActiveSessions.Dec()
}
