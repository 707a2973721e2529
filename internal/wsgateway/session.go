// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package wsgateway

import (
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/cibwatch/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
)

var sessionIDCounter atomic.Uint64

// Session wraps one upgraded websocket connection for the lifetime of a
// single /v1/analyze/stream request: it reads exactly one inbound
// request frame, then carries an outbound stream of progress/result/error
// frames until the handler closes it.
type Session struct {
	id   uint64
	conn *websocket.Conn
	send chan any

	// closed is set once Close has run, so a late Send does not panic
	// writing to a closed channel.
	closed atomic.Bool
}

// NewSession wraps conn in a Session with a unique, deterministically
// ordered ID (used only for log correlation; there is no broadcast order
// to preserve here).
func NewSession(conn *websocket.Conn) *Session {
	return &Session{
		id:   sessionIDCounter.Add(1),
		conn: conn,
		send: make(chan any, sendBuffer),
	}
}

// ID returns the session's log-correlation identifier.
func (s *Session) ID() uint64 {
	return s.id
}

// ReadRequest blocks for the first (and only) inbound frame and decodes
// it into v.
func (s *Session) ReadRequest(v any) error {
	s.conn.SetReadLimit(maxMessageSize)
	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return err
	}
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	return s.conn.ReadJSON(v)
}

// Send enqueues a frame for delivery. It never blocks the caller beyond
// the buffer; a full buffer drops the frame rather than stall the
// pipeline that is producing it, matching the throttled-reporter's
// best-effort delivery contract.
func (s *Session) Send(v any) {
	if s.closed.Load() {
		return
	}
	select {
	case s.send <- v:
	default:
		logging.Warn().Uint64("session", s.id).Msg("wsgateway: send buffer full, dropping frame")
	}
}

// Run starts the write pump and blocks until the connection closes or
// ctx-independent I/O fails. Callers typically run it in its own
// goroutine and call Close once the producing side is done.
func (s *Session) Run() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := json.Marshal(frame)
			if err != nil {
				logging.Error().Err(err).Msg("wsgateway: marshal frame failed")
				continue
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close stops the write pump and closes the underlying connection.
// Safe to call more than once.
func (s *Session) Close() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.send)
	}
	_ = s.conn.Close()
}
