// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package progress

// wsSession is the narrow slice of wsgateway.Session that WSReporter
// needs, avoiding an import of internal/wsgateway from this package.
type wsSession interface {
	Send(v any)
}

// progressFrame and errorFrame mirror spec.md §6's wire shapes exactly:
// {type:"progress", stage, current?, total?} and {type:"error", message}.
type progressFrame struct {
	Type    string `json:"type"`
	Stage   string `json:"stage"`
	Current int    `json:"current,omitempty"`
	Total   int    `json:"total,omitempty"`
}

type errorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// WSReporter implements Reporter by pushing progress frames over a
// wsgateway session. It is used by GET /v1/analyze/stream; the CLI and
// synchronous POST /v1/analyze path use ChannelReporter or no reporter
// at all.
type WSReporter struct {
	session wsSession
}

// NewWSReporter returns a Reporter that writes frames to session.
func NewWSReporter(session wsSession) *WSReporter {
	return &WSReporter{session: session}
}

// Report implements Reporter.
func (w *WSReporter) Report(ev Event) {
	w.session.Send(progressFrame{Type: "progress", Stage: ev.Stage, Current: ev.Current, Total: ev.Total})
}

// ReportError pushes the terminal error frame. Callers must send at
// most one of ReportError or a final result frame per stream, per
// spec.md §6 ("followed by exactly one final result or error frame").
func (w *WSReporter) ReportError(message string) {
	w.session.Send(errorFrame{Type: "error", Message: message})
}
