// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

// Package progress implements the engine's progress-event contract
// (spec §4.5): a 120ms-throttled stream of {stage, current, total}
// events, with forced events for stage start, stage completion, and the
// final current == total tick of every stage.
package progress

import (
	"time"

	"golang.org/x/time/rate"
)

// throttleInterval is the minimum spacing between unforced events.
const throttleInterval = 120 * time.Millisecond

// Event is a single progress tick.
type Event struct {
	Stage   string `json:"stage"`
	Current int    `json:"current,omitempty"`
	Total   int    `json:"total,omitempty"`
}

// Reporter receives progress events from the pipeline. Implementations
// must be safe for concurrent use; the pipeline calls Report from a
// single goroutine per run, but a server may have many runs in flight.
type Reporter interface {
	Report(ev Event)
}

// Throttled wraps a Reporter and applies the spec's rate limit: events
// less than 120ms after the previous one are suppressed unless forced.
// Not safe for concurrent use by multiple goroutines on the same stage;
// the pipeline drives one Throttled per run sequentially.
type Throttled struct {
	next    Reporter
	limiter *rate.Limiter
}

// NewThrottled wraps next in the spec's 120ms throttle, using a
// single-token rate.Limiter as the throttle gate.
func NewThrottled(next Reporter) *Throttled {
	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(throttleInterval), 1),
	}
}

// Stage reports that a new stage of the given name and total has begun.
// Stage-start events are always forced through.
func (t *Throttled) Stage(stage string, total int) {
	t.emit(Event{Stage: stage, Current: 0, Total: total}, true)
}

// Tick reports progress within the current stage. It is forced through
// only when current == total (stage completion); otherwise it is
// throttled to at most one emission per 120ms.
func (t *Throttled) Tick(stage string, current, total int) {
	t.emit(Event{Stage: stage, Current: current, Total: total}, current == total)
}

func (t *Throttled) emit(ev Event, forced bool) {
	allowed := t.limiter.Allow()
	if !forced && !allowed {
		return
	}
	t.next.Report(ev)
}

// ChannelReporter publishes events onto a buffered channel. Used by the
// analyze CLI subcommand and by tests that want to observe the full
// event sequence without throttling races against wall-clock time.
type ChannelReporter struct {
	Events chan Event
}

// NewChannelReporter returns a ChannelReporter with the given buffer size.
func NewChannelReporter(buffer int) *ChannelReporter {
	return &ChannelReporter{Events: make(chan Event, buffer)}
}

// Report implements Reporter.
func (c *ChannelReporter) Report(ev Event) {
	c.Events <- ev
}

// Close closes the underlying channel. Callers must ensure no further
// Report calls are made afterward.
func (c *ChannelReporter) Close() {
	close(c.Events)
}
