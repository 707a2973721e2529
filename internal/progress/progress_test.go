// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package progress

import (
	"testing"
	"time"
)

type recordingReporter struct {
	events []Event
}

func (r *recordingReporter) Report(ev Event) {
	r.events = append(r.events, ev)
}

func TestStageStartIsForced(t *testing.T) {
	rec := &recordingReporter{}
	th := NewThrottled(rec)
	th.Stage("synchronized_posting", 10)
	if len(rec.events) != 1 {
		t.Fatalf("got %d events, want 1", len(rec.events))
	}
}

func TestRapidTicksAreThrottled(t *testing.T) {
	rec := &recordingReporter{}
	th := NewThrottled(rec)
	th.Stage("s", 100)

	for i := 1; i <= 10; i++ {
		th.Tick("s", i, 100)
	}

	if len(rec.events) != 1 {
		t.Errorf("got %d events, want 1 (stage start only, ticks throttled)", len(rec.events))
	}
}

func TestFinalTickAlwaysForced(t *testing.T) {
	rec := &recordingReporter{}
	th := NewThrottled(rec)
	th.Stage("s", 3)
	th.Tick("s", 1, 3)
	th.Tick("s", 2, 3)
	th.Tick("s", 3, 3)

	if len(rec.events) != 2 {
		t.Fatalf("got %d events, want 2 (start + final)", len(rec.events))
	}
	last := rec.events[len(rec.events)-1]
	if last.Current != 3 || last.Total != 3 {
		t.Errorf("final event = %+v, want current==total==3", last)
	}
}

func TestTicksAfterThrottleWindowAreSent(t *testing.T) {
	rec := &recordingReporter{}
	th := NewThrottled(rec)
	th.Stage("s", 5)
	time.Sleep(150 * time.Millisecond)
	th.Tick("s", 1, 5)
	if len(rec.events) != 2 {
		t.Errorf("got %d events, want 2", len(rec.events))
	}
}

func TestChannelReporterDeliversEvents(t *testing.T) {
	cr := NewChannelReporter(4)
	cr.Report(Event{Stage: "x", Current: 1, Total: 1})
	cr.Close()

	ev, ok := <-cr.Events
	if !ok {
		t.Fatal("expected event on channel")
	}
	if ev.Stage != "x" {
		t.Errorf("Stage = %q, want x", ev.Stage)
	}
}
