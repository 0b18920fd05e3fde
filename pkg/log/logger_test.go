package log

import (
	"sync"
	"testing"
	"time"
)

type countingLogger struct {
	mu     sync.Mutex
	events []Event
}

func (c *countingLogger) Log(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var l NoopLogger
	l.Log(Event{})
}

func TestMultiLoggerCallsAll(t *testing.T) {
	a, b := &countingLogger{}, &countingLogger{}
	m := NewMultiLogger(a, nil, b)

	m.Log(Event{ConnectionID: "c1"})

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("expected each logger to receive 1 event, got %d and %d", len(a.events), len(b.events))
	}
	NewMultiLogger().Log(Event{})
}

func TestRecorderLimit(t *testing.T) {
	r := NewRecorder(2)
	for _, id := range []string{"a", "b", "c"} {
		r.Log(Event{ConnectionID: id})
	}

	events := r.Events(Filter{})
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ConnectionID != "b" || events[1].ConnectionID != "c" {
		t.Errorf("expected most recent events, got %q and %q", events[0].ConnectionID, events[1].ConnectionID)
	}

	state := CategoryState
	r.Log(Event{ConnectionID: "d", Category: CategoryState})
	if got := r.Events(Filter{Category: &state}); len(got) != 1 || got[0].ConnectionID != "d" {
		t.Errorf("filtered events: %+v", got)
	}
}

func TestEmit(t *testing.T) {
	Emit(nil, Event{}) // no panic

	c := &countingLogger{}
	Emit(c, Event{})
	if c.events[0].Timestamp.IsZero() {
		t.Error("Emit should stamp events without a timestamp")
	}

	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	Emit(c, Event{Timestamp: fixed})
	if !c.events[1].Timestamp.Equal(fixed) {
		t.Error("Emit must keep an existing timestamp")
	}
}
