package testutil

import (
	"sync"

	"github.com/stigoleg/idle-nudge/internal/monitor"
)

// Recorder is a monitor.Sink that keeps every event.
type Recorder struct {
	mu     sync.Mutex
	events []monitor.Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Report implements monitor.Sink.
func (r *Recorder) Report(e monitor.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []monitor.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]monitor.Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfKind returns the recorded events of kind k.
func (r *Recorder) OfKind(k monitor.EventKind) []monitor.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []monitor.Event
	for _, e := range r.events {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Kinds returns the kinds of the recorded events in order.
func (r *Recorder) Kinds() []monitor.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]monitor.EventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

// Clear drops all recorded events.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
