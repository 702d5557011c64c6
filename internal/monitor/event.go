package monitor

import (
	"time"

	"github.com/stigoleg/idle-nudge/internal/pointer"
)

// EventKind classifies what a monitor callback did.
type EventKind int

const (
	EventStarted EventKind = iota
	EventMovementDetected
	EventNudgeScheduled
	EventNudgePerformed
	EventStopped
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventMovementDetected:
		return "movement-detected"
	case EventNudgeScheduled:
		return "nudge-scheduled"
	case EventNudgePerformed:
		return "nudge-performed"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event is emitted to the Sink for every observable state change.
type Event struct {
	Kind EventKind
	At   time.Time

	// Position is the observed position for movement and start events and
	// the nudge target for nudges.
	Position pointer.Position
	// From and Offset are set for nudges.
	From   pointer.Position
	Offset pointer.Offset

	// Elapsed is the idle time that ended with this event.
	Elapsed time.Duration
	// Delay is set for scheduled nudges.
	Delay time.Duration

	Timing Timing
}

// Sink receives monitor events. Report is called outside the monitor's state
// lock but never concurrently with another callback's events.
type Sink interface {
	Report(e Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(e Event)

func (f SinkFunc) Report(e Event) { f(e) }

// MultiSink fans events out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) Report(e Event) {
	for _, s := range m {
		if s != nil {
			s.Report(e)
		}
	}
}

type nopSink struct{}

func (nopSink) Report(Event) {}
