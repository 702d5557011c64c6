package monitor

import (
	"time"

	"github.com/stigoleg/idle-nudge/internal/pointer"
)

// Phase is the monitor's position in its two-state machine.
type Phase int

const (
	PhaseIdleTiming Phase = iota
	PhaseNudging
)

func (p Phase) String() string {
	switch p {
	case PhaseIdleTiming:
		return "IdleTiming"
	case PhaseNudging:
		return "Nudging"
	default:
		return "Unknown"
	}
}

// State is a snapshot of the monitor's bookkeeping.
type State struct {
	Phase         Phase
	LastPosition  pointer.Position
	LastActivity  time.Time
	Timing        Timing
	PendingOffset pointer.Offset

	// NextCheck is when the next tick is due; NudgeDue is when a jittered
	// nudge is due, zero if none is pending.
	NextCheck time.Time
	NudgeDue  time.Time

	Nudges   int
	Activity int
}

// IdleFor returns how long the pointer has been idle at now.
func (s State) IdleFor(now time.Time) time.Duration {
	if s.LastActivity.IsZero() || now.Before(s.LastActivity) {
		return 0
	}
	return now.Sub(s.LastActivity)
}

// Remaining returns the idle budget left at now, never negative.
func (s State) Remaining(now time.Time) time.Duration {
	left := s.Timing.IdleThreshold - s.IdleFor(now)
	if left < 0 {
		return 0
	}
	return left
}
