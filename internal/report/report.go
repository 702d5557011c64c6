// Package report turns monitor events into human-readable status lines.
package report

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/stigoleg/idle-nudge/internal/monitor"
	"github.com/stigoleg/idle-nudge/internal/util"
)

// Line renders a single status line for e, prefixed with the wall-clock time.
func Line(e monitor.Event) string {
	return fmt.Sprintf("[%s] %s", util.FormatClock(e.At), Message(e))
}

// Message is Line without the timestamp. The TUI uses it for its event list.
func Message(e monitor.Event) string {
	switch e.Kind {
	case monitor.EventStarted:
		return fmt.Sprintf("Monitoring pointer at %s. Checking every %ss, nudging after %ss idle.",
			e.Position, util.FormatSeconds(e.Timing.CheckInterval), util.FormatSeconds(e.Timing.IdleThreshold))
	case monitor.EventMovementDetected:
		return fmt.Sprintf("Mouse movement detected at %s after %s seconds. Timer reset.",
			e.Position, util.FormatSeconds(e.Elapsed))
	case monitor.EventNudgeScheduled:
		return fmt.Sprintf("Mouse inactive for %s seconds. Nudge scheduled in %s seconds.",
			util.FormatSeconds(e.Elapsed), util.FormatSeconds(e.Delay))
	case monitor.EventNudgePerformed:
		return fmt.Sprintf("Mouse inactive for %s seconds... Mouse moved to %s",
			util.FormatSeconds(e.Elapsed), e.Position)
	case monitor.EventStopped:
		return "Monitoring stopped."
	default:
		return fmt.Sprintf("Unknown event %q.", e.Kind)
	}
}

// StoppedLine is the final line printed when the process is interrupted.
func StoppedLine(at time.Time) string {
	return fmt.Sprintf("[%s] Script stopped", util.FormatClock(at))
}

// LineReporter writes one line per event to an io.Writer. It satisfies
// monitor.Sink and is safe for concurrent use.
type LineReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLineReporter returns a reporter writing to w.
func NewLineReporter(w io.Writer) *LineReporter {
	return &LineReporter{w: w}
}

// Report implements monitor.Sink.
func (r *LineReporter) Report(e monitor.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, Line(e))
}

// Println writes a free-form line, serialized with event lines.
func (r *LineReporter) Println(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, s)
}
