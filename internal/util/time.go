package util

import (
	"fmt"
	"time"
)

// ClockLayout is the wall-clock stamp used on status lines.
const ClockLayout = "15:04:05.000"

// FormatClock renders t as a local wall-clock stamp with milliseconds.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// FormatSeconds renders d as seconds with three decimals, e.g. "242.517".
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

// FormatCountdown renders d as mm:ss (or h:mm:ss past an hour). Negative
// durations render as zero.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
