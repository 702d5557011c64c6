package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stigoleg/idle-nudge/internal/monitor"
)

// MaxIdleMinutes caps the interactive idle time at one day.
const MaxIdleMinutes = 24 * 60

// ConfigError is a user-facing configuration problem. The monitor is never
// started when one occurs.
type ConfigError struct {
	Input  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := e.Reason
	if e.Input != "" {
		msg = fmt.Sprintf("%s: %q", e.Reason, e.Input)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ParseIdleMinutes validates operator input for interactive mode. One
// minute of the idle time is reserved for the poll interval, so "5" yields a
// four minute threshold checked every minute.
func ParseIdleMinutes(input string) (monitor.FixedTiming, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return monitor.FixedTiming{}, &ConfigError{Reason: "no idle time entered"}
	}
	minutes, err := strconv.Atoi(input)
	if err != nil {
		return monitor.FixedTiming{}, &ConfigError{Input: input, Reason: "idle time must be a whole number of minutes"}
	}
	return FixedTiming(minutes)
}

// FixedTiming checks the range of minutes and builds the interactive policy.
func FixedTiming(minutes int) (monitor.FixedTiming, error) {
	if minutes < monitor.MinIdleMinutes || minutes > MaxIdleMinutes {
		return monitor.FixedTiming{}, &ConfigError{
			Input:  strconv.Itoa(minutes),
			Reason: fmt.Sprintf("idle time must be between %d and %d minutes", monitor.MinIdleMinutes, MaxIdleMinutes),
		}
	}
	return monitor.FixedTimingFromMinutes(minutes), nil
}
