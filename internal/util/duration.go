package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration accepts either a plain number of minutes ("5") or a Go
// duration string ("4m50s").
func ParseDuration(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if minutes, err := strconv.Atoi(input); err == nil {
		return time.Duration(minutes) * time.Minute, nil
	}

	duration, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %q\n\nValid formats:\n"+
			"• Minutes: a whole number (e.g., '5')\n"+
			"• Duration: Go duration syntax (e.g., '4m50s', '90s')", input)
	}
	return duration, nil
}
