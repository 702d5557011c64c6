//go:build windows

package integration

import "os"

// Process.Signal cannot deliver SIGINT or SIGTERM on Windows.
func terminationSignals() []os.Signal {
	return nil
}
