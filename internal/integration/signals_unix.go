//go:build !windows

package integration

import (
	"os"
	"syscall"
)

func terminationSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
		syscall.SIGQUIT,
	}
}
