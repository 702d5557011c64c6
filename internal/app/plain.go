// Package app wires a Keeper to a front end: status lines on a plain
// terminal or the bubbletea dashboard.
package app

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/stigoleg/idle-nudge/internal/config"
	"github.com/stigoleg/idle-nudge/internal/keepalive"
	"github.com/stigoleg/idle-nudge/internal/monitor"
	"github.com/stigoleg/idle-nudge/internal/report"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Plain runs a session that prints one status line per event.
type Plain struct {
	Keeper   *keepalive.Keeper
	Settings keepalive.Settings
	// Prompt asks for the idle time on In before starting.
	Prompt  bool
	In      io.Reader
	Out     io.Writer
	Signals <-chan os.Signal
	Cleanup *keepalive.CleanupManager
	Now     func() time.Time
}

// Run blocks until a signal arrives or the pointer fails and returns the
// process exit code.
func (p *Plain) Run() int {
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.Cleanup == nil {
		p.Cleanup = keepalive.NewCleanupManager(0)
	}
	out := report.NewLineReporter(p.Out)

	if p.Prompt {
		timing, code, ok := p.prompt(out)
		if !ok {
			return code
		}
		p.Settings.Timing = timing
	}

	if err := p.Keeper.Start(p.Settings, out); err != nil {
		log.Printf("app: start failed: %v", err)
		out.Println(config.FormatError(err))
		return ExitFailure
	}
	p.Cleanup.RegisterKeeper(p.Keeper)
	errc := p.Keeper.Errors()

	select {
	case sig := <-p.Signals:
		log.Printf("app: received signal %v", sig)
		if err := p.Cleanup.Execute(); err != nil {
			log.Printf("app: cleanup: %v", err)
		}
		out.Println(report.StoppedLine(p.Now()))
		return ExitOK

	case err := <-errc:
		_ = p.Cleanup.Execute()
		out.Println(config.FormatError(err))
		return ExitFailure
	}
}

// prompt reads the idle minutes. ok is false when the program should exit
// with code instead of starting.
func (p *Plain) prompt(out *report.LineReporter) (timing monitor.FixedTiming, code int, ok bool) {
	fmt.Fprint(p.Out, "Enter idle time in minutes (at least 2): ")

	lines := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(p.In).ReadString('\n')
		lines <- line
	}()

	select {
	case <-p.Signals:
		fmt.Fprintln(p.Out)
		out.Println(report.StoppedLine(p.Now()))
		return timing, ExitOK, false

	case line := <-lines:
		t, err := config.ParseIdleMinutes(line)
		if err != nil {
			log.Printf("app: rejected idle time: %v", err)
			out.Println(config.FormatError(err))
			return timing, ExitOK, false
		}
		return t, ExitOK, true
	}
}
