package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stigoleg/idle-nudge/internal/config"
	"github.com/stigoleg/idle-nudge/internal/keepalive"
	"github.com/stigoleg/idle-nudge/internal/report"
	"github.com/stigoleg/idle-nudge/internal/ui"
)

// TUI runs a session behind the bubbletea dashboard.
type TUI struct {
	Keeper   *keepalive.Keeper
	Settings keepalive.Settings
	Prompt   bool
	Out      io.Writer
	Signals  <-chan os.Signal
	Cleanup  *keepalive.CleanupManager
	Now      func() time.Time
	// Options are passed to tea.NewProgram after the defaults.
	Options []tea.ProgramOption
}

// Run blocks until the user quits, a signal arrives or the pointer fails,
// and returns the process exit code.
func (t *TUI) Run() int {
	if t.Now == nil {
		t.Now = time.Now
	}
	if t.Cleanup == nil {
		t.Cleanup = keepalive.NewCleanupManager(0)
	}
	t.Cleanup.RegisterKeeper(t.Keeper)

	opts := append([]tea.ProgramOption{
		tea.WithoutSignalHandler(),
		tea.WithOutput(t.Out),
	}, t.Options...)
	p := tea.NewProgram(ui.New(t.Keeper, t.Settings, t.Prompt), opts...)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case sig := <-t.Signals:
			log.Printf("app: received signal %v", sig)
			p.Quit()
		case <-done:
		}
	}()

	final, err := p.Run()
	if cerr := t.Cleanup.Execute(); cerr != nil {
		log.Printf("app: cleanup: %v", cerr)
	}
	if err != nil {
		log.Printf("app: error running program: %v", err)
		return ExitFailure
	}

	m, _ := final.(ui.Model)
	switch {
	case m.ConfigErr != nil:
		fmt.Fprintln(t.Out, config.FormatError(m.ConfigErr))
		return ExitOK
	case m.Err != nil:
		fmt.Fprintln(t.Out, config.FormatError(m.Err))
		return ExitFailure
	}
	fmt.Fprintln(t.Out, report.StoppedLine(t.Now()))
	return ExitOK
}
