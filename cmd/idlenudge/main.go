package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/stigoleg/idle-nudge/internal/app"
	"github.com/stigoleg/idle-nudge/internal/config"
	"github.com/stigoleg/idle-nudge/internal/keepalive"
	"github.com/stigoleg/idle-nudge/internal/pointer"
)

const appVersion = "0.3.0"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.ParseFlags(appVersion)
	if err != nil {
		fmt.Fprintln(os.Stderr, config.FormatError(err))
		fmt.Fprintln(os.Stderr, "Run 'idlenudge --help' for usage.")
		return app.ExitUsage
	}

	cleanup := keepalive.NewCleanupManager(3 * time.Second)

	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "idlenudge")
		if err != nil {
			fmt.Fprintln(os.Stderr, config.FormatError(err))
			return app.ExitFailure
		}
		cleanup.RegisterFunc("log file", f.Close)
	} else {
		log.SetOutput(io.Discard)
	}

	plain := cfg.Plain || !isTerminal(os.Stdout) || !isTerminal(os.Stdin)
	log.Printf("main: version %s mode=%s nudge=%s jitter=%v plain=%v", appVersion, cfg.Mode, cfg.Nudge, cfg.Jitter, plain)

	settings := keepalive.Settings{
		Offsets: cfg.OffsetPolicy(),
		Jitter:  cfg.Jitter,
		Rand:    cfg.Rand(time.Now()),
	}
	if !cfg.NeedsPrompt() {
		settings.Timing, err = cfg.TimingPolicy()
		if err != nil {
			fmt.Println(config.FormatError(err))
			return app.ExitOK
		}
	}

	ptr, err := pointer.NewRobot()
	if err != nil {
		log.Printf("main: %v", err)
		fmt.Fprintln(os.Stderr, config.FormatError(err))
		return app.ExitFailure
	}
	if cfg.Glide {
		ptr = pointer.NewGlide(ptr, cfg.Rand(time.Now()))
	}
	keeper := keepalive.New(ptr, nil)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, getSignalsForPlatform()...)
	defer signal.Stop(sigChan)

	var code int
	if plain {
		code = (&app.Plain{
			Keeper:   keeper,
			Settings: settings,
			Prompt:   cfg.NeedsPrompt(),
			In:       os.Stdin,
			Out:      os.Stdout,
			Signals:  sigChan,
			Cleanup:  cleanup,
		}).Run()
	} else {
		code = (&app.TUI{
			Keeper:   keeper,
			Settings: settings,
			Prompt:   cfg.NeedsPrompt(),
			Out:      os.Stdout,
			Signals:  sigChan,
			Cleanup:  cleanup,
			Options:  []tea.ProgramOption{tea.WithAltScreen()},
		}).Run()
	}

	// The log file is still open when no session ever started.
	if err := cleanup.Execute(); err != nil {
		log.Printf("main: cleanup: %v", err)
	}
	return code
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
