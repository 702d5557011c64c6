package config

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	flag "github.com/spf13/pflag"

	"github.com/stigoleg/idle-nudge/internal/monitor"
	"github.com/stigoleg/idle-nudge/internal/util"
)

// Mode selects how check interval and idle threshold are chosen.
type Mode string

const (
	ModeRandom      Mode = "random"
	ModeBudget      Mode = "budget"
	ModeInteractive Mode = "interactive"
)

// NudgeStyle selects the nudge offset distribution.
type NudgeStyle string

const (
	NudgeSubtle     NudgeStyle = "subtle"
	NudgePronounced NudgeStyle = "pronounced"
)

type Config struct {
	Mode        Mode
	Nudge       NudgeStyle
	Jitter      bool
	Glide       bool
	IdleMinutes int
	MaxInactive time.Duration
	Seed        int64
	Plain       bool
	LogFile     string
	ShowVersion bool
}

// Flag describes a command-line flag. cmd/gen-docs renders completions and
// the man page from Flags, so keep it in sync with newFlagSet.
type Flag struct {
	Long    string
	Short   string
	Arg     string
	Values  []string
	Default string
	Usage   string
}

var Flags = []Flag{
	{Long: "mode", Short: "m", Arg: "MODE", Values: []string{"random", "budget", "interactive"}, Default: "random",
		Usage: "Timing mode: random intervals, a fixed inactivity budget, or an operator-chosen idle time"},
	{Long: "nudge", Short: "n", Arg: "STYLE", Values: []string{"subtle", "pronounced"}, Default: "subtle",
		Usage: "Nudge size: up to 10px, or 50-100px per axis"},
	{Long: "jitter", Short: "j",
		Usage: "Nudge at a random moment inside the remaining idle budget"},
	{Long: "glide", Short: "g",
		Usage: "Glide to the nudge target through a few intermediate points"},
	{Long: "idle", Short: "i", Arg: "MINUTES",
		Usage: "Idle minutes before a nudge in interactive mode (at least 2); prompts when omitted"},
	{Long: "max-inactive", Arg: "DURATION", Default: monitor.DefaultMaxInactive.String(),
		Usage: "Inactivity ceiling for budget mode (minutes or duration, e.g. \"4m50s\")"},
	{Long: "seed", Arg: "N", Default: "0",
		Usage: "Random seed for reproducible runs (0 picks one from the clock)"},
	{Long: "plain",
		Usage: "Print status lines instead of the interactive dashboard"},
	{Long: "log-file", Arg: "PATH",
		Usage: "Write debug logs to PATH"},
	{Long: "version", Short: "v",
		Usage: "Show version information"},
}

func newFlagSet(cfg *Config, maxInactive *string) *flag.FlagSet {
	flags := flag.NewFlagSet("idlenudge", flag.ContinueOnError)
	flags.SortFlags = false

	flags.StringVarP((*string)(&cfg.Mode), "mode", "m", string(ModeRandom), usage("mode"))
	flags.StringVarP((*string)(&cfg.Nudge), "nudge", "n", string(NudgeSubtle), usage("nudge"))
	flags.BoolVarP(&cfg.Jitter, "jitter", "j", false, usage("jitter"))
	flags.BoolVarP(&cfg.Glide, "glide", "g", false, usage("glide"))
	flags.IntVarP(&cfg.IdleMinutes, "idle", "i", 0, usage("idle"))
	flags.StringVar(maxInactive, "max-inactive", monitor.DefaultMaxInactive.String(), usage("max-inactive"))
	flags.Int64Var(&cfg.Seed, "seed", 0, usage("seed"))
	flags.BoolVar(&cfg.Plain, "plain", false, usage("plain"))
	flags.StringVar(&cfg.LogFile, "log-file", "", usage("log-file"))
	flags.BoolVarP(&cfg.ShowVersion, "version", "v", false, usage("version"))
	return flags
}

func usage(long string) string {
	for _, f := range Flags {
		if f.Long == long {
			return f.Usage
		}
	}
	return ""
}

// Parse parses args (without the program name). Invalid values come back as
// *ConfigError; malformed command lines as the pflag error.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}
	var maxInactive string
	flags := newFlagSet(cfg, &maxInactive)
	flags.SetOutput(io.Discard)

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", flags.Arg(0))
	}

	cfg.Mode = Mode(strings.ToLower(string(cfg.Mode)))
	switch cfg.Mode {
	case ModeRandom, ModeBudget, ModeInteractive:
	default:
		return nil, &ConfigError{Input: string(cfg.Mode), Reason: "mode must be one of random, budget or interactive"}
	}

	cfg.Nudge = NudgeStyle(strings.ToLower(string(cfg.Nudge)))
	switch cfg.Nudge {
	case NudgeSubtle, NudgePronounced:
	default:
		return nil, &ConfigError{Input: string(cfg.Nudge), Reason: "nudge must be subtle or pronounced"}
	}

	d, err := util.ParseDuration(maxInactive)
	if err != nil {
		return nil, &ConfigError{Input: maxInactive, Reason: "invalid --max-inactive", Err: err}
	}
	cfg.MaxInactive = d

	if flags.Changed("idle") {
		if cfg.Mode != ModeInteractive {
			return nil, &ConfigError{Input: fmt.Sprint(cfg.IdleMinutes), Reason: "--idle only applies to interactive mode"}
		}
		if _, err := FixedTiming(cfg.IdleMinutes); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-inactive") && cfg.Mode != ModeBudget {
		return nil, &ConfigError{Input: maxInactive, Reason: "--max-inactive only applies to budget mode"}
	}
	if cfg.Mode == ModeBudget {
		if _, err := monitor.NewBudgetTiming(cfg.MaxInactive); err != nil {
			return nil, &ConfigError{Input: maxInactive, Reason: "invalid --max-inactive", Err: err}
		}
	}

	return cfg, nil
}

// ParseFlags parses os.Args, handling --help, --version and invalid input the
// way the command line expects: it prints and exits.
func ParseFlags(version string) (*Config, error) {
	cfg, err := Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Print(Usage())
			os.Exit(0)
		}
		var cerr *ConfigError
		if errors.As(err, &cerr) {
			fmt.Println(FormatError(err))
			os.Exit(0)
		}
		return nil, err
	}

	if cfg.ShowVersion {
		fmt.Printf("idle-nudge version: %s\n", version)
		os.Exit(0)
	}
	return cfg, nil
}

// Usage renders the help text.
func Usage() string {
	cfg := &Config{}
	var maxInactive string
	flags := newFlagSet(cfg, &maxInactive)

	var b strings.Builder
	b.WriteString(titleStyle.Render("idle-nudge"))
	b.WriteString("\n\nKeeps the session awake by nudging the mouse after it has been idle.\n\n")
	b.WriteString("Usage:\n  idlenudge [flags]\n\nFlags:\n")
	b.WriteString(flags.FlagUsages())
	return b.String()
}

// NeedsPrompt reports whether the idle time still has to be asked for.
func (c *Config) NeedsPrompt() bool {
	return c.Mode == ModeInteractive && c.IdleMinutes == 0
}

// TimingPolicy builds the policy for the configured mode. Interactive mode
// needs IdleMinutes to be set.
func (c *Config) TimingPolicy() (monitor.TimingPolicy, error) {
	switch c.Mode {
	case ModeBudget:
		ceiling := c.MaxInactive
		if ceiling == 0 {
			ceiling = monitor.DefaultMaxInactive
		}
		b, err := monitor.NewBudgetTiming(ceiling)
		if err != nil {
			return nil, &ConfigError{Input: ceiling.String(), Reason: "invalid --max-inactive", Err: err}
		}
		return b, nil
	case ModeInteractive:
		return FixedTiming(c.IdleMinutes)
	default:
		return monitor.RandomTiming{}, nil
	}
}

// OffsetPolicy builds the nudge offset distribution.
func (c *Config) OffsetPolicy() monitor.OffsetPolicy {
	if c.Nudge == NudgePronounced {
		return monitor.PronouncedOffsets{}
	}
	return monitor.SubtleOffsets{}
}

// Rand returns a random source seeded from Seed, or from now when Seed is 0.
func (c *Config) Rand(now time.Time) *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4B3BFF")).
			Padding(0, 1)

	errorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF4040")).
			Padding(1, 2)
)

// FormatError renders err for the terminal. Errors carrying format help
// (a blank line followed by details) get a bordered box.
func FormatError(err error) string {
	msg := err.Error()
	parts := strings.SplitN(msg, "\n\n", 2)
	if len(parts) == 2 {
		header := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF4040")).
			Render(parts[0])

		details := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")).
			Render(parts[1])

		return errorBoxStyle.Render(fmt.Sprintf("%s\n\n%s", header, details))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4040")).Render(msg)
}
