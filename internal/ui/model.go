package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stigoleg/idle-nudge/internal/keepalive"
	"github.com/stigoleg/idle-nudge/internal/monitor"
)

// maxEvents is how many recent event lines the dashboard keeps.
const maxEvents = 8

// Model holds the dashboard state. The monitor itself lives in the Keeper;
// the model only keeps the latest snapshot of it.
type Model struct {
	State        state
	Input        string
	ErrorMessage string
	KeepAlive    *keepalive.Keeper
	Settings     keepalive.Settings
	ShowHelp     bool

	// ConfigErr is set when the idle time entered was rejected.
	ConfigErr error
	// Err is a fatal pointer error that ended the session.
	Err error

	Snapshot monitor.State
	Now      time.Time
	Events   []string

	events chan monitor.Event
	keys   KeyMap
	help   help.Model
}

// New returns a model that runs a session with s. When prompt is set the
// model first asks for the idle time in minutes.
func New(k *keepalive.Keeper, s keepalive.Settings, prompt bool) Model {
	m := Model{
		State:     stateRunning,
		KeepAlive: k,
		Settings:  s,
		events:    make(chan monitor.Event, 64),
		keys:      DefaultKeys(),
		help:      NewHelpModel(),
	}
	if prompt {
		m.State = stateIdleInput
	}
	return m
}

// Sink is the monitor.Sink feeding this model. Events are dropped if the
// dashboard falls far behind.
func (m Model) Sink() monitor.Sink {
	return channelSink(m.events)
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.State == stateRunning {
		return tea.Batch(m.start(), tick())
	}
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := Update(msg, m)
	return newModel, cmd
}

// View implements tea.Model
func (m Model) View() string {
	return View(m)
}

// IdleProgress is the fraction of the idle threshold used up, in [0, 1].
func (m Model) IdleProgress() float64 {
	threshold := m.Snapshot.Timing.IdleThreshold
	if threshold <= 0 || m.Now.IsZero() {
		return 0
	}
	p := float64(m.Snapshot.IdleFor(m.Now)) / float64(threshold)
	if p > 1 {
		return 1
	}
	return p
}

type channelSink chan monitor.Event

func (c channelSink) Report(e monitor.Event) {
	select {
	case c <- e:
	default:
	}
}
