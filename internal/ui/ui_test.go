package ui

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stigoleg/idle-nudge/internal/clock"
	"github.com/stigoleg/idle-nudge/internal/config"
	"github.com/stigoleg/idle-nudge/internal/keepalive"
	"github.com/stigoleg/idle-nudge/internal/monitor"
	"github.com/stigoleg/idle-nudge/internal/pointer"
	"github.com/stigoleg/idle-nudge/internal/testutil"
)

var start = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, prompt bool) (Model, *clock.Fake, *testutil.FakePointer) {
	t.Helper()
	clk := clock.NewFake(start)
	ptr := testutil.NewFakePointer(pointer.Position{X: 40, Y: 30})
	k := keepalive.New(ptr, clk)
	t.Cleanup(func() { _ = k.Stop() })

	s := keepalive.Settings{
		Timing:  monitor.FixedTimingFromMinutes(5),
		Offsets: monitor.SubtleOffsets{},
		Rand:    rand.New(rand.NewSource(42)),
	}
	return New(k, s, prompt), clk, ptr
}

// run executes cmd and feeds its message back, like the tea runtime would.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	got, _ := Update(cmd(), m)
	return got
}

func TestNewModel(t *testing.T) {
	m, _, _ := newTestModel(t, true)
	if m.State != stateIdleInput {
		t.Errorf("expected prompt model to start in %v, got %v", stateIdleInput, m.State)
	}
	if m.Init() != nil {
		t.Error("expected no command while waiting for input")
	}

	m, _, _ = newTestModel(t, false)
	if m.State != stateRunning {
		t.Errorf("expected model to start in %v, got %v", stateRunning, m.State)
	}
	if m.Init() == nil {
		t.Error("expected start command")
	}
}

func TestIdleInput(t *testing.T) {
	tests := []struct {
		name      string
		keys      []tea.KeyMsg
		wantInput string
	}{
		{
			name:      "digits are accepted",
			keys:      []tea.KeyMsg{runes("1"), runes("5")},
			wantInput: "15",
		},
		{
			name:      "letters are ignored",
			keys:      []tea.KeyMsg{runes("a"), runes("3")},
			wantInput: "3",
		},
		{
			name:      "input is limited to four digits",
			keys:      []tea.KeyMsg{runes("1"), runes("2"), runes("3"), runes("4"), runes("5")},
			wantInput: "1234",
		},
		{
			name:      "backspace deletes",
			keys:      []tea.KeyMsg{runes("1"), runes("2"), {Type: tea.KeyBackspace}},
			wantInput: "1",
		},
		{
			name:      "backspace on empty input",
			keys:      []tea.KeyMsg{{Type: tea.KeyBackspace}},
			wantInput: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newTestModel(t, true)
			for _, k := range tt.keys {
				m, _ = Update(k, m)
			}
			if m.Input != tt.wantInput {
				t.Errorf("Input = %q, want %q", m.Input, tt.wantInput)
			}
			if m.State != stateIdleInput {
				t.Errorf("State = %v, want %v", m.State, stateIdleInput)
			}
		})
	}
}

func TestIdleInputRejected(t *testing.T) {
	for _, input := range []string{"", "1", "0"} {
		m, _, ptr := newTestModel(t, true)
		m.Input = input

		m, cmd := Update(tea.KeyMsg{Type: tea.KeyEnter}, m)

		var cerr *config.ConfigError
		if !errors.As(m.ConfigErr, &cerr) {
			t.Errorf("input %q: expected ConfigError, got %v", input, m.ConfigErr)
		}
		if m.State != stateDone {
			t.Errorf("input %q: expected done state, got %v", input, m.State)
		}
		if cmd == nil {
			t.Errorf("input %q: expected quit command", input)
		}
		if m.KeepAlive.IsRunning() {
			t.Errorf("input %q: monitor must not start", input)
		}
		if ptr.Reads() != 0 {
			t.Errorf("input %q: pointer must not be read", input)
		}
	}
}

func TestIdleInputAccepted(t *testing.T) {
	m, _, _ := newTestModel(t, true)
	m.Input = "7"

	m, cmd := Update(tea.KeyMsg{Type: tea.KeyEnter}, m)
	if m.State != stateRunning {
		t.Fatalf("State = %v, want %v", m.State, stateRunning)
	}
	want := monitor.Timing{CheckInterval: time.Minute, IdleThreshold: 6 * time.Minute}
	if got := m.Settings.Timing.Roll(nil); got != want {
		t.Errorf("Timing = %v, want %v", got, want)
	}
	if cmd == nil {
		t.Fatal("expected start command")
	}

	m = run(t, m, m.start())
	if !m.KeepAlive.IsRunning() {
		t.Error("expected keeper to be running")
	}
	if m.Snapshot.Timing != want {
		t.Errorf("snapshot timing = %v, want %v", m.Snapshot.Timing, want)
	}
}

func TestRunningDashboard(t *testing.T) {
	m, clk, _ := newTestModel(t, false)
	m = run(t, m, m.start())

	// The started event is waiting on the sink.
	m = run(t, m, waitForEvent(m.events))
	if len(m.Events) != 1 || !strings.Contains(m.Events[0], "Monitoring pointer at (40, 30)") {
		t.Fatalf("unexpected events: %q", m.Events)
	}

	clk.Advance(4 * time.Minute)
	m = run(t, m, waitForEvent(m.events))
	if !strings.Contains(m.Events[1], "Mouse moved to") {
		t.Errorf("expected nudge line, got %q", m.Events[1])
	}
	if m.Snapshot.Nudges != 1 {
		t.Errorf("Nudges = %d, want 1", m.Snapshot.Nudges)
	}

	clk.Advance(2 * time.Minute)
	m, _ = Update(tickMsg(start), m)
	if got := m.IdleProgress(); got != 0.5 {
		t.Errorf("IdleProgress() = %v, want 0.5", got)
	}

	view := View(m)
	for _, want := range []string{"Idle Nudge Active", "Position", "Nudges", "02:00 of 04:00", "Mouse moved to"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}

	m, _ = Update(runes("c"), m)
	if len(m.Events) != 0 {
		t.Error("expected events to be cleared")
	}
}

func TestEventsAreCapped(t *testing.T) {
	m, _, _ := newTestModel(t, false)
	for i := 0; i < maxEvents+5; i++ {
		m, _ = Update(eventMsg(monitor.Event{Kind: monitor.EventMovementDetected, At: start}), m)
	}
	if len(m.Events) != maxEvents {
		t.Errorf("len(Events) = %d, want %d", len(m.Events), maxEvents)
	}
}

func TestStartFailure(t *testing.T) {
	m, _, ptr := newTestModel(t, false)
	ptr.SetReadError(errors.New("no display"))

	m = run(t, m, m.start())
	var perr *pointer.PlatformError
	if !errors.As(m.Err, &perr) {
		t.Errorf("expected PlatformError, got %v", m.Err)
	}
	if m.State != stateDone {
		t.Errorf("State = %v, want %v", m.State, stateDone)
	}
}

func TestPointerFailureEndsSession(t *testing.T) {
	m, clk, ptr := newTestModel(t, false)
	m = run(t, m, m.start())

	ptr.SetMoveError(errors.New("blocked"))
	clk.Advance(4 * time.Minute)

	m = run(t, m, waitForFailure(m.KeepAlive.Errors()))
	if m.Err == nil {
		t.Fatal("expected the failure to be recorded")
	}
	if m.State != stateDone {
		t.Errorf("State = %v, want %v", m.State, stateDone)
	}
}

func TestQuitAndHelp(t *testing.T) {
	m, _, _ := newTestModel(t, false)

	m, _ = Update(runes("?"), m)
	if !m.ShowHelp || !strings.Contains(View(m), "Idle Nudge Help") {
		t.Error("expected help to be shown")
	}
	m, _ = Update(runes("h"), m)
	if m.ShowHelp {
		t.Error("expected help to be hidden")
	}

	m, cmd := Update(tea.KeyMsg{Type: tea.KeyCtrlC}, m)
	if m.State != stateDone || cmd == nil {
		t.Error("expected ctrl+c to quit")
	}
}

func TestIdleInputView(t *testing.T) {
	m, _, _ := newTestModel(t, true)
	m.Input = "5"
	view := View(m)

	if !strings.Contains(view, "Minutes without mouse movement") {
		t.Error("expected view to contain the prompt")
	}
	if !strings.Contains(view, "5") {
		t.Error("expected view to show input value")
	}
}

func TestProgressBar(t *testing.T) {
	for _, p := range []float64{-1, 0, 0.5, 1, 2} {
		if got := lipgloss.Width(progressBar(p, 10)); got != 10 {
			t.Errorf("progressBar(%v) width = %d, want 10", p, got)
		}
	}
}

func TestStateString(t *testing.T) {
	if stateIdleInput.String() != "IdleInput" || stateRunning.String() != "Running" || state(99).String() != "Unknown" {
		t.Error("unexpected state names")
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
