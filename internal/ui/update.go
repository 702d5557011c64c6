package ui

import (
	"fmt"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stigoleg/idle-nudge/internal/config"
	"github.com/stigoleg/idle-nudge/internal/monitor"
	"github.com/stigoleg/idle-nudge/internal/report"
	"github.com/stigoleg/idle-nudge/internal/util"
)

// tickMsg refreshes the dashboard snapshot.
type tickMsg time.Time

// startedMsg reports the outcome of starting the session.
type startedMsg struct{ err error }

// eventMsg carries one monitor event.
type eventMsg monitor.Event

// failedMsg carries the fatal pointer error that ended the session.
type failedMsg struct{ err error }

// Update handles messages and updates the model accordingly.
func Update(msg tea.Msg, m Model) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Quit) {
		m.State = stateDone
		return m, tea.Quit
	}

	switch m.State {
	case stateIdleInput:
		if msg, ok := msg.(tea.KeyMsg); ok {
			return updateIdleInput(msg, m)
		}

	case stateRunning:
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch {
			case key.Matches(msg, m.keys.ToggleHelp):
				m.ShowHelp = !m.ShowHelp
			case key.Matches(msg, m.keys.ClearLog):
				m.Events = nil
			}
			return m, nil

		case startedMsg:
			if msg.err != nil {
				m.Err = msg.err
				m.State = stateDone
				return m, tea.Quit
			}
			m = m.refresh()
			return m, tea.Batch(waitForEvent(m.events), waitForFailure(m.KeepAlive.Errors()))

		case eventMsg:
			m.Events = append(m.Events, fmt.Sprintf("%s %s",
				util.FormatClock(msg.At), report.Message(monitor.Event(msg))))
			if len(m.Events) > maxEvents {
				m.Events = m.Events[len(m.Events)-maxEvents:]
			}
			m = m.refresh()
			return m, waitForEvent(m.events)

		case failedMsg:
			m.Err = msg.err
			m.State = stateDone
			return m, tea.Quit

		case tickMsg:
			m = m.refresh()
			return m, tick()
		}
	}

	return m, nil
}

func updateIdleInput(msg tea.KeyMsg, m Model) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		timing, err := config.ParseIdleMinutes(m.Input)
		if err != nil {
			// Invalid input ends the program without starting a session.
			m.ConfigErr = err
			m.ErrorMessage = err.Error()
			m.State = stateDone
			return m, tea.Quit
		}
		m.Settings.Timing = timing
		m.State = stateRunning
		m.ErrorMessage = ""
		return m, tea.Batch(m.start(), tick())

	case key.Matches(msg, m.keys.Backspace):
		if len(m.Input) > 0 {
			m.Input = m.Input[:len(m.Input)-1]
		}
		return m, nil

	default:
		s := msg.String()
		if len(s) == 1 && unicode.IsDigit(rune(s[0])) && len(m.Input) < 4 {
			m.Input += s
		}
		return m, nil
	}
}

// refresh copies the latest monitor state into the model.
func (m Model) refresh() Model {
	if m.KeepAlive == nil {
		return m
	}
	if st, now, ok := m.KeepAlive.Snapshot(); ok {
		m.Snapshot = st
		m.Now = now
	}
	return m
}

// start runs Keeper.Start off the event loop, since Start emits events.
func (m Model) start() tea.Cmd {
	k, s, sink := m.KeepAlive, m.Settings, m.Sink()
	return func() tea.Msg {
		return startedMsg{err: k.Start(s, sink)}
	}
}

func waitForEvent(ch <-chan monitor.Event) tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-ch)
	}
}

func waitForFailure(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return failedMsg{err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
