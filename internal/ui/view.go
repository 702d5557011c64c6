package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stigoleg/idle-nudge/internal/util"
)

// progressWidth matches the width of the help line below the bar.
const progressWidth = 30

// View renders the current state of the model to a string.
func View(m Model) string {
	if m.ShowHelp {
		return helpView(m)
	}

	switch m.State {
	case stateIdleInput:
		return idleInputView(m)
	case stateRunning:
		return runningView(m)
	}

	return ""
}

func idleInputView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Idle Time"))
	b.WriteString("\n\n")

	b.WriteString(Current.Help.Render("Minutes without mouse movement before a nudge (at least 2):"))
	b.WriteString("\n")
	input := m.Input
	if input == "" {
		input = " "
	}
	b.WriteString(Current.InputBox.Render(input))
	b.WriteString("\n\n")

	b.WriteString(m.help.View(m.keys.ForState(m.State)))

	if m.ErrorMessage != "" {
		b.WriteString("\n\n" + Current.Error.Render(m.ErrorMessage))
	}

	return b.String()
}

func runningView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Idle Nudge Active"))
	b.WriteString("\n\n")

	st := m.Snapshot
	if m.Now.IsZero() {
		b.WriteString(Current.Help.Render("Reading pointer position..."))
		b.WriteString("\n\n" + m.help.View(m.keys.ForState(m.State)))
		return b.String()
	}

	b.WriteString(Current.Active.Render("Watching the mouse for inactivity"))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Position", st.LastPosition.String()},
		{"Idle", fmt.Sprintf("%s of %s", util.FormatCountdown(st.IdleFor(m.Now)), util.FormatCountdown(st.Timing.IdleThreshold))},
		{"Next check", util.FormatCountdown(st.NextCheck.Sub(m.Now))},
	}
	if !st.NudgeDue.IsZero() {
		rows = append(rows, [2]string{"Nudge due", Current.Pending.Render(util.FormatCountdown(st.NudgeDue.Sub(m.Now)))})
	}
	rows = append(rows,
		[2]string{"Next offset", st.PendingOffset.String()},
		[2]string{"Nudges", fmt.Sprint(st.Nudges)},
		[2]string{"Activity", fmt.Sprint(st.Activity)},
	)
	for _, r := range rows {
		b.WriteString(Current.Label.Render(r[0]) + Current.Value.Render(r[1]) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(Current.Countdown.Render(fmt.Sprintf("Nudge in %s", util.FormatCountdown(st.Remaining(m.Now)))))
	b.WriteString("\n")
	b.WriteString(Current.ProgressBarContainer.Render(progressBar(m.IdleProgress(), progressWidth)))
	b.WriteString("\n\n")

	if len(m.Events) > 0 {
		for _, line := range m.Events {
			b.WriteString(Current.EventLine.Render(line) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys.ForState(m.State)))

	if m.ErrorMessage != "" {
		b.WriteString("\n\n" + Current.Error.Render(m.ErrorMessage))
	}

	return b.String()
}

// gradientColors runs from purple to green.
var gradientColors = []string{
	"#7D56F4", "#7359F5", "#695CF6", "#5F5FF7", "#5562F8",
	"#4B65F9", "#4168FA", "#376BFB", "#2D6EFC", "#2371FD",
	"#1974FE", "#0F77FF", "#057AFF", "#007DFA", "#0081F0",
	"#0085E6", "#0089DC", "#008DD2", "#0091C8", "#0095BE",
	"#0099B4", "#009DAA", "#00A1A0", "#00A596", "#00A98C",
	"#00AD82", "#00B178", "#00B56E", "#00B964", "#00BD5A",
	"#43BF6D",
}

func progressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var bar strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			colorIndex := int(float64(i) / float64(width) * float64(len(gradientColors)-1))
			block := Current.ProgressBar.Background(lipgloss.Color(gradientColors[colorIndex]))
			bar.WriteString(block.Render(" "))
		} else {
			bar.WriteString(Current.ProgressBar.Render(" "))
		}
	}
	return bar.String()
}

func helpView(m Model) string {
	help := `Idle Nudge Help

Watches the mouse pointer. When it has not moved for the idle
threshold, the pointer is nudged by a small offset so the session
stays active. Any real movement resets the timer.

Usage:
  idlenudge [flags]

Examples:
  idlenudge                          # Random timing, subtle nudges
  idlenudge -m budget -n pronounced  # Stay under 4m50s of inactivity
  idlenudge -m interactive -i 5      # Nudge after 4 idle minutes
  idlenudge -j --plain               # Jittered nudges, line output

Press 'h' to close help`

	return Current.Help.Render(help) + "\n\n" + m.help.View(m.keys.ForState(m.State))
}
