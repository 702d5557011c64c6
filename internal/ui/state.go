package ui

// state represents the different states of the TUI.
type state int

const (
	stateIdleInput state = iota
	stateRunning
	stateDone
)

func (s state) String() string {
	switch s {
	case stateIdleInput:
		return "IdleInput"
	case stateRunning:
		return "Running"
	case stateDone:
		return "Done"
	default:
		return "Unknown"
	}
}
