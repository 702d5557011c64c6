// Package pointer defines the cursor collaborators the idle monitor is built on:
// a Source that reports where the pointer is and an Actuator that moves it.
package pointer

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned when no pointer backend is available for this build.
var ErrUnsupported = errors.New("pointer control is not supported on this build")

// Position is a snapshot of the cursor coordinates in screen pixels.
type Position struct {
	X int
	Y int
}

// Offset is a relative cursor displacement in pixels.
type Offset struct {
	DX int
	DY int
}

// Add returns the position displaced by o, independently per axis.
func (p Position) Add(o Offset) Position {
	return Position{X: p.X + o.DX, Y: p.Y + o.DY}
}

// Equal reports whether both coordinates match exactly.
func (p Position) Equal(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

func (o Offset) String() string {
	return fmt.Sprintf("(%+d, %+d)", o.DX, o.DY)
}

// Source reports the current cursor position.
type Source interface {
	CurrentPosition() (Position, error)
}

// Actuator moves the cursor to absolute screen coordinates.
type Actuator interface {
	MoveTo(p Position) error
}

// Pointer is a device that can be both read and moved.
type Pointer interface {
	Source
	Actuator
}

// PlatformError wraps a failure of the underlying input-automation layer.
type PlatformError struct {
	Op  string
	Err error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("pointer %s failed: %v", e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}
