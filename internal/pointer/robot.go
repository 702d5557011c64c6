//go:build cgo

package pointer

import (
	"log"

	"github.com/go-vgo/robotgo"
)

// Robot drives the real system cursor through robotgo.
type Robot struct{}

// NewRobot returns a Pointer backed by the native input-automation library.
func NewRobot() (Pointer, error) {
	if msg := displayWarning(); msg != "" {
		log.Printf("robot: %s", msg)
	}
	return &Robot{}, nil
}

// CurrentPosition returns the cursor location reported by the OS.
func (r *Robot) CurrentPosition() (Position, error) {
	x, y := robotgo.Location()
	return Position{X: x, Y: y}, nil
}

// MoveTo warps the cursor to p.
func (r *Robot) MoveTo(p Position) error {
	robotgo.Move(p.X, p.Y)
	return nil
}
