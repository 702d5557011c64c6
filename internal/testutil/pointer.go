// Package testutil provides fakes for exercising the monitor without a display.
package testutil

import (
	"sync"

	"github.com/stigoleg/idle-nudge/internal/pointer"
)

// FakePointer is a thread-safe in-memory cursor. MoveTo updates the position
// the next CurrentPosition call reports, like a real display would.
type FakePointer struct {
	mu       sync.Mutex
	pos      pointer.Position
	moves    []pointer.Position
	reads    int
	readErr  error
	moveErr  error
	clampMin *pointer.Position
}

// NewFakePointer returns a fake cursor resting at pos.
func NewFakePointer(pos pointer.Position) *FakePointer {
	return &FakePointer{pos: pos}
}

// CurrentPosition implements pointer.Source.
func (f *FakePointer) CurrentPosition() (pointer.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.readErr != nil {
		return pointer.Position{}, f.readErr
	}
	return f.pos, nil
}

// MoveTo implements pointer.Actuator.
func (f *FakePointer) MoveTo(p pointer.Position) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.moveErr != nil {
		return f.moveErr
	}
	f.moves = append(f.moves, p)
	if f.clampMin != nil {
		if p.X < f.clampMin.X {
			p.X = f.clampMin.X
		}
		if p.Y < f.clampMin.Y {
			p.Y = f.clampMin.Y
		}
	}
	f.pos = p
	return nil
}

// UserMove simulates the user moving the cursor. It is not recorded as a nudge.
func (f *FakePointer) UserMove(p pointer.Position) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pos = p
}

// ClampAt makes the fake clamp moves below min, like a screen edge.
func (f *FakePointer) ClampAt(min pointer.Position) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clampMin = &min
}

// SetReadError makes subsequent reads fail with err.
func (f *FakePointer) SetReadError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readErr = err
}

// SetMoveError makes subsequent moves fail with err.
func (f *FakePointer) SetMoveError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moveErr = err
}

// Moves returns a copy of every MoveTo target.
func (f *FakePointer) Moves() []pointer.Position {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]pointer.Position, len(f.moves))
	copy(out, f.moves)
	return out
}

// Position returns where the fake cursor currently is.
func (f *FakePointer) Position() pointer.Position {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos
}

// Reads returns how many times the position was read.
func (f *FakePointer) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}
