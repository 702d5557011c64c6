package testutil

import (
	"errors"
	"testing"

	"github.com/stigoleg/idle-nudge/internal/monitor"
	"github.com/stigoleg/idle-nudge/internal/pointer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakePointerMoves(t *testing.T) {
	f := NewFakePointer(pointer.Position{X: 100, Y: 100})

	require.NoError(t, f.MoveTo(pointer.Position{X: 105, Y: 95}))
	f.UserMove(pointer.Position{X: 1, Y: 2})

	pos, err := f.CurrentPosition()
	require.NoError(t, err)
	assert.Equal(t, pointer.Position{X: 1, Y: 2}, pos)
	assert.Equal(t, []pointer.Position{{X: 105, Y: 95}}, f.Moves())
	assert.Equal(t, 1, f.Reads())
}

func TestFakePointerClamp(t *testing.T) {
	f := NewFakePointer(pointer.Position{X: 3, Y: 3})
	f.ClampAt(pointer.Position{})

	require.NoError(t, f.MoveTo(pointer.Position{X: -7, Y: 8}))
	assert.Equal(t, pointer.Position{X: 0, Y: 8}, f.Position())
	assert.Equal(t, []pointer.Position{{X: -7, Y: 8}}, f.Moves(), "recorded target is unclamped")
}

func TestFakePointerErrors(t *testing.T) {
	f := NewFakePointer(pointer.Position{})
	boom := errors.New("boom")

	f.SetReadError(boom)
	_, err := f.CurrentPosition()
	assert.ErrorIs(t, err, boom)

	f.SetMoveError(boom)
	assert.ErrorIs(t, f.MoveTo(pointer.Position{X: 1}), boom)
	assert.Empty(t, f.Moves())
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Report(monitor.Event{Kind: monitor.EventStarted})
	r.Report(monitor.Event{Kind: monitor.EventNudgePerformed})
	r.Report(monitor.Event{Kind: monitor.EventNudgePerformed})

	assert.Len(t, r.Events(), 3)
	assert.Len(t, r.OfKind(monitor.EventNudgePerformed), 2)
	assert.Equal(t, []monitor.EventKind{monitor.EventStarted, monitor.EventNudgePerformed, monitor.EventNudgePerformed}, r.Kinds())

	r.Clear()
	assert.Empty(t, r.Events())
}
