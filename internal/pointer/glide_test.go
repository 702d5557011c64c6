package pointer

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPointer is a minimal in-package fake; testutil depends on this package.
type memPointer struct {
	pos     Position
	moves   []Position
	moveErr error
}

func (m *memPointer) CurrentPosition() (Position, error) { return m.pos, nil }

func (m *memPointer) MoveTo(p Position) error {
	if m.moveErr != nil {
		return m.moveErr
	}
	m.moves = append(m.moves, p)
	m.pos = p
	return nil
}

func TestGlideEndsOnTarget(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		mem := &memPointer{pos: Position{X: 500, Y: 500}}
		g := NewGlide(mem, rand.New(rand.NewSource(seed)))
		var slept time.Duration
		g.Sleep = func(d time.Duration) { slept += d }

		target := Position{X: 430, Y: 585}
		require.NoError(t, g.MoveTo(target))

		require.GreaterOrEqual(t, len(mem.moves), glideStepsMin)
		require.LessOrEqual(t, len(mem.moves), glideStepsMax)
		assert.Equal(t, target, mem.moves[len(mem.moves)-1], "seed %d", seed)
		assert.Greater(t, slept, time.Duration(0))

		// Hops progress along the line, give or take the jitter.
		for i, p := range mem.moves[:len(mem.moves)-1] {
			f := float64(i+1) / float64(len(mem.moves))
			assert.InDelta(t, 500-70*f, float64(p.X), 2, "seed %d hop %d", seed, i)
			assert.InDelta(t, 500+85*f, float64(p.Y), 2, "seed %d hop %d", seed, i)
		}
	}
}

func TestGlideInPlace(t *testing.T) {
	mem := &memPointer{pos: Position{X: 3, Y: 4}}
	g := NewGlide(mem, rand.New(rand.NewSource(1)))
	g.Sleep = func(time.Duration) { t.Fatal("no sleep expected") }

	require.NoError(t, g.MoveTo(Position{X: 3, Y: 4}))
	assert.Equal(t, []Position{{X: 3, Y: 4}}, mem.moves)
}

func TestGlideMoveError(t *testing.T) {
	boom := errors.New("boom")
	mem := &memPointer{moveErr: boom}
	g := NewGlide(mem, rand.New(rand.NewSource(1)))
	g.Sleep = func(time.Duration) {}

	assert.ErrorIs(t, g.MoveTo(Position{X: 50, Y: 50}), boom)
}
