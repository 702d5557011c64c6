package pointer

import (
	"math"
	"time"
)

// Glide movement parameters.
const (
	glideStepsMin = 3
	glideStepsMax = 6

	glideDelayMin  = 5 * time.Millisecond
	glideDelayMax  = 120 * time.Millisecond
	glideSpeedMin  = 0.7
	glideSpeedMax  = 1.3
	glideSpeedLong = 1.2
	glideLongDist  = 10.0
	glideJitter    = 1.5
	glidePauseProb = 0.12
	glidePauseMin  = 150 * time.Millisecond
	glidePauseMax  = 400 * time.Millisecond
)

// Rand is the random source a Glide draws from.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Glide is a Pointer whose MoveTo travels to the target through a few
// jittered intermediate points instead of jumping. The last move always
// lands exactly on the target.
type Glide struct {
	Pointer
	rnd Rand
	// Sleep waits between steps; tests replace it.
	Sleep func(time.Duration)
}

// NewGlide wraps p.
func NewGlide(p Pointer, r Rand) *Glide {
	return &Glide{Pointer: p, rnd: r, Sleep: time.Sleep}
}

// MoveTo implements Actuator.
func (g *Glide) MoveTo(target Position) error {
	from, err := g.Pointer.CurrentPosition()
	if err != nil {
		return err
	}

	for _, step := range g.Path(from, target) {
		if err := g.Pointer.MoveTo(step.Position); err != nil {
			return err
		}
		if step.Delay > 0 {
			g.Sleep(step.Delay)
		}
	}
	return nil
}

// GlideStep is one hop of a glide and the pause after it.
type GlideStep struct {
	Position Position
	Delay    time.Duration
}

// Path plans the hops from from to target. Intermediate hops deviate from
// the straight line by at most glideJitter pixels per axis.
func (g *Glide) Path(from, target Position) []GlideStep {
	if from.Equal(target) {
		return []GlideStep{{Position: target}}
	}

	n := glideStepsMin + g.rnd.Intn(glideStepsMax-glideStepsMin+1)
	dx := float64(target.X - from.X)
	dy := float64(target.Y - from.Y)
	segment := math.Hypot(dx, dy) / float64(n)

	steps := make([]GlideStep, 0, n)
	for i := 1; i <= n; i++ {
		pos := target
		if i < n {
			f := float64(i) / float64(n)
			pos = Position{
				X: from.X + int(math.Round(dx*f+(g.rnd.Float64()-0.5)*glideJitter)),
				Y: from.Y + int(math.Round(dy*f+(g.rnd.Float64()-0.5)*glideJitter)),
			}
		}
		steps = append(steps, GlideStep{Position: pos, Delay: g.delay(segment, i == n)})
	}
	return steps
}

func (g *Glide) delay(distance float64, last bool) time.Duration {
	if last {
		return 0
	}
	base := float64(glideDelayMin) + g.rnd.Float64()*float64(glideDelayMax-glideDelayMin)
	speed := glideSpeedMin + g.rnd.Float64()*(glideSpeedMax-glideSpeedMin)
	if distance > glideLongDist {
		speed *= glideSpeedLong
	}
	d := time.Duration(base * speed)
	if g.rnd.Float64() < glidePauseProb {
		d += glidePauseMin + time.Duration(g.rnd.Float64()*float64(glidePauseMax-glidePauseMin))
	}
	return d
}
