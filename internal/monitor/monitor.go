// Package monitor implements the idle monitor: it polls the pointer, tracks
// how long it has been still and nudges it once the idle budget runs out.
package monitor

import (
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/stigoleg/idle-nudge/internal/clock"
	"github.com/stigoleg/idle-nudge/internal/pointer"
)

var (
	ErrNoPointer      = errors.New("monitor: pointer is required")
	ErrAlreadyRunning = errors.New("monitor: already running")
)

// Options configures a Monitor. Pointer is required; everything else has a default.
type Options struct {
	Pointer pointer.Pointer
	Clock   clock.Clock
	Rand    Rand
	Timing  TimingPolicy
	Offsets OffsetPolicy
	// Jitter schedules each nudge at a random point inside the remaining
	// budget instead of waiting for the deadline tick.
	Jitter bool
	Sink   Sink
}

// Monitor owns the idle state and both timers. Callbacks are serialized, so
// at most one tick or jittered nudge runs at a time.
type Monitor struct {
	opts Options

	// cb serializes callbacks including event delivery; mu guards state.
	cb sync.Mutex
	mu sync.Mutex

	state      State
	running    bool
	tickTimer  clock.Timer
	nudgeTimer clock.Timer
	nudgeGen   uint64

	errc chan error
}

// New validates opts and fills in defaults.
func New(opts Options) (*Monitor, error) {
	if opts.Pointer == nil {
		return nil, ErrNoPointer
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Timing == nil {
		opts.Timing = RandomTiming{}
	}
	if opts.Offsets == nil {
		opts.Offsets = SubtleOffsets{}
	}
	if opts.Sink == nil {
		opts.Sink = nopSink{}
	}
	return &Monitor{
		opts: opts,
		errc: make(chan error, 1),
	}, nil
}

// Start seeds the state from the current pointer position and arms the first tick.
func (m *Monitor) Start() error {
	m.cb.Lock()
	defer m.cb.Unlock()

	ev, err := m.start()
	if err != nil {
		return err
	}
	m.emit(ev)
	return nil
}

func (m *Monitor) start() (Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return Event{}, ErrAlreadyRunning
	}

	pos, err := m.opts.Pointer.CurrentPosition()
	if err != nil {
		return Event{}, platformError("read", err)
	}

	now := m.opts.Clock.Now()
	m.state = State{
		Phase:         PhaseIdleTiming,
		LastPosition:  pos,
		LastActivity:  now,
		Timing:        m.opts.Timing.Roll(m.opts.Rand),
		PendingOffset: m.opts.Offsets.Draw(m.opts.Rand),
	}
	m.running = true
	m.armTickLocked(now)

	log.Printf("monitor: started at %v (%s, timing=%s, offsets=%s, jitter=%v)",
		pos, m.state.Timing, m.opts.Timing.Name(), m.opts.Offsets.Name(), m.opts.Jitter)

	return Event{Kind: EventStarted, At: now, Position: pos, Timing: m.state.Timing}, nil
}

// Stop cancels both timers. It is safe to call more than once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.stopTimersLocked()
	now := m.opts.Clock.Now()
	ev := Event{
		Kind:     EventStopped,
		At:       now,
		Position: m.state.LastPosition,
		Elapsed:  m.state.IdleFor(now),
		Timing:   m.state.Timing,
	}
	nudges, activity := m.state.Nudges, m.state.Activity
	m.mu.Unlock()

	log.Printf("monitor: stopped (nudges=%d, activity=%d)", nudges, activity)
	m.emit(ev)
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// State returns a copy of the current state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Now returns the monitor's notion of the current time.
func (m *Monitor) Now() time.Time {
	return m.opts.Clock.Now()
}

// Errors delivers the first fatal pointer failure. The monitor has already
// stopped itself when a value arrives.
func (m *Monitor) Errors() <-chan error {
	return m.errc
}

// Tick runs one check cycle. The tick timer calls it; tests may call it directly.
func (m *Monitor) Tick() error {
	m.cb.Lock()
	defer m.cb.Unlock()

	events, err := m.tick()
	m.emit(events...)
	return err
}

func (m *Monitor) tick() ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil, nil
	}

	now := m.opts.Clock.Now()
	pos, err := m.opts.Pointer.CurrentPosition()
	if err != nil {
		return nil, m.failLocked("read", err)
	}

	var events []Event
	if ev, moved := m.observeLocked(pos, now); moved {
		events = append(events, ev)
	}

	elapsed := now.Sub(m.state.LastActivity)
	if elapsed >= m.state.Timing.IdleThreshold {
		ev, err := m.nudgeLocked(now, elapsed)
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	} else if m.opts.Jitter && m.nudgeTimer == nil {
		events = append(events, m.scheduleNudgeLocked(now, m.state.Timing.IdleThreshold-elapsed))
	}

	m.armTickLocked(now)
	return events, nil
}

// fireNudge runs a jittered nudge scheduled with generation gen.
func (m *Monitor) fireNudge(gen uint64) {
	m.cb.Lock()
	defer m.cb.Unlock()

	events, _ := m.fire(gen)
	m.emit(events...)
}

func (m *Monitor) fire(gen uint64) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running || gen != m.nudgeGen || m.nudgeTimer == nil {
		return nil, nil
	}
	m.nudgeTimer = nil
	m.state.NudgeDue = time.Time{}

	now := m.opts.Clock.Now()
	pos, err := m.opts.Pointer.CurrentPosition()
	if err != nil {
		return nil, m.failLocked("read", err)
	}

	// The user moved since the last tick; the budget starts over instead.
	if ev, moved := m.observeLocked(pos, now); moved {
		return []Event{ev}, nil
	}

	ev, err := m.nudgeLocked(now, now.Sub(m.state.LastActivity))
	if err != nil {
		return nil, err
	}
	return []Event{ev}, nil
}

// observeLocked records activity if pos differs from the last known position.
func (m *Monitor) observeLocked(pos pointer.Position, now time.Time) (Event, bool) {
	if pos.Equal(m.state.LastPosition) {
		return Event{}, false
	}

	elapsed := now.Sub(m.state.LastActivity)
	m.state.LastPosition = pos
	m.touchLocked(now)
	m.state.Timing = m.opts.Timing.Roll(m.opts.Rand)
	m.state.Activity++
	m.cancelNudgeLocked()

	return Event{
		Kind:     EventMovementDetected,
		At:       now,
		Position: pos,
		Elapsed:  elapsed,
		Timing:   m.state.Timing,
	}, true
}

// nudgeLocked moves the pointer by the pending offset, then draws the next one.
func (m *Monitor) nudgeLocked(now time.Time, elapsed time.Duration) (Event, error) {
	m.state.Phase = PhaseNudging
	defer func() { m.state.Phase = PhaseIdleTiming }()

	from := m.state.LastPosition
	offset := m.state.PendingOffset
	target := from.Add(offset)

	if err := m.opts.Pointer.MoveTo(target); err != nil {
		return Event{}, m.failLocked("move", err)
	}
	m.state.PendingOffset = m.opts.Offsets.Draw(m.opts.Rand)

	// Screen edges may clamp the move, so trust the source rather than target.
	landed, err := m.opts.Pointer.CurrentPosition()
	if err != nil {
		return Event{}, m.failLocked("read", err)
	}
	m.state.LastPosition = landed
	m.touchLocked(now)
	m.state.Timing = m.opts.Timing.Roll(m.opts.Rand)
	m.state.Nudges++
	m.cancelNudgeLocked()

	log.Printf("monitor: nudged %v -> %v after %s idle", from, target, elapsed)

	return Event{
		Kind:     EventNudgePerformed,
		At:       now,
		Position: target,
		From:     from,
		Offset:   offset,
		Elapsed:  elapsed,
		Timing:   m.state.Timing,
	}, nil
}

func (m *Monitor) scheduleNudgeLocked(now time.Time, remaining time.Duration) Event {
	delay := time.Duration(m.opts.Rand.Float64() * float64(remaining))

	m.nudgeGen++
	gen := m.nudgeGen
	m.state.NudgeDue = now.Add(delay)
	m.nudgeTimer = m.opts.Clock.AfterFunc(delay, func() { m.fireNudge(gen) })

	return Event{
		Kind:     EventNudgeScheduled,
		At:       now,
		Position: m.state.LastPosition,
		Elapsed:  now.Sub(m.state.LastActivity),
		Delay:    delay,
		Timing:   m.state.Timing,
	}
}

func (m *Monitor) cancelNudgeLocked() {
	if m.nudgeTimer != nil {
		m.nudgeTimer.Stop()
		m.nudgeTimer = nil
	}
	m.nudgeGen++
	m.state.NudgeDue = time.Time{}
}

func (m *Monitor) armTickLocked(now time.Time) {
	if m.tickTimer != nil {
		m.tickTimer.Stop()
	}
	interval := m.state.Timing.CheckInterval
	m.state.NextCheck = now.Add(interval)
	m.tickTimer = m.opts.Clock.AfterFunc(interval, m.onTick)
}

func (m *Monitor) onTick() {
	_ = m.Tick()
}

func (m *Monitor) stopTimersLocked() {
	if m.tickTimer != nil {
		m.tickTimer.Stop()
		m.tickTimer = nil
	}
	m.cancelNudgeLocked()
	m.state.NextCheck = time.Time{}
}

// touchLocked moves LastActivity forward, never back.
func (m *Monitor) touchLocked(now time.Time) {
	if now.After(m.state.LastActivity) {
		m.state.LastActivity = now
	}
}

func (m *Monitor) failLocked(op string, err error) error {
	perr := platformError(op, err)
	m.running = false
	m.stopTimersLocked()
	log.Printf("monitor: %v; stopping", perr)

	select {
	case m.errc <- perr:
	default:
	}
	return perr
}

func (m *Monitor) emit(events ...Event) {
	for _, ev := range events {
		m.opts.Sink.Report(ev)
	}
}

func platformError(op string, err error) error {
	var perr *pointer.PlatformError
	if errors.As(err, &perr) {
		return err
	}
	return &pointer.PlatformError{Op: op, Err: err}
}
