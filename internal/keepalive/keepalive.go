// Package keepalive runs idle-nudge sessions: it owns the pointer backend and
// the Monitor for the lifetime of a session.
package keepalive

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stigoleg/idle-nudge/internal/clock"
	"github.com/stigoleg/idle-nudge/internal/monitor"
	"github.com/stigoleg/idle-nudge/internal/pointer"
)

var ErrAlreadyRunning = errors.New("keep-alive already running")

// PointerHealth reports whether the pointer backend is still usable.
type PointerHealth int

const (
	PointerHealthUnknown PointerHealth = iota
	PointerHealthOK
	PointerHealthFailed
)

func (h PointerHealth) String() string {
	switch h {
	case PointerHealthOK:
		return "ok"
	case PointerHealthFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Settings are the per-session monitor parameters.
type Settings struct {
	Timing  monitor.TimingPolicy
	Offsets monitor.OffsetPolicy
	Jitter  bool
	Rand    monitor.Rand
}

// Keeper manages one idle-nudge session at a time. The zero value uses the
// robotgo pointer and the wall clock.
type Keeper struct {
	running   bool
	mu        sync.Mutex
	ptr       pointer.Pointer
	clk       clock.Clock
	mon       *monitor.Monitor
	ctx       context.Context
	cancel    context.CancelFunc
	startedAt time.Time

	errc chan error

	// pointerFailCount counts fatal pointer errors (atomic for thread-safety)
	pointerFailCount int64
	started          int64
}

// New returns a Keeper using p and c. Either may be nil to get the default.
func New(p pointer.Pointer, c clock.Clock) *Keeper {
	return &Keeper{ptr: p, clk: c}
}

// IsRunning returns whether a session is currently active
func (k *Keeper) IsRunning() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.running
}

// Start begins a session that reports events to sink.
func (k *Keeper) Start(s Settings, sink monitor.Sink) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.running {
		return ErrAlreadyRunning
	}

	if k.ptr == nil {
		var err error
		k.ptr, err = pointer.NewRobot()
		if err != nil {
			atomic.AddInt64(&k.pointerFailCount, 1)
			return err
		}
	}
	if k.clk == nil {
		k.clk = clock.Real()
	}

	mon, err := monitor.New(monitor.Options{
		Pointer: k.ptr,
		Clock:   k.clk,
		Rand:    s.Rand,
		Timing:  s.Timing,
		Offsets: s.Offsets,
		Jitter:  s.Jitter,
		Sink:    sink,
	})
	if err != nil {
		return err
	}

	// Start emits events; the sink must not call back into the Keeper.
	if err := mon.Start(); err != nil {
		atomic.AddInt64(&k.pointerFailCount, 1)
		return err
	}

	k.ctx, k.cancel = context.WithCancel(context.Background())
	k.mon = mon
	k.running = true
	k.startedAt = k.clk.Now()
	k.errc = make(chan error, 1)
	atomic.StoreInt64(&k.pointerFailCount, 0)
	atomic.AddInt64(&k.started, 1)

	go k.watch(k.ctx, mon, k.errc)

	log.Printf("keeper: started (jitter=%v)", s.Jitter)
	return nil
}

// watch forwards the monitor's fatal error and marks the session stopped.
func (k *Keeper) watch(ctx context.Context, mon *monitor.Monitor, errc chan<- error) {
	select {
	case <-ctx.Done():
	case err := <-mon.Errors():
		atomic.AddInt64(&k.pointerFailCount, 1)
		k.mu.Lock()
		if k.mon == mon {
			k.running = false
			k.mon = nil
			if k.cancel != nil {
				k.cancel()
				k.cancel = nil
			}
		}
		k.mu.Unlock()
		log.Printf("keeper: session ended by pointer failure: %v", err)
		errc <- err
	}
}

// Errors delivers a fatal pointer error for the current session. A new
// channel is created by every Start.
func (k *Keeper) Errors() <-chan error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.errc
}

// Stop ends the session
func (k *Keeper) Stop() error {
	return k.StopWithTimeout(0)
}

// StopWithTimeout ends the session, giving up after timeout if the monitor
// is stuck delivering its final event.
func (k *Keeper) StopWithTimeout(timeout time.Duration) error {
	k.mu.Lock()
	if !k.running {
		k.mu.Unlock()
		return nil
	}

	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	if k.cancel != nil {
		k.cancel()
		k.cancel = nil
	}

	mon := k.mon
	k.mon = nil
	k.running = false
	k.mu.Unlock()

	// Stop without holding the lock; the sink may block.
	done := make(chan struct{})
	go func() {
		mon.Stop()
		close(done)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	select {
	case <-done:
		log.Printf("keeper: stopped")
		return nil
	case <-ctx.Done():
		log.Printf("keeper: stop timeout exceeded after %v", timeout)
		return ctx.Err()
	}
}

// Snapshot returns the monitor state and the current time on the session's
// clock. ok is false when no session is running.
func (k *Keeper) Snapshot() (st monitor.State, now time.Time, ok bool) {
	k.mu.Lock()
	mon := k.mon
	k.mu.Unlock()

	if mon == nil {
		return monitor.State{}, time.Time{}, false
	}
	return mon.State(), mon.Now(), true
}

// Uptime is how long the current session has been running.
func (k *Keeper) Uptime() time.Duration {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.running {
		return 0
	}
	return k.clk.Now().Sub(k.startedAt)
}

// Sessions counts successful starts.
func (k *Keeper) Sessions() int {
	return int(atomic.LoadInt64(&k.started))
}

// GetPointerHealth returns the current health of the pointer backend
func (k *Keeper) GetPointerHealth() PointerHealth {
	if atomic.LoadInt64(&k.pointerFailCount) > 0 {
		return PointerHealthFailed
	}
	if atomic.LoadInt64(&k.started) == 0 {
		return PointerHealthUnknown
	}
	return PointerHealthOK
}
