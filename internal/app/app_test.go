package app

import (
	"bytes"
	"errors"
	"math/rand"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/idle-nudge/internal/clock"
	"github.com/stigoleg/idle-nudge/internal/keepalive"
	"github.com/stigoleg/idle-nudge/internal/monitor"
	"github.com/stigoleg/idle-nudge/internal/pointer"
	"github.com/stigoleg/idle-nudge/internal/testutil"
)

var start = time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)

// syncBuffer lets the test read output while Run is still writing.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fixture struct {
	clk  *clock.Fake
	ptr  *testutil.FakePointer
	k    *keepalive.Keeper
	out  *syncBuffer
	sigs chan os.Signal
}

func newPlain(t *testing.T, in string, prompt bool) (*Plain, *fixture) {
	t.Helper()
	f := &fixture{
		clk:  clock.NewFake(start),
		ptr:  testutil.NewFakePointer(pointer.Position{X: 200, Y: 150}),
		out:  &syncBuffer{},
		sigs: make(chan os.Signal, 1),
	}
	f.k = keepalive.New(f.ptr, f.clk)
	t.Cleanup(func() { _ = f.k.Stop() })

	p := &Plain{
		Keeper: f.k,
		Settings: keepalive.Settings{
			Timing:  monitor.FixedTimingFromMinutes(5),
			Offsets: monitor.SubtleOffsets{},
			Rand:    rand.New(rand.NewSource(42)),
		},
		Prompt:  prompt,
		In:      strings.NewReader(in),
		Out:     f.out,
		Signals: f.sigs,
		Now:     f.clk.Now,
	}
	return p, f
}

func runAsync(p *Plain) <-chan int {
	done := make(chan int, 1)
	go func() { done <- p.Run() }()
	return done
}

func waitExit(t *testing.T, done <-chan int) int {
	t.Helper()
	select {
	case code := <-done:
		return code
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return -1
	}
}

func TestPlainRunUntilSignal(t *testing.T) {
	p, f := newPlain(t, "", false)
	done := runAsync(p)

	require.Eventually(t, f.k.IsRunning, 2*time.Second, 5*time.Millisecond)
	f.clk.Advance(4 * time.Minute)
	f.sigs <- syscall.SIGINT

	assert.Equal(t, ExitOK, waitExit(t, done))
	assert.False(t, f.k.IsRunning())

	lines := strings.Split(strings.TrimSpace(f.out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Monitoring pointer at (200, 150)")
	assert.Contains(t, lines[1], "Mouse inactive for 240.000 seconds... Mouse moved to")
	assert.Contains(t, lines[2], "Monitoring stopped.")
	assert.Equal(t, "[10:04:00.000] Script stopped", lines[3])
}

func TestPlainPrompt(t *testing.T) {
	p, f := newPlain(t, "3\n", true)
	p.Settings.Timing = nil
	done := runAsync(p)

	require.Eventually(t, f.k.IsRunning, 2*time.Second, 5*time.Millisecond)
	st, _, ok := f.k.Snapshot()
	require.True(t, ok)
	assert.Equal(t, monitor.Timing{CheckInterval: time.Minute, IdleThreshold: 2 * time.Minute}, st.Timing)

	f.sigs <- syscall.SIGTERM
	assert.Equal(t, ExitOK, waitExit(t, done))
	assert.True(t, strings.HasPrefix(f.out.String(), "Enter idle time in minutes"))
}

func TestPlainPromptRejected(t *testing.T) {
	for _, in := range []string{"1\n", "abc\n", "\n", ""} {
		p, f := newPlain(t, in, true)

		code := waitExit(t, runAsync(p))

		assert.Equal(t, ExitOK, code, "input %q", in)
		assert.Equal(t, 0, f.k.Sessions(), "input %q: monitor must not start", in)
		assert.Equal(t, 0, f.ptr.Reads(), "input %q: pointer must not be read", in)
		assert.NotContains(t, f.out.String(), "Script stopped")
	}
}

func TestPlainSignalDuringPrompt(t *testing.T) {
	p, f := newPlain(t, "", true)
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer w.Close()
	defer r.Close()
	p.In = r

	done := runAsync(p)
	f.sigs <- syscall.SIGINT

	assert.Equal(t, ExitOK, waitExit(t, done))
	assert.Contains(t, f.out.String(), "Script stopped")
	assert.Equal(t, 0, f.k.Sessions())
}

func TestPlainPointerFailure(t *testing.T) {
	p, f := newPlain(t, "", false)
	done := runAsync(p)

	require.Eventually(t, f.k.IsRunning, 2*time.Second, 5*time.Millisecond)
	f.ptr.SetMoveError(errors.New("input injection blocked"))
	f.clk.Advance(4 * time.Minute)

	assert.Equal(t, ExitFailure, waitExit(t, done))
	assert.Contains(t, f.out.String(), "input injection blocked")
}

func TestPlainStartFailure(t *testing.T) {
	p, f := newPlain(t, "", false)
	f.ptr.SetReadError(errors.New("no display"))

	assert.Equal(t, ExitFailure, waitExit(t, runAsync(p)))
	assert.Contains(t, f.out.String(), "no display")
}
