package monitor

import (
	"errors"
	"fmt"
	"time"

	"github.com/stigoleg/idle-nudge/internal/pointer"
)

// Timing parameters.
const (
	CheckIntervalMin = 1 * time.Minute
	CheckIntervalMax = 2 * time.Minute

	IdleThresholdMin = 2 * time.Minute
	IdleThresholdMax = 4 * time.Minute

	// DefaultMaxInactive is the budget ceiling: a five minute away timeout
	// minus a ten second safety margin.
	DefaultMaxInactive = 5*time.Minute - 10*time.Second

	// MinIdleMinutes is the smallest operator-supplied idle budget.
	MinIdleMinutes = 2

	// ReservedPollInterval is carved out of an operator-supplied budget for polling.
	ReservedPollInterval = 1 * time.Minute
)

// Offset parameters.
const (
	SubtleOffsetMax = 10

	PronouncedOffsetMin = 50
	PronouncedOffsetMax = 100
)

// ErrBudgetTooSmall is returned when a budget ceiling leaves no idle time
// after the longest check interval.
var ErrBudgetTooSmall = errors.New("max inactive time must exceed the longest check interval")

// Rand is the source of randomness for timing and offsets. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Timing is one roll of the monitor's polling cadence and idle budget.
type Timing struct {
	CheckInterval time.Duration
	IdleThreshold time.Duration
}

func (t Timing) String() string {
	return fmt.Sprintf("check=%s idle=%s", t.CheckInterval, t.IdleThreshold)
}

// TimingPolicy produces the timing for the next idle budget.
type TimingPolicy interface {
	Roll(r Rand) Timing
	Name() string
}

// uniformDuration draws from [min, max).
func uniformDuration(r Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(r.Float64()*float64(max-min))
}

// RandomTiming draws the check interval and idle threshold independently.
type RandomTiming struct{}

func (RandomTiming) Roll(r Rand) Timing {
	return Timing{
		CheckInterval: uniformDuration(r, CheckIntervalMin, CheckIntervalMax),
		IdleThreshold: uniformDuration(r, IdleThresholdMin, IdleThresholdMax),
	}
}

func (RandomTiming) Name() string { return "random" }

// BudgetTiming keeps CheckInterval + IdleThreshold equal to a fixed ceiling so a
// nudge always lands before the ceiling expires, whatever the poll phase.
type BudgetTiming struct {
	ceiling time.Duration
}

// NewBudgetTiming validates the ceiling against the longest check interval.
func NewBudgetTiming(ceiling time.Duration) (BudgetTiming, error) {
	if ceiling <= CheckIntervalMax {
		return BudgetTiming{}, fmt.Errorf("%w: got %s, need more than %s", ErrBudgetTooSmall, ceiling, CheckIntervalMax)
	}
	return BudgetTiming{ceiling: ceiling}, nil
}

// Ceiling returns the fixed sum of check interval and idle threshold.
func (b BudgetTiming) Ceiling() time.Duration {
	return b.ceiling
}

func (b BudgetTiming) Roll(r Rand) Timing {
	check := uniformDuration(r, CheckIntervalMin, CheckIntervalMax)
	return Timing{
		CheckInterval: check,
		IdleThreshold: b.ceiling - check,
	}
}

func (BudgetTiming) Name() string { return "budget" }

// FixedTiming never changes. It backs the operator-configured mode.
type FixedTiming struct {
	Timing Timing
}

// FixedTimingFromMinutes splits an operator budget of minutes into a fixed
// one minute poll and the remaining idle threshold. It does not validate.
func FixedTimingFromMinutes(minutes int) FixedTiming {
	total := time.Duration(minutes) * time.Minute
	return FixedTiming{Timing: Timing{
		CheckInterval: ReservedPollInterval,
		IdleThreshold: total - ReservedPollInterval,
	}}
}

func (f FixedTiming) Roll(Rand) Timing { return f.Timing }

func (FixedTiming) Name() string { return "interactive" }

// OffsetPolicy draws the displacement used by the next nudge.
type OffsetPolicy interface {
	Draw(r Rand) pointer.Offset
	Contains(o pointer.Offset) bool
	Name() string
}

// SubtleOffsets moves each axis by a value in [-10, 10].
type SubtleOffsets struct{}

func (SubtleOffsets) Draw(r Rand) pointer.Offset {
	return pointer.Offset{
		DX: r.Intn(2*SubtleOffsetMax+1) - SubtleOffsetMax,
		DY: r.Intn(2*SubtleOffsetMax+1) - SubtleOffsetMax,
	}
}

func (SubtleOffsets) Contains(o pointer.Offset) bool {
	return within(o.DX, -SubtleOffsetMax, SubtleOffsetMax) && within(o.DY, -SubtleOffsetMax, SubtleOffsetMax)
}

func (SubtleOffsets) Name() string { return "subtle" }

// PronouncedOffsets moves each axis by 50 to 100 pixels in a random direction.
type PronouncedOffsets struct{}

func (PronouncedOffsets) Draw(r Rand) pointer.Offset {
	return pointer.Offset{
		DX: pronouncedAxis(r),
		DY: pronouncedAxis(r),
	}
}

func pronouncedAxis(r Rand) int {
	magnitude := PronouncedOffsetMin + r.Intn(PronouncedOffsetMax-PronouncedOffsetMin+1)
	if r.Intn(2) == 0 {
		return -magnitude
	}
	return magnitude
}

func (PronouncedOffsets) Contains(o pointer.Offset) bool {
	return within(abs(o.DX), PronouncedOffsetMin, PronouncedOffsetMax) &&
		within(abs(o.DY), PronouncedOffsetMin, PronouncedOffsetMax)
}

func (PronouncedOffsets) Name() string { return "pronounced" }

func within(v, lo, hi int) bool {
	return v >= lo && v <= hi
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
