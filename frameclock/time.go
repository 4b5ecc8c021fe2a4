// Package frameclock tracks per-frame timing for a game loop and decides
// how many fixed-rate simulation ticks each frame owes.
//
// The caller measures frame durations itself and hands them to
// AdvanceFrame; nothing in this package reads a clock.
//
//	clock := frameclock.New()
//	for running {
//	    if err := clock.AdvanceFrame(measure()); err != nil {
//	        return err
//	    }
//	    for clock.StepFixedUpdate() {
//	        simulate(clock.FixedTime)
//	    }
//	    render(clock.DeltaTime, clock.Alpha())
//	}
package frameclock

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultFixedTime is one tick at 60 Hz, in nanoseconds.
const DefaultFixedTime uint64 = 16_666_666

// ErrInvalidTimingInput is returned when a frame duration and time scale
// cannot produce a scaled duration in the uint64 nanosecond domain.
var ErrInvalidTimingInput = errors.New("invalid timing input")

// maxScaled is 2^64, the first float64 that no longer fits in a uint64.
const maxScaled = float64(1 << 64)

// Time holds the frame counters. All durations are nanoseconds.
//
// FixedTime and TimeScale may be changed by the caller between frames.
// Time is not safe for concurrent use.
type Time struct {
	// DeltaTime is the last frame duration multiplied by TimeScale.
	DeltaTime uint64
	// DeltaRealTime is the last frame duration as measured.
	DeltaRealTime uint64
	// FixedTime is the length of one fixed update tick.
	FixedTime uint64
	// FrameNumber counts calls to AdvanceFrame.
	FrameNumber uint64
	// AbsoluteTime is the sum of all scaled frame durations.
	AbsoluteTime uint64
	// AbsoluteRealTime is the sum of all unscaled frame durations.
	AbsoluteRealTime uint64
	// TimeScale multiplies frame durations for DeltaTime and AbsoluteTime.
	TimeScale float32
	// FixedTimeAccumulator is unscaled time not yet consumed by a tick.
	FixedTimeAccumulator uint64
}

// New returns a Time ticking at DefaultFixedTime with a TimeScale of 1.
func New() Time {
	return Time{
		FixedTime: DefaultFixedTime,
		TimeScale: 1,
	}
}

// FixedTimeForRate returns the tick length for a rate in ticks per second.
func FixedTimeForRate(hz uint32) uint64 {
	if hz == 0 {
		return 0
	}
	return uint64(time.Second) / uint64(hz)
}

// AdvanceFrame records a frame that lasted frameDuration nanoseconds.
//
// A negative or non-finite TimeScale, or a scaled duration that overflows
// uint64, is rejected with ErrInvalidTimingInput and leaves t untouched.
func (t *Time) AdvanceFrame(frameDuration uint64) error {
	scale := float64(t.TimeScale)
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale < 0 {
		return fmt.Errorf("%w: time scale %v", ErrInvalidTimingInput, t.TimeScale)
	}
	scaled := float64(frameDuration) * scale
	if scaled >= maxScaled {
		return fmt.Errorf("%w: %dns scaled by %v overflows", ErrInvalidTimingInput, frameDuration, t.TimeScale)
	}

	t.DeltaTime = uint64(scaled)
	t.DeltaRealTime = frameDuration
	t.FrameNumber++
	t.AbsoluteTime += t.DeltaTime
	t.AbsoluteRealTime += t.DeltaRealTime
	// Fixed ticks follow real time so TimeScale never changes the cadence.
	t.FixedTimeAccumulator += t.DeltaRealTime
	return nil
}

// AdvanceFrameDuration is AdvanceFrame for callers holding a time.Duration.
func (t *Time) AdvanceFrameDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: negative frame duration %v", ErrInvalidTimingInput, d)
	}
	return t.AdvanceFrame(uint64(d))
}

// StepFixedUpdate consumes one tick from the accumulator and reports
// whether it did. Call it in a loop after AdvanceFrame until it returns
// false. A zero FixedTime never ticks.
func (t *Time) StepFixedUpdate() bool {
	if t.FixedTime == 0 || t.FixedTimeAccumulator < t.FixedTime {
		return false
	}
	t.FixedTimeAccumulator -= t.FixedTime
	return true
}

// Alpha is how far the accumulator is into the next tick, in [0, 1) once
// all ticks are drained. Renderers use it to interpolate between states.
func (t *Time) Alpha() float64 {
	if t.FixedTime == 0 {
		return 0
	}
	return float64(t.FixedTimeAccumulator) / float64(t.FixedTime)
}

func (t *Time) Delta() time.Duration {
	return time.Duration(t.DeltaTime)
}

func (t *Time) RealDelta() time.Duration {
	return time.Duration(t.DeltaRealTime)
}
