// Package walltime is the one place the demo reads a real clock. It turns
// monotonic wall time into the frame durations and instants that
// frameclock and stopwatch expect.
package walltime

import (
	"time"

	"github.com/AirborneDetergent/cellumetrics/stopwatch"
)

type Timer struct {
	origin time.Time
	last   time.Duration
	now    func() time.Time
}

// NewTimer starts a timer at the current time.
func NewTimer() *Timer {
	return newTimer(time.Now)
}

func newTimer(now func() time.Time) *Timer {
	return &Timer{origin: now(), now: now}
}

func (t *Timer) since() time.Duration {
	// Sub on values from time.Now uses the monotonic reading.
	d := t.now().Sub(t.origin)
	if d < t.last {
		return t.last
	}
	return d
}

// Tick returns the time since the previous Tick, or since the timer was
// created for the first call.
func (t *Timer) Tick() uint64 {
	cur := t.since()
	elapsed := cur - t.last
	t.last = cur
	return uint64(elapsed)
}

// Now returns the current instant relative to the timer's creation.
func (t *Timer) Now() stopwatch.Instant {
	return stopwatch.Instant(t.since())
}
