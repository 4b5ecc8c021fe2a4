package stopwatch

import "fmt"

// Instant is a point on a caller-chosen monotonic timeline, in nanoseconds.
type Instant uint64

// TimeSpan is one start/stop interval. A span is either open (started,
// not yet stopped) or closed; use Open and Closed to build one.
type TimeSpan struct {
	Start Instant
	// Stop is only meaningful when the span is closed.
	Stop   Instant
	closed bool
}

// Open returns a span started at start with no stop yet.
func Open(start Instant) TimeSpan {
	return TimeSpan{Start: start}
}

// Closed returns a span covering [start, stop].
func Closed(start, stop Instant) TimeSpan {
	return TimeSpan{Start: start, Stop: stop, closed: true}
}

func (s TimeSpan) IsOpen() bool {
	return !s.closed
}

// Elapsed is Stop-Start for a closed span and 0 for an open one.
func (s TimeSpan) Elapsed() uint64 {
	if !s.closed {
		return 0
	}
	return uint64(s.Stop - s.Start)
}

func (s TimeSpan) String() string {
	if !s.closed {
		return fmt.Sprintf("[%d, open)", s.Start)
	}
	return fmt.Sprintf("[%d, %d]", s.Start, s.Stop)
}
