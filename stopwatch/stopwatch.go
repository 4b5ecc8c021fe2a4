// Package stopwatch records a sequence of start/stop intervals and sums
// their durations.
//
// Instants are supplied by the caller, so a Stopwatch never reads a clock
// and can be driven with literal values in tests. Starting a running
// stopwatch closes the current span and opens a new one (a split).
package stopwatch

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageExhausted is returned when a new span would exceed the
	// limit set with WithMaxSpans.
	ErrStorageExhausted = errors.New("stopwatch span storage exhausted")
	// ErrSpanReversed is returned when a span would stop before it started.
	ErrSpanReversed = errors.New("span stop precedes start")
)

// Stopwatch holds spans in chronological order. Only the last span may be
// open; the stopwatch is running exactly when it is.
//
// The zero value is an idle, unbounded stopwatch. A Stopwatch is not safe
// for concurrent use.
type Stopwatch struct {
	spans    []TimeSpan
	maxSpans int
}

type Option func(*Stopwatch)

// WithCapacity preallocates room for n spans.
func WithCapacity(n int) Option {
	return func(s *Stopwatch) {
		if n > 0 {
			s.spans = make([]TimeSpan, 0, n)
		}
	}
}

// WithMaxSpans caps the number of spans held. Zero means unbounded.
func WithMaxSpans(n int) Option {
	return func(s *Stopwatch) {
		if n > 0 {
			s.maxSpans = n
		}
	}
}

func New(opts ...Option) *Stopwatch {
	s := &Stopwatch{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens a new span at now. If the stopwatch was running, the current
// span is closed at now first and a copy of it is returned; otherwise the
// returned span is nil. On error the stopwatch is unchanged.
func (s *Stopwatch) Start(now Instant) (*TimeSpan, error) {
	if s.maxSpans > 0 && len(s.spans) >= s.maxSpans {
		return nil, fmt.Errorf("start at %d: %w (limit %d)", now, ErrStorageExhausted, s.maxSpans)
	}

	var split *TimeSpan
	if s.IsRunning() {
		closed, err := s.closeLast(now)
		if err != nil {
			return nil, fmt.Errorf("start at %d: %w", now, err)
		}
		split = &closed
	}
	s.spans = append(s.spans, Open(now))
	return split, nil
}

// Stop closes the running span at now and returns a copy of it. Stopping
// an idle stopwatch does nothing and returns nil.
func (s *Stopwatch) Stop(now Instant) (*TimeSpan, error) {
	if !s.IsRunning() {
		return nil, nil
	}
	closed, err := s.closeLast(now)
	if err != nil {
		return nil, fmt.Errorf("stop at %d: %w", now, err)
	}
	return &closed, nil
}

func (s *Stopwatch) closeLast(now Instant) (TimeSpan, error) {
	last := &s.spans[len(s.spans)-1]
	if now < last.Start {
		return TimeSpan{}, fmt.Errorf("%w: %d < %d", ErrSpanReversed, now, last.Start)
	}
	*last = Closed(last.Start, now)
	return *last, nil
}

func (s *Stopwatch) IsRunning() bool {
	return len(s.spans) > 0 && s.spans[len(s.spans)-1].IsOpen()
}

// Elapsed sums closed spans. Time in the running span is not counted
// until it is stopped; see ElapsedAt.
func (s *Stopwatch) Elapsed() uint64 {
	var total uint64
	for _, span := range s.spans {
		total += span.Elapsed()
	}
	return total
}

// ElapsedAt is Elapsed plus the running span measured up to now.
func (s *Stopwatch) ElapsedAt(now Instant) (uint64, error) {
	total := s.Elapsed()
	if !s.IsRunning() {
		return total, nil
	}
	start := s.spans[len(s.spans)-1].Start
	if now < start {
		return 0, fmt.Errorf("elapsed at %d: %w: %d < %d", now, ErrSpanReversed, now, start)
	}
	return total + uint64(now-start), nil
}

// Spans returns a copy of the recorded spans, oldest first.
func (s *Stopwatch) Spans() []TimeSpan {
	out := make([]TimeSpan, len(s.spans))
	copy(out, s.spans)
	return out
}

func (s *Stopwatch) Len() int {
	return len(s.spans)
}

// Reset drops every span, leaving the stopwatch idle with nothing elapsed.
// Allocated capacity is kept.
func (s *Stopwatch) Reset() {
	s.spans = s.spans[:0]
}
