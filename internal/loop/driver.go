// Package loop runs the per-frame bookkeeping of the demo: it advances the
// frame clock, runs one simulation step per fixed tick and keeps a
// stopwatch of the time the simulation was left running.
package loop

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/AirborneDetergent/cellumetrics/frameclock"
	"github.com/AirborneDetergent/cellumetrics/internal/metrics"
	"github.com/AirborneDetergent/cellumetrics/stopwatch"
)

// hueTurnsPerSecond is how fast the palette drifts at TimeScale 1.
const hueTurnsPerSecond = 0.05

const (
	minTimeScale = 0.125
	maxTimeScale = 8
)

// Driver owns a frame clock and a run stopwatch. Frame and the control
// methods must be called from one goroutine; Snapshot may be called from
// any goroutine.
type Driver struct {
	clock frameclock.Time
	run   *stopwatch.Stopwatch
	step  func()
	log   *zap.Logger

	ticks uint64
	hue   float64

	mu   sync.Mutex
	snap metrics.Snapshot
}

type Options struct {
	TickRate  uint32
	TimeScale float32
	// MaxSpans bounds the run history; 0 keeps everything.
	MaxSpans int
}

// New returns a running driver whose run stopwatch starts at now.
func New(opts Options, step func(), now stopwatch.Instant, logger *zap.Logger) (*Driver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Driver{
		clock: frameclock.New(),
		run:   stopwatch.New(stopwatch.WithMaxSpans(opts.MaxSpans)),
		step:  step,
		log:   logger,
	}
	d.clock.FixedTime = frameclock.FixedTimeForRate(opts.TickRate)
	d.clock.TimeScale = opts.TimeScale
	if _, err := d.run.Start(now); err != nil {
		return nil, err
	}
	d.publish()
	return d, nil
}

// Frame records a frame of frameDuration nanoseconds and runs every fixed
// tick it owes. While paused the ticks are drained but not simulated. It
// returns the number of ticks simulated.
func (d *Driver) Frame(frameDuration uint64) (int, error) {
	if err := d.clock.AdvanceFrame(frameDuration); err != nil {
		return 0, fmt.Errorf("frame %d: %w", d.clock.FrameNumber+1, err)
	}

	running := d.run.IsRunning()
	stepped := 0
	for d.clock.StepFixedUpdate() {
		if !running {
			continue
		}
		d.step()
		d.ticks++
		stepped++
	}

	d.hue += float64(d.clock.DeltaTime) / 1e9 * hueTurnsPerSecond
	if d.hue >= 1 {
		d.hue -= float64(int(d.hue))
	}
	d.publish()
	return stepped, nil
}

func (d *Driver) Paused() bool {
	return !d.run.IsRunning()
}

// TogglePause stops the run stopwatch if it is running and starts it
// otherwise.
func (d *Driver) TogglePause(now stopwatch.Instant) error {
	if d.run.IsRunning() {
		span, err := d.run.Stop(now)
		if err != nil {
			return err
		}
		d.log.Info("paused", zap.Stringer("span", span), zap.Uint64("elapsed_ns", d.run.Elapsed()))
	} else {
		if err := d.start(now); err != nil {
			return err
		}
		d.log.Info("resumed", zap.Int("spans", d.run.Len()))
	}
	d.publish()
	return nil
}

// Lap splits the running span at now and returns the span it closed.
// It returns nil while paused.
func (d *Driver) Lap(now stopwatch.Instant) (*stopwatch.TimeSpan, error) {
	if !d.run.IsRunning() {
		return nil, nil
	}
	prev := d.run.Spans()
	split, err := d.run.Start(now)
	if errors.Is(err, stopwatch.ErrStorageExhausted) {
		// Keep timing with a fresh history rather than refusing the lap.
		d.log.Warn("run history full, resetting", zap.Int("spans", len(prev)))
		d.run.Reset()
		last := prev[len(prev)-1]
		_, err = d.run.Start(last.Start)
		if err == nil {
			split, err = d.run.Start(now)
		}
	}
	if err != nil {
		return nil, err
	}
	d.log.Info("lap", zap.Stringer("span", split), zap.Uint64("lap_ns", split.Elapsed()))
	d.publish()
	return split, nil
}

// ResetLaps clears the run history. A running driver keeps running from
// now.
func (d *Driver) ResetLaps(now stopwatch.Instant) error {
	running := d.run.IsRunning()
	d.run.Reset()
	if running {
		if err := d.start(now); err != nil {
			return err
		}
	}
	d.log.Info("run history reset")
	d.publish()
	return nil
}

func (d *Driver) start(now stopwatch.Instant) error {
	_, err := d.run.Start(now)
	if errors.Is(err, stopwatch.ErrStorageExhausted) {
		d.log.Warn("run history full, resetting", zap.Int("spans", d.run.Len()))
		d.run.Reset()
		_, err = d.run.Start(now)
	}
	return err
}

// ScaleTime multiplies the time scale by f, clamped to a sane range.
func (d *Driver) ScaleTime(f float32) {
	s := d.clock.TimeScale * f
	if s < minTimeScale {
		s = minTimeScale
	}
	if s > maxTimeScale {
		s = maxTimeScale
	}
	d.clock.TimeScale = s
	d.publish()
}

// Hue is the palette rotation in turns, driven by scaled time.
func (d *Driver) Hue() float64 {
	return d.hue
}

func (d *Driver) Alpha() float64 {
	return d.clock.Alpha()
}

// Elapsed is the run time including the open span up to now.
func (d *Driver) Elapsed(now stopwatch.Instant) (uint64, error) {
	return d.run.ElapsedAt(now)
}

func (d *Driver) publish() {
	d.mu.Lock()
	d.snap = metrics.Snapshot{
		Clock:      d.clock,
		FixedTicks: d.ticks,
		Elapsed:    d.run.Elapsed(),
		Running:    d.run.IsRunning(),
		Spans:      d.run.Len(),
	}
	d.mu.Unlock()
}

// Snapshot returns the state as of the last frame or control call.
func (d *Driver) Snapshot() metrics.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snap
}
