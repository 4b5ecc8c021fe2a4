// Package metrics exposes frame clock and stopwatch snapshots to
// Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AirborneDetergent/cellumetrics/frameclock"
)

// Snapshot is a point-in-time copy of the timing state. It is produced by
// whoever owns the clock and stopwatch, under their own locking.
type Snapshot struct {
	Clock      frameclock.Time
	FixedTicks uint64
	// Elapsed is the stopwatch total in nanoseconds.
	Elapsed uint64
	Running bool
	Spans   int
}

type fetchFn func() Snapshot

type collector struct {
	fetch fetchFn

	frames       *prometheus.Desc
	fixedTicks   *prometheus.Desc
	absoluteTime *prometheus.Desc
	realTime     *prometheus.Desc
	frameSeconds *prometheus.Desc
	timeScale    *prometheus.Desc
	elapsed      *prometheus.Desc
	running      *prometheus.Desc
	spans        *prometheus.Desc
}

func NewCollector(fetch func() Snapshot) prometheus.Collector {
	return &collector{
		fetch: fetch,
		frames: prometheus.NewDesc(
			"cellumetrics_frames_total",
			"Frames advanced by the frame clock.",
			nil, nil,
		),
		fixedTicks: prometheus.NewDesc(
			"cellumetrics_fixed_ticks_total",
			"Fixed simulation ticks consumed.",
			nil, nil,
		),
		absoluteTime: prometheus.NewDesc(
			"cellumetrics_scaled_time_seconds",
			"Sum of scaled frame durations.",
			nil, nil,
		),
		realTime: prometheus.NewDesc(
			"cellumetrics_real_time_seconds",
			"Sum of unscaled frame durations.",
			nil, nil,
		),
		frameSeconds: prometheus.NewDesc(
			"cellumetrics_frame_duration_seconds",
			"Unscaled duration of the most recent frame.",
			nil, nil,
		),
		timeScale: prometheus.NewDesc(
			"cellumetrics_time_scale",
			"Current time scale multiplier.",
			nil, nil,
		),
		elapsed: prometheus.NewDesc(
			"cellumetrics_stopwatch_elapsed_seconds",
			"Closed stopwatch spans, summed.",
			nil, nil,
		),
		running: prometheus.NewDesc(
			"cellumetrics_stopwatch_running",
			"1 if the stopwatch has an open span, otherwise 0.",
			nil, nil,
		),
		spans: prometheus.NewDesc(
			"cellumetrics_stopwatch_spans",
			"Spans held by the stopwatch.",
			nil, nil,
		),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.frames
	ch <- c.fixedTicks
	ch <- c.absoluteTime
	ch <- c.realTime
	ch <- c.frameSeconds
	ch <- c.timeScale
	ch <- c.elapsed
	ch <- c.running
	ch <- c.spans
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	s := c.fetch()
	ch <- prometheus.MustNewConstMetric(c.frames, prometheus.CounterValue, float64(s.Clock.FrameNumber))
	ch <- prometheus.MustNewConstMetric(c.fixedTicks, prometheus.CounterValue, float64(s.FixedTicks))
	ch <- prometheus.MustNewConstMetric(c.absoluteTime, prometheus.CounterValue, seconds(s.Clock.AbsoluteTime))
	ch <- prometheus.MustNewConstMetric(c.realTime, prometheus.CounterValue, seconds(s.Clock.AbsoluteRealTime))
	ch <- prometheus.MustNewConstMetric(c.frameSeconds, prometheus.GaugeValue, seconds(s.Clock.DeltaRealTime))
	ch <- prometheus.MustNewConstMetric(c.timeScale, prometheus.GaugeValue, float64(s.Clock.TimeScale))
	ch <- prometheus.MustNewConstMetric(c.elapsed, prometheus.GaugeValue, seconds(s.Elapsed))
	var running float64
	if s.Running {
		running = 1
	}
	ch <- prometheus.MustNewConstMetric(c.running, prometheus.GaugeValue, running)
	ch <- prometheus.MustNewConstMetric(c.spans, prometheus.GaugeValue, float64(s.Spans))
}

func seconds(ns uint64) float64 {
	return float64(ns) / 1e9
}
