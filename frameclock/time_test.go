package frameclock

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(clock *Time) int {
	ticks := 0
	for clock.StepFixedUpdate() {
		ticks++
	}
	return ticks
}

func TestNewDefaults(t *testing.T) {
	clock := New()

	require.Equal(t, DefaultFixedTime, clock.FixedTime)
	require.Equal(t, float32(1), clock.TimeScale)
	require.Zero(t, clock.FrameNumber)
	require.Zero(t, clock.AbsoluteTime)
	require.Zero(t, clock.AbsoluteRealTime)
	require.Zero(t, clock.FixedTimeAccumulator)
}

func TestAdvanceFrame(t *testing.T) {
	clock := New()
	clock.TimeScale = 0.5

	require.NoError(t, clock.AdvanceFrame(1000))

	assert.Equal(t, uint64(500), clock.DeltaTime)
	assert.Equal(t, uint64(1000), clock.DeltaRealTime)
	assert.Equal(t, uint64(1), clock.FrameNumber)
	assert.Equal(t, uint64(500), clock.AbsoluteTime)
	assert.Equal(t, uint64(1000), clock.AbsoluteRealTime)
	assert.Equal(t, uint64(1000), clock.FixedTimeAccumulator)
}

func TestAdvanceFrameTruncatesScaledDelta(t *testing.T) {
	clock := New()
	clock.TimeScale = 0.5

	require.NoError(t, clock.AdvanceFrame(7))
	require.Equal(t, uint64(3), clock.DeltaTime)
}

func TestFixedTickConservation(t *testing.T) {
	clock := New()
	clock.FixedTime = uint64(time.Second) / 120

	ticks := 0
	for i := 0; i < 60; i++ {
		require.NoError(t, clock.AdvanceFrame(uint64(time.Second)/60))
		ticks += drain(&clock)
		require.Less(t, clock.FixedTimeAccumulator, clock.FixedTime)
	}

	require.Equal(t, 120, ticks)
}

func TestFixedTicksIndependentOfFrameSplit(t *testing.T) {
	const fixed = 1_000_000
	splits := [][]uint64{
		{10_500_000},
		{5_250_000, 5_250_000},
		{999_999, 1, 3_000_000, 6_500_000},
		{100, 200, 10_499_700},
	}

	for _, frames := range splits {
		clock := New()
		clock.FixedTime = fixed

		var total uint64
		ticks := 0
		for _, d := range frames {
			require.NoError(t, clock.AdvanceFrame(d))
			total += d
			ticks += drain(&clock)
		}
		assert.Equal(t, int(total/fixed), ticks, "frames %v", frames)
		assert.Equal(t, total%fixed, clock.FixedTimeAccumulator, "frames %v", frames)
	}
}

func TestFixedTicksIndependentOfTimeScale(t *testing.T) {
	for _, scale := range []float32{0, 0.25, 1, 3.5, 100} {
		clock := New()
		clock.FixedTime = uint64(time.Second) / 120
		clock.TimeScale = scale

		ticks := 0
		for i := 0; i < 60; i++ {
			require.NoError(t, clock.AdvanceFrame(uint64(time.Second)/60))
			ticks += drain(&clock)
		}
		assert.Equal(t, 120, ticks, "scale %v", scale)
	}
}

func TestScaledAccumulation(t *testing.T) {
	const (
		n = 250
		d = uint64(16_666_667)
	)
	scale := float32(1.75)

	clock := New()
	clock.TimeScale = scale
	for i := 0; i < n; i++ {
		require.NoError(t, clock.AdvanceFrame(d))
	}

	perFrame := uint64(float64(d) * float64(scale))
	require.Equal(t, perFrame*n, clock.AbsoluteTime)
	require.Equal(t, d*n, clock.AbsoluteRealTime)
	require.Equal(t, uint64(n), clock.FrameNumber)
}

func TestStepFixedUpdateMultipleTicksPerFrame(t *testing.T) {
	clock := New()
	clock.FixedTime = 10

	require.NoError(t, clock.AdvanceFrame(35))
	require.Equal(t, 3, drain(&clock))
	require.Equal(t, uint64(5), clock.FixedTimeAccumulator)

	require.NoError(t, clock.AdvanceFrame(4))
	require.Equal(t, 0, drain(&clock))
	require.Equal(t, uint64(9), clock.FixedTimeAccumulator)

	require.NoError(t, clock.AdvanceFrame(1))
	require.Equal(t, 1, drain(&clock))
	require.Zero(t, clock.FixedTimeAccumulator)
}

func TestStepFixedUpdateZeroFixedTime(t *testing.T) {
	var clock Time
	require.NoError(t, clock.AdvanceFrame(100))
	require.False(t, clock.StepFixedUpdate())
	require.Equal(t, uint64(100), clock.FixedTimeAccumulator)
	require.Zero(t, clock.Alpha())
}

func TestAdvanceFrameRejectsInvalidScale(t *testing.T) {
	tests := []struct {
		name     string
		scale    float32
		duration uint64
	}{
		{"negative", -1, 10},
		{"nan", float32(math.NaN()), 10},
		{"inf", float32(math.Inf(1)), 10},
		{"overflow", 2, math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := New()
			clock.TimeScale = tt.scale
			before := clock

			err := clock.AdvanceFrame(tt.duration)
			require.ErrorIs(t, err, ErrInvalidTimingInput)
			require.Equal(t, before.FrameNumber, clock.FrameNumber)
			require.Equal(t, before.FixedTimeAccumulator, clock.FixedTimeAccumulator)
			require.Equal(t, before.AbsoluteRealTime, clock.AbsoluteRealTime)
		})
	}
}

func TestAdvanceFrameDuration(t *testing.T) {
	clock := New()

	require.NoError(t, clock.AdvanceFrameDuration(20*time.Millisecond))
	require.Equal(t, 20*time.Millisecond, clock.Delta())
	require.Equal(t, 20*time.Millisecond, clock.RealDelta())

	err := clock.AdvanceFrameDuration(-time.Millisecond)
	require.ErrorIs(t, err, ErrInvalidTimingInput)
	require.Equal(t, uint64(1), clock.FrameNumber)
}

func TestAlpha(t *testing.T) {
	clock := New()
	clock.FixedTime = 100

	require.NoError(t, clock.AdvanceFrame(250))
	drain(&clock)
	require.InDelta(t, 0.5, clock.Alpha(), 1e-9)
}

func TestFixedTimeForRate(t *testing.T) {
	require.Equal(t, uint64(16_666_666), FixedTimeForRate(60))
	require.Equal(t, uint64(6_944_444), FixedTimeForRate(144))
	require.Zero(t, FixedTimeForRate(0))
}
