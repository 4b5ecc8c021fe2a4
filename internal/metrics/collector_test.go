package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/AirborneDetergent/cellumetrics/frameclock"
)

func snapshot() Snapshot {
	clock := frameclock.New()
	clock.TimeScale = 2
	for i := 0; i < 3; i++ {
		_ = clock.AdvanceFrame(500_000_000)
	}
	return Snapshot{
		Clock:      clock,
		FixedTicks: 90,
		Elapsed:    1_500_000_000,
		Running:    true,
		Spans:      2,
	}
}

func TestCollectorCount(t *testing.T) {
	c := NewCollector(snapshot)
	require.Equal(t, 9, testutil.CollectAndCount(c))
}

func TestCollectorValues(t *testing.T) {
	c := NewCollector(snapshot)

	expected := `
# HELP cellumetrics_frames_total Frames advanced by the frame clock.
# TYPE cellumetrics_frames_total counter
cellumetrics_frames_total 3
# HELP cellumetrics_real_time_seconds Sum of unscaled frame durations.
# TYPE cellumetrics_real_time_seconds counter
cellumetrics_real_time_seconds 1.5
# HELP cellumetrics_scaled_time_seconds Sum of scaled frame durations.
# TYPE cellumetrics_scaled_time_seconds counter
cellumetrics_scaled_time_seconds 3
# HELP cellumetrics_stopwatch_running 1 if the stopwatch has an open span, otherwise 0.
# TYPE cellumetrics_stopwatch_running gauge
cellumetrics_stopwatch_running 1
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"cellumetrics_frames_total",
		"cellumetrics_real_time_seconds",
		"cellumetrics_scaled_time_seconds",
		"cellumetrics_stopwatch_running",
	)
	require.NoError(t, err)
}

func TestHandler(t *testing.T) {
	h, err := Handler(NewCollector(snapshot))
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "cellumetrics_stopwatch_spans 2")
	require.Contains(t, string(body), "cellumetrics_fixed_ticks_total 90")
}
