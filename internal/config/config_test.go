package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cellumetrics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingDefaultFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
window:
  width: 128
simulation:
  tick_rate: 60
  time_scale: 0.5
log:
  level: debug
  file: /tmp/cellumetrics.log
metrics:
  addr: ":9105"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 128, cfg.Window.Width)
	require.Equal(t, defaultHeight, cfg.Window.Height)
	require.Equal(t, uint32(60), cfg.Simulation.TickRate)
	require.Equal(t, float32(0.5), cfg.Simulation.TimeScale)
	require.Equal(t, defaultParticles, cfg.Simulation.Particles)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "/tmp/cellumetrics.log", cfg.Log.File)
	require.Equal(t, ":9105", cfg.Metrics.Addr)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeFile(t, "window: [")

	_, err := Load(path)
	require.ErrorContains(t, err, "failed to parse")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero tick rate", func(c *Config) { c.Simulation.TickRate = 0 }, "tick_rate"},
		{"negative time scale", func(c *Config) { c.Simulation.TimeScale = -1 }, "time_scale"},
		{"bad window", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"bad scale", func(c *Config) { c.Window.Scale = 0 }, "window scale"},
		{"negative rate", func(c *Config) { c.Simulation.NegativeRate = 2 }, "negative_rate"},
		{"workers", func(c *Config) { c.Simulation.Workers = 0 }, "workers"},
		{"max spans", func(c *Config) { c.Simulation.MaxSpans = 1 }, "max_spans"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			require.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}
