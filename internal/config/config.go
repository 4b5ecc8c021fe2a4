// Package config loads the optional cellumetrics.yaml used by the demo.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is looked up in the working directory when no path is given.
const FileName = "cellumetrics.yaml"

type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Simulation SimulationConfig `yaml:"simulation"`
	Log        LogConfig        `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Scale  int    `yaml:"scale"`
	Title  string `yaml:"title,omitempty"`
}

type SimulationConfig struct {
	Particles int `yaml:"particles"`
	// TickRate is the fixed simulation rate in ticks per second.
	TickRate  uint32  `yaml:"tick_rate"`
	TimeScale float32 `yaml:"time_scale"`
	// NegativeRate is the share of particles with negative charge.
	NegativeRate  float64 `yaml:"negative_rate"`
	Emission      float64 `yaml:"emission"`
	CenterGravity float64 `yaml:"center_gravity"`
	Retainment    float64 `yaml:"retainment"`
	Decay         float64 `yaml:"decay"`
	Workers       int     `yaml:"workers"`
	// MaxSpans bounds the pause stopwatch history.
	MaxSpans int `yaml:"max_spans"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// File enables rotated file output in addition to stderr.
	File        string `yaml:"file,omitempty"`
	MaxSizeMB   int    `yaml:"max_size_mb"`
	Development bool   `yaml:"development"`
}

type MetricsConfig struct {
	// Addr serves /metrics when non-empty, e.g. ":9105".
	Addr string `yaml:"addr,omitempty"`
}

// Load reads path, or FileName when path is empty. A missing default file
// yields Default(); a missing explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.Scale <= 0 {
		errs = append(errs, fmt.Errorf("window scale %d must be positive", c.Window.Scale))
	}
	if c.Simulation.Particles < 0 {
		errs = append(errs, fmt.Errorf("particles %d must not be negative", c.Simulation.Particles))
	}
	if c.Simulation.TickRate == 0 {
		errs = append(errs, errors.New("tick_rate must be positive"))
	}
	scale := float64(c.Simulation.TimeScale)
	if scale < 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		errs = append(errs, fmt.Errorf("time_scale %v must be a finite non-negative number", c.Simulation.TimeScale))
	}
	if c.Simulation.NegativeRate < 0 || c.Simulation.NegativeRate > 1 {
		errs = append(errs, fmt.Errorf("negative_rate %v must be within [0, 1]", c.Simulation.NegativeRate))
	}
	if c.Simulation.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers %d must be positive", c.Simulation.Workers))
	}
	// A split needs room for the closed span and the new open one.
	if c.Simulation.MaxSpans < 0 || c.Simulation.MaxSpans == 1 {
		errs = append(errs, fmt.Errorf("max_spans %d must be 0 (unbounded) or at least 2", c.Simulation.MaxSpans))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	return errors.Join(errs...)
}
