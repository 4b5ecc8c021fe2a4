package config

// Defaults are tuned for the original 144 Hz simulation step.
const (
	defaultWidth  = 256
	defaultHeight = 256
	defaultScale  = 4
	defaultTitle  = "Cellumetrics"

	defaultParticles     = 6000
	defaultTickRate      = 144
	defaultTimeScale     = 1.0
	defaultNegativeRate  = 0.5
	defaultEmission      = 15
	defaultCenterGravity = 0.1
	defaultRetainment    = 1
	defaultDecay         = 1
	defaultWorkers       = 8
	defaultMaxSpans      = 4096

	defaultLogLevel   = "info"
	defaultLogMaxSize = 10
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  defaultWidth,
			Height: defaultHeight,
			Scale:  defaultScale,
			Title:  defaultTitle,
		},
		Simulation: SimulationConfig{
			Particles:     defaultParticles,
			TickRate:      defaultTickRate,
			TimeScale:     defaultTimeScale,
			NegativeRate:  defaultNegativeRate,
			Emission:      defaultEmission,
			CenterGravity: defaultCenterGravity,
			Retainment:    defaultRetainment,
			Decay:         defaultDecay,
			Workers:       defaultWorkers,
			MaxSpans:      defaultMaxSpans,
		},
		Log: LogConfig{
			Level:     defaultLogLevel,
			MaxSizeMB: defaultLogMaxSize,
		},
	}
}
