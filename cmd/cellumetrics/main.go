// Command cellumetrics runs the charged particle toy with a fixed-rate
// simulation step.
//
// Keys: Space pauses, L records a lap, Backspace clears laps, Up/Down
// change the time scale, F3 toggles the overlay, Escape quits.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AirborneDetergent/cellumetrics/internal/config"
	"github.com/AirborneDetergent/cellumetrics/internal/logging"
	"github.com/AirborneDetergent/cellumetrics/internal/metrics"
)

type flags struct {
	configPath  string
	tickRate    uint32
	timeScale   float32
	particles   int
	metricsAddr string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:           "cellumetrics",
		Short:         "Charged particle toy driven by a fixed-step frame clock",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "config file (default ./"+config.FileName+" if present)")
	cmd.Flags().Uint32Var(&f.tickRate, "tick-rate", 0, "fixed simulation ticks per second")
	cmd.Flags().Float32Var(&f.timeScale, "time-scale", 0, "initial time scale")
	cmd.Flags().IntVar(&f.particles, "particles", 0, "particle count")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	return cmd
}

// loadConfig applies flags the user set on top of the config file.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	set := cmd.Flags().Changed
	if set("tick-rate") {
		cfg.Simulation.TickRate = f.tickRate
	}
	if set("time-scale") {
		cfg.Simulation.TimeScale = f.timeScale
	}
	if set("particles") {
		cfg.Simulation.Particles = f.particles
	}
	if set("metrics-addr") {
		cfg.Metrics.Addr = f.metricsAddr
	}
	if set("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	game, err := newGame(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, metrics.NewCollector(game.driver.Snapshot), logger); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	logger.Info("starting",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Uint32("tick_rate", cfg.Simulation.TickRate),
		zap.Float32("time_scale", cfg.Simulation.TimeScale),
		zap.Int("particles", cfg.Simulation.Particles),
	)

	ebiten.SetWindowSize(cfg.Window.Width*cfg.Window.Scale, cfg.Window.Height*cfg.Window.Scale)
	ebiten.SetWindowTitle(cfg.Window.Title)
	// One Update per displayed frame; the frame clock owns the sim rate.
	ebiten.SetTPS(ebiten.SyncWithFPS)
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}

	snap := game.driver.Snapshot()
	logger.Info("stopped",
		zap.Uint64("frames", snap.Clock.FrameNumber),
		zap.Uint64("fixed_ticks", snap.FixedTicks),
		zap.Uint64("run_ns", snap.Elapsed),
		zap.Int("spans", snap.Spans),
	)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cellumetrics:", err)
		os.Exit(1)
	}
}
