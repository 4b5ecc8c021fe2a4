package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/AirborneDetergent/cellumetrics/internal/config"
	"github.com/AirborneDetergent/cellumetrics/internal/loop"
	"github.com/AirborneDetergent/cellumetrics/internal/sim"
	"github.com/AirborneDetergent/cellumetrics/internal/walltime"
)

const (
	brushSpread = 16
	brushDrops  = 100
	brushCharge = 0.1
)

// Game adapts the loop driver to ebiten. Update runs once per displayed
// frame; the driver decides how many simulation ticks that frame owes.
type Game struct {
	world  *sim.World
	driver *loop.Driver
	timer  *walltime.Timer
	log    *zap.Logger
	pix    []byte
	debug  bool
}

func newGame(cfg *config.Config, logger *zap.Logger) (*Game, error) {
	g := &Game{
		world: sim.NewWorld(cfg.Window.Width, cfg.Window.Height, cfg.Simulation, rand.New(rand.NewSource(time.Now().UnixNano()))),
		timer: walltime.NewTimer(),
		log:   logger,
		pix:   make([]byte, cfg.Window.Width*cfg.Window.Height*4),
		debug: true,
	}
	driver, err := loop.New(loop.Options{
		TickRate:  cfg.Simulation.TickRate,
		TimeScale: cfg.Simulation.TimeScale,
		MaxSpans:  cfg.Simulation.MaxSpans,
	}, g.step, g.timer.Now(), logger)
	if err != nil {
		return nil, err
	}
	g.driver = driver
	return g, nil
}

func (g *Game) step() {
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		for i := 0; i < brushDrops; i++ {
			g.world.Inject(mx+rand.Intn(brushSpread*2)-brushSpread, my+rand.Intn(brushSpread*2)-brushSpread, brushCharge)
		}
	}
	g.world.Step()
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if err := g.handleKeys(); err != nil {
		return err
	}
	_, err := g.driver.Frame(g.timer.Tick())
	return err
}

func (g *Game) handleKeys() error {
	now := g.timer.Now()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		return g.driver.TogglePause(now)
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		_, err := g.driver.Lap(now)
		return err
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		return g.driver.ResetLaps(now)
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		g.driver.ScaleTime(2)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		g.driver.ScaleTime(0.5)
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		g.debug = !g.debug
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.world.Render(g.pix, g.driver.Hue())
	screen.WritePixels(g.pix)
	if !g.debug {
		return
	}

	snap := g.driver.Snapshot()
	run, err := g.driver.Elapsed(g.timer.Now())
	if err != nil {
		g.log.Debug("elapsed", zap.Error(err))
	}
	state := "running"
	if !snap.Running {
		state = "paused"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS: %0.4g  TPS: %d/s\nframe %d  scale x%g\nsim %s (%s, %d spans)\nreal %s",
		ebiten.ActualFPS(), snap.FixedTicks*uint64(time.Second)/max(snap.Clock.AbsoluteRealTime, 1),
		snap.Clock.FrameNumber, snap.Clock.TimeScale,
		time.Duration(run).Truncate(time.Millisecond), state, snap.Spans,
		time.Duration(snap.Clock.AbsoluteRealTime).Truncate(time.Millisecond),
	))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.world.Width, g.world.Height
}
