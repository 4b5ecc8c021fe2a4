// Package sim is the charged particle toy the demo animates. Particles
// emit charge into a diffusing field and are pushed along its gradient.
// Step advances one fixed tick; Render paints the field into RGBA pixels.
package sim

import (
	"math"
	"math/rand"

	"github.com/AirborneDetergent/cellumetrics/internal/config"
)

// Coefficients were tuned per tick at 144 Hz.
const (
	tickDivisor = 144.0
	friction    = 0.995
	// chargeDivisor only affects rendering density.
	chargeDivisor = 50
)

type Particle struct {
	X, Y, XV, YV float64
	// Charge is -1 or 1.
	Charge float64
}

type World struct {
	Width, Height int

	field     *Field
	particles []Particle
	palette   *Palette

	emission      float64
	centerGravity float64
}

// NewWorld scatters particles at random using rng.
func NewWorld(width, height int, cfg config.SimulationConfig, rng *rand.Rand) *World {
	w := &World{
		Width:         width,
		Height:        height,
		field:         NewField(width, height, cfg.Retainment, cfg.Decay, cfg.Workers),
		particles:     make([]Particle, cfg.Particles),
		palette:       NewPalette(),
		emission:      cfg.Emission / tickDivisor,
		centerGravity: cfg.CenterGravity / tickDivisor,
	}
	for i := range w.particles {
		p := &w.particles[i]
		p.X = rng.Float64() * float64(width)
		p.Y = rng.Float64() * float64(height)
		p.Charge = 1
		if rng.Float64() < cfg.NegativeRate {
			p.Charge = -1
		}
	}
	return w
}

func (w *World) Particles() []Particle {
	return w.particles
}

func (w *World) Field() *Field {
	return w.field
}

// Inject drops charge at (x, y), e.g. under the mouse.
func (w *World) Inject(x, y int, amount float64) {
	w.field.Add(x, y, amount)
}

// Step advances the simulation by one fixed tick.
func (w *World) Step() {
	w.field.Step()

	cx, cy := float64(w.Width)/2, float64(w.Height)/2
	for i := range w.particles {
		p := &w.particles[i]
		dx, dy := w.field.Gradient(int(p.X), int(p.Y))
		p.XV -= dx / tickDivisor * p.Charge
		p.YV -= dy / tickDivisor * p.Charge

		if w.centerGravity > 0 {
			ox, oy := p.X-cx, p.Y-cy
			dist := math.Hypot(ox, oy)
			if dist > 0 {
				pull := math.Min(1, dist/32)
				pull *= pull
				p.XV -= ox / dist * w.centerGravity * pull
				p.YV -= oy / dist * w.centerGravity * pull
			}
		}

		p.XV *= friction
		p.YV *= friction
		p.X, p.XV = bounce(p.X+p.XV, p.XV, float64(w.Width))
		p.Y, p.YV = bounce(p.Y+p.YV, p.YV, float64(w.Height))

		w.field.Add(int(p.X), int(p.Y), w.emission*p.Charge)
	}
}

// bounce keeps a coordinate one cell inside [0, limit) and stops motion
// into the wall.
func bounce(pos, vel, limit float64) (float64, float64) {
	if pos < 1 {
		return 1, math.Max(0, vel)
	}
	if pos >= limit-1 {
		return limit - 2, math.Min(0, vel)
	}
	return pos, vel
}

// Render writes the field as RGBA into pix, which must hold
// Width*Height*4 bytes. hueShift rotates the palette, in turns.
func (w *World) Render(pix []byte, hueShift float64) {
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			charge := w.field.At(x, y) / chargeDivisor
			c := w.palette.Color(charge*10, hueShift)
			density := 1 - math.Pow(0.5, math.Abs(charge))
			i := (y*w.Width + x) * 4
			pix[i] = shade(c.R, density)
			pix[i+1] = shade(c.G, density)
			pix[i+2] = shade(c.B, density)
			pix[i+3] = 0xff
		}
	}
}

func shade(v, density float64) byte {
	v *= density
	// cheap gamma
	return byte(math.Min(1, v*v) * 255)
}
