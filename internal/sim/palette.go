package sim

import (
	"math"

	"github.com/crazy3lf/colorconv"
)

// paletteSize entries of a precomputed hue wheel, since HSV conversion is
// too slow to run per cell.
const paletteSize = 1000

type FloatColor struct {
	R, G, B float64
}

type Palette [paletteSize]FloatColor

func NewPalette() *Palette {
	p := &Palette{}
	for i := range p {
		hue := float64(i) / paletteSize * 360
		r, g, b, _ := colorconv.HSVToRGB(hue, 1, 1)
		p[i] = FloatColor{float64(r) / 255, float64(g) / 255, float64(b) / 255}
	}
	return p
}

// Color maps a charge to a color. shift rotates the wheel and is in
// turns, so 0.5 is half way round. Charges outside [-1, 1] are clamped and
// negative charges walk the wheel backwards.
func (p *Palette) Color(charge, shift float64) FloatColor {
	place := math.Min(1, math.Abs(charge))
	if charge < 0 {
		place = 1 - place
	}
	place = math.Mod(place+shift, 1)
	if place < 0 {
		place++
	}
	return p[int(place*(paletteSize-1))]
}
