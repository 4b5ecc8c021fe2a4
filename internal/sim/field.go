package sim

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// Field is a scalar grid that diffuses into its neighbours every step.
// Diffusion is not in place, so it keeps a second buffer to write into.
type Field struct {
	width, height int
	cur, next     []float64
	kernel        [9]float64
	decayCoef     float64
	workers       int
}

// NewField builds a width x height grid. retainment is the weight a cell
// keeps for itself relative to each neighbour; decay is the exponent on a
// 0.999 per-step falloff.
func NewField(width, height int, retainment, decay float64, workers int) *Field {
	if workers < 1 {
		workers = 1
	}
	return &Field{
		width:  width,
		height: height,
		cur:    make([]float64, width*height),
		next:   make([]float64, width*height),
		kernel: [9]float64{
			1, 1, 1,
			1, retainment, 1,
			1, 1, 1,
		},
		decayCoef: math.Pow(0.999, decay),
		workers:   workers,
	}
}

func (f *Field) InBounds(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

// At returns the value at (x, y), or 0 outside the grid.
func (f *Field) At(x, y int) float64 {
	if !f.InBounds(x, y) {
		return 0
	}
	return f.cur[y*f.width+x]
}

func (f *Field) Add(x, y int, v float64) {
	if f.InBounds(x, y) {
		f.cur[y*f.width+x] += v
	}
}

// Gradient estimates the derivative at (x, y) by central differences.
func (f *Field) Gradient(x, y int) (dx, dy float64) {
	dx = f.At(x+1, y) - f.At(x-1, y)
	dy = f.At(x, y+1) - f.At(x, y-1)
	return dx, dy
}

// Step diffuses every cell once, splitting rows across workers.
func (f *Field) Step() {
	var g errgroup.Group
	for w := 0; w < f.workers; w++ {
		offset := w
		g.Go(func() error {
			for y := offset; y < f.height; y += f.workers {
				f.diffuseRow(y)
			}
			return nil
		})
	}
	_ = g.Wait()
	f.cur, f.next = f.next, f.cur
}

func (f *Field) diffuseRow(y int) {
	for x := 0; x < f.width; x++ {
		var sum, weight float64
		k := 0
		for sy := y - 1; sy <= y+1; sy++ {
			for sx := x - 1; sx <= x+1; sx++ {
				kv := f.kernel[k]
				k++
				if !f.InBounds(sx, sy) {
					continue
				}
				sum += f.cur[sy*f.width+sx] * kv
				weight += kv
			}
		}
		f.next[y*f.width+x] = sum / weight * f.decayCoef
	}
}
