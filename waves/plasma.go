package waves

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/patterns/grid"
)

// PlasmaView is the domain the plasma animation is designed for.
var PlasmaView = grid.Bounds{Xmin: -3, Xmax: 3, Ymin: -2, Ymax: 2}

// Plasma holds one frame of the three-channel plasma, each channel in [0, 1].
type Plasma struct {
	R, G, B *mat.Dense
}

// PlasmaFrame evaluates the hypnotic plasma at time t (seconds). Three
// interfering fields (radial, horizontal, diagonal) drift at different
// speeds and are mixed into the colour channels with a 0.8 gamma.
func PlasmaFrame(g grid.Grid, t float64) Plasma {
	z1 := g.Map(func(x, y float64) float64 { return math.Sin(math.Hypot(x, y)*3 - t*2) })
	z2 := g.Map(func(x, _ float64) float64 { return math.Cos(x*3 + t) })
	z3 := g.Map(func(x, y float64) float64 { return math.Sin((x+y)*2 - t) })

	channel := func(a, b *mat.Dense, mix func(s float64) float64) *mat.Dense {
		var out mat.Dense
		out.Add(a, b)
		out.Apply(func(_, _ int, v float64) float64 {
			return math.Pow(clamp01((mix(v)+1)/2), 0.8)
		}, &out)
		return &out
	}

	return Plasma{
		R: channel(z1, z2, func(s float64) float64 { return math.Sin(s + t) }),
		G: channel(z1, z3, func(s float64) float64 { return math.Cos(s - t) }),
		B: channel(z2, z3, func(s float64) float64 { return math.Sin(s + t*0.5) }),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
