// Package fractal evaluates escape-time fractals (Mandelbrot, Julia,
// Burning Ship) over a coordinate grid.
package fractal

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/patterns/grid"
)

// ErrInvalidArgument is returned when maxIter is not positive.
var ErrInvalidArgument = errors.New("fractal: invalid argument")

// EscapeRadius is the magnitude beyond which an orbit is considered escaped.
const EscapeRadius = 2.0

const escapeRadiusSq = EscapeRadius * EscapeRadius

// Rule describes one escape-time family.
// Init maps a grid coordinate to the starting orbit value z0 and the
// constant c; Step advances the orbit by one iteration.
type Rule struct {
	Name string
	Init func(x, y float64) (z0, c complex128)
	Step func(z, c complex128) complex128
}

// Mandelbrot iterates z ← z² + c from z0 = 0 with c = x + iy.
func Mandelbrot() Rule {
	return Rule{
		Name: "mandelbrot",
		Init: func(x, y float64) (complex128, complex128) {
			return 0, complex(x, y)
		},
		Step: quadratic,
	}
}

// Julia iterates z ← z² + c from z0 = x + iy with a fixed c.
func Julia(c complex128) Rule {
	return Rule{
		Name: "julia",
		Init: func(x, y float64) (complex128, complex128) {
			return complex(x, y), c
		},
		Step: quadratic,
	}
}

// BurningShip iterates z ← (|Re z| + i|Im z|)² + c from z0 = 0.
func BurningShip() Rule {
	return Rule{
		Name: "burning_ship",
		Init: func(x, y float64) (complex128, complex128) {
			return 0, complex(x, y)
		},
		Step: func(z, c complex128) complex128 {
			folded := complex(math.Abs(real(z)), math.Abs(imag(z)))
			return folded*folded + c
		},
	}
}

func quadratic(z, c complex128) complex128 {
	return z*z + c
}

// EscapeTime returns, per grid point, the iteration index at which |z|
// first exceeded EscapeRadius, or maxIter for points that never escaped.
func EscapeTime(g grid.Grid, rule Rule, maxIter int) (*mat.Dense, error) {
	if maxIter <= 0 {
		return nil, fmt.Errorf("%w: max_iter %d", ErrInvalidArgument, maxIter)
	}
	counts := iterate(g, rule, maxIter, func(i int, _ complex128) float64 {
		return float64(i)
	})
	h, w := g.Dims()
	return mat.NewDense(h, w, counts), nil
}

// SmoothEscapeTime is EscapeTime with a fractional count
// i + 1 − log2(log|z|), which removes banding between iteration levels.
// Interior points still record maxIter.
func SmoothEscapeTime(g grid.Grid, rule Rule, maxIter int) (*mat.Dense, error) {
	if maxIter <= 0 {
		return nil, fmt.Errorf("%w: max_iter %d", ErrInvalidArgument, maxIter)
	}
	counts := iterate(g, rule, maxIter, func(i int, z complex128) float64 {
		mu := float64(i) + 1 - math.Log(math.Log(cmplx.Abs(z)))/math.Ln2
		return math.Max(mu, 0)
	})
	h, w := g.Dims()
	return mat.NewDense(h, w, counts), nil
}

// iterate runs all grid points in lockstep. The active set holds the
// indices of points that have not escaped yet and is compacted in place
// after each iteration, so every pass touches only live orbits and the
// loop stops as soon as the set drains.
func iterate(g grid.Grid, rule Rule, maxIter int, escaped func(i int, z complex128) float64) []float64 {
	xs, ys := g.Coords()
	n := len(xs)

	z := make([]complex128, n)
	c := make([]complex128, n)
	counts := make([]float64, n)
	active := make([]int32, n)
	for k := range xs {
		z[k], c[k] = rule.Init(xs[k], ys[k])
		counts[k] = float64(maxIter)
		active[k] = int32(k)
	}

	for i := 0; i < maxIter && len(active) > 0; i++ {
		live := active[:0]
		for _, k := range active {
			zk := rule.Step(z[k], c[k])
			z[k] = zk
			if real(zk)*real(zk)+imag(zk)*imag(zk) > escapeRadiusSq {
				counts[k] = escaped(i, zk)
				continue
			}
			live = append(live, k)
		}
		active = live
	}

	return counts
}
