// Package waves superposes sinusoids over a coordinate grid. Every
// evaluator is a sum or product of whole-field terms with no per-pixel
// branching; results are raw amplitudes, unclipped.
package waves

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/patterns/grid"
)

// ErrInvalidArgument is returned for empty source lists and non-positive
// wavelengths, periods or mode numbers.
var ErrInvalidArgument = errors.New("waves: invalid argument")

// Interference sums sin(2π·d/λ) over all point sources.
func Interference(g grid.Grid, sources []grid.Point, wavelength float64) (*mat.Dense, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no wave sources", ErrInvalidArgument)
	}
	if wavelength <= 0 {
		return nil, fmt.Errorf("%w: wavelength %g", ErrInvalidArgument, wavelength)
	}

	sum := g.NewField()
	for _, s := range sources {
		sum.Add(sum, g.Map(func(x, y float64) float64 {
			return math.Sin(2 * math.Pi * math.Hypot(x-s.X, y-s.Y) / wavelength)
		}))
	}
	return sum, nil
}

// Grating is a plane sinusoid with the given period, rotated by Angle
// degrees from the x axis.
type Grating struct {
	Period float64
	Angle  float64
}

func (gr Grating) field(g grid.Grid) *mat.Dense {
	rad := gr.Angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return g.Map(func(x, y float64) float64 {
		return math.Sin(2 * math.Pi * (x*cos + y*sin) / gr.Period)
	})
}

// Moire multiplies two gratings of slightly different period or angle.
func Moire(g grid.Grid, a, b Grating) (*mat.Dense, error) {
	if a.Period <= 0 || b.Period <= 0 {
		return nil, fmt.Errorf("%w: grating periods %g, %g", ErrInvalidArgument, a.Period, b.Period)
	}
	out := a.field(g)
	out.MulElem(out, b.field(g))
	return out, nil
}

// Standing is the (nx, ny) mode of a rectangular membrane fixed at the
// grid bounds: sin(nx·π·u)·sin(ny·π·v), u and v normalized to [0, 1].
func Standing(g grid.Grid, nx, ny int) (*mat.Dense, error) {
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("%w: modes (%d, %d)", ErrInvalidArgument, nx, ny)
	}

	b := g.Bounds
	kx := float64(nx) * math.Pi / nonZero(b.Width())
	ky := float64(ny) * math.Pi / nonZero(b.Height())

	sx := g.Map(func(x, _ float64) float64 { return math.Sin(kx * (x - b.Xmin)) })
	sy := g.Map(func(_, y float64) float64 { return math.Sin(ky * (y - b.Ymin)) })
	sx.MulElem(sx, sy)
	return sx, nil
}

// Ripple sums exponentially damped rings around each centre:
// exp(−decay·d)·sin(2π·rings·d/span), span being the longer grid side.
func Ripple(g grid.Grid, centres []grid.Point, rings int, decay float64) (*mat.Dense, error) {
	if len(centres) == 0 {
		return nil, fmt.Errorf("%w: no ripple centres", ErrInvalidArgument)
	}
	if rings <= 0 || decay < 0 {
		return nil, fmt.Errorf("%w: rings %d, decay %g", ErrInvalidArgument, rings, decay)
	}

	span := nonZero(math.Max(g.Bounds.Width(), g.Bounds.Height()))
	k := 2 * math.Pi * float64(rings) / span

	sum := g.NewField()
	for _, c := range centres {
		sum.Add(sum, g.Map(func(x, y float64) float64 {
			d := math.Hypot(x-c.X, y-c.Y)
			return math.Exp(-decay*d) * math.Sin(k*d)
		}))
	}
	return sum, nil
}

// Superposition sums plane waves sin(k·(x cosθ + y sinθ)) travelling in
// each of the given directions (degrees).
func Superposition(g grid.Grid, directions []float64, wavelength float64) (*mat.Dense, error) {
	if len(directions) == 0 {
		return nil, fmt.Errorf("%w: no wave directions", ErrInvalidArgument)
	}
	if wavelength <= 0 {
		return nil, fmt.Errorf("%w: wavelength %g", ErrInvalidArgument, wavelength)
	}

	sum := g.NewField()
	for _, deg := range directions {
		sum.Add(sum, Grating{Period: wavelength, Angle: deg}.field(g))
	}
	return sum, nil
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
