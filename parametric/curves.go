// Package parametric samples closed parametric curves and rasterizes them
// into intensity fields.
//
// Sampling is uniform in the curve parameter with no adaptive refinement;
// callers pick a sample count large enough for the curvature they expect.
package parametric

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/patterns/grid"
)

// ErrInvalidArgument is returned for too few samples, non-positive curve
// parameters or canvas sizes, and negative thickness.
var ErrInvalidArgument = errors.New("parametric: invalid argument")

// params returns n evenly spaced values over [0, end], both ends included.
func params(n int, end float64) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", ErrInvalidArgument, n)
	}
	return floats.Span(make([]float64, n), 0, end), nil
}

// Lissajous samples (sin(a·t + δ), sin(b·t)) over one period t ∈ [0, 2π].
func Lissajous(a, b, delta float64, samples int) ([]grid.Point, error) {
	ts, err := params(samples, 2*math.Pi)
	if err != nil {
		return nil, err
	}
	pts := make([]grid.Point, len(ts))
	for i, t := range ts {
		pts[i] = grid.Point{X: math.Sin(a*t + delta), Y: math.Sin(b * t)}
	}
	return pts, nil
}

// Rose samples the rhodonea r = cos(n/d · θ) for θ ∈ [0, 2π·d], which
// closes the curve for any integer n/d.
func Rose(n, d int, samples int) ([]grid.Point, error) {
	if n <= 0 || d <= 0 {
		return nil, fmt.Errorf("%w: rose n=%d d=%d", ErrInvalidArgument, n, d)
	}
	ts, err := params(samples, 2*math.Pi*float64(d))
	if err != nil {
		return nil, err
	}
	k := float64(n) / float64(d)
	pts := make([]grid.Point, len(ts))
	for i, t := range ts {
		r := math.Cos(k * t)
		pts[i] = grid.Point{X: r * math.Cos(t), Y: r * math.Sin(t)}
	}
	return pts, nil
}

// Hypotrochoid samples the spirograph curve traced by a pen at distance d
// from the centre of a circle of radius r rolling inside a circle of
// radius R. The parameter runs over 2π·r/gcd(R, r), one full closure, so
// both radii must be positive whole numbers.
func Hypotrochoid(bigR, r, d float64, samples int) ([]grid.Point, error) {
	if !wholePositive(bigR) || !wholePositive(r) {
		return nil, fmt.Errorf("%w: hypotrochoid radii R=%g r=%g must be positive integers", ErrInvalidArgument, bigR, r)
	}
	period := 2 * math.Pi * r / float64(gcd(int(bigR), int(r)))
	ts, err := params(samples, period)
	if err != nil {
		return nil, err
	}

	diff := bigR - r
	pts := make([]grid.Point, len(ts))
	for i, t := range ts {
		pts[i] = grid.Point{
			X: diff*math.Cos(t) + d*math.Cos(diff/r*t),
			Y: diff*math.Sin(t) - d*math.Sin(diff/r*t),
		}
	}
	return pts, nil
}

// Butterfly samples Temple Fay's butterfly curve
// r = e^sin θ − 2·cos 4θ + sin⁵((2θ − π)/24) for θ ∈ [0, 12π].
func Butterfly(samples int) ([]grid.Point, error) {
	ts, err := params(samples, 12*math.Pi)
	if err != nil {
		return nil, err
	}
	pts := make([]grid.Point, len(ts))
	for i, t := range ts {
		r := math.Exp(math.Sin(t)) - 2*math.Cos(4*t) + math.Pow(math.Sin((2*t-math.Pi)/24), 5)
		pts[i] = grid.Point{X: r * math.Cos(t), Y: r * math.Sin(t)}
	}
	return pts, nil
}

func wholePositive(v float64) bool {
	return v >= 1 && v < 1<<31 && v == math.Trunc(v)
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}
