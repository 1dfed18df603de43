// Package grid maps pixel indices to coordinates in a mathematical domain.
//
// Orientation: row 0 is the top row of the output image and holds Ymin;
// the last row holds Ymax. Column 0 holds Xmin, the last column Xmax.
// Evaluators that think of y as "up" must flip rows themselves.
package grid

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidArgument is returned for non-positive sizes and empty bounds.
var ErrInvalidArgument = errors.New("grid: invalid argument")

// Bounds is a rectangle in the mathematical domain.
type Bounds struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Validate reports whether the bounds describe a non-empty rectangle.
func (b Bounds) Validate() error {
	if !(b.Xmin < b.Xmax) {
		return fmt.Errorf("%w: xmin %g must be below xmax %g", ErrInvalidArgument, b.Xmin, b.Xmax)
	}
	if !(b.Ymin < b.Ymax) {
		return fmt.Errorf("%w: ymin %g must be below ymax %g", ErrInvalidArgument, b.Ymin, b.Ymax)
	}
	return nil
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.Xmax - b.Xmin }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.Ymax - b.Ymin }

// Center returns the midpoint of the rectangle.
func (b Bounds) Center() (x, y float64) {
	return (b.Xmin + b.Xmax) / 2, (b.Ymin + b.Ymax) / 2
}

// Point is a location in the mathematical domain.
type Point struct {
	X, Y float64
}

// Grid holds per-pixel domain coordinates. X and Y are both rows=height,
// cols=width and must not be mutated once built.
type Grid struct {
	X, Y   *mat.Dense
	Bounds Bounds
}

// Build creates the coordinate grid for a width×height image over b.
func Build(width, height int, b Bounds) (Grid, error) {
	if width < 1 || height < 1 {
		return Grid{}, fmt.Errorf("%w: size %dx%d", ErrInvalidArgument, width, height)
	}
	if err := b.Validate(); err != nil {
		return Grid{}, err
	}
	return build(width, height, b), nil
}

// Pixels creates a grid whose coordinates are the pixel indices
// themselves: X[i][j] == j and Y[i][j] == i.
func Pixels(width, height int) (Grid, error) {
	if width < 1 || height < 1 {
		return Grid{}, fmt.Errorf("%w: size %dx%d", ErrInvalidArgument, width, height)
	}
	b := Bounds{Xmin: 0, Xmax: float64(width - 1), Ymin: 0, Ymax: float64(height - 1)}
	return build(width, height, b), nil
}

func build(width, height int, b Bounds) Grid {
	xs := linspace(width, b.Xmin, b.Xmax)
	ys := linspace(height, b.Ymin, b.Ymax)

	xData := make([]float64, width*height)
	yData := make([]float64, width*height)
	for i := 0; i < height; i++ {
		row := xData[i*width : (i+1)*width]
		copy(row, xs)
		col := yData[i*width : (i+1)*width]
		for j := range col {
			col[j] = ys[i]
		}
	}

	return Grid{
		X:      mat.NewDense(height, width, xData),
		Y:      mat.NewDense(height, width, yData),
		Bounds: b,
	}
}

// linspace mirrors numpy: a single sample sits at lo.
func linspace(n int, lo, hi float64) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	return floats.Span(out, lo, hi)
}

// Dims returns (height, width).
func (g Grid) Dims() (height, width int) {
	return g.X.Dims()
}

// NewField allocates a zeroed intensity field of the grid's shape.
func (g Grid) NewField() *mat.Dense {
	h, w := g.Dims()
	return mat.NewDense(h, w, nil)
}

// Coords returns the backing slices for X and Y in row-major order.
// Callers must treat them as read-only.
func (g Grid) Coords() (xs, ys []float64) {
	return g.X.RawMatrix().Data, g.Y.RawMatrix().Data
}

// Map evaluates fn at every grid point and returns the resulting field.
func (g Grid) Map(fn func(x, y float64) float64) *mat.Dense {
	xs, ys := g.Coords()
	out := make([]float64, len(xs))
	for k := range xs {
		out[k] = fn(xs[k], ys[k])
	}
	h, w := g.Dims()
	return mat.NewDense(h, w, out)
}
