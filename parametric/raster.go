package parametric

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/patterns/grid"
)

// FitBox maps curve points from [-1, 1]² onto a width×height canvas,
// leaving margin pixels on every side. Used for Lissajous figures.
func FitBox(pts []grid.Point, width, height int, margin float64) []grid.Point {
	w := float64(width) - 2*margin
	h := float64(height) - 2*margin
	out := make([]grid.Point, len(pts))
	for i, p := range pts {
		out[i] = grid.Point{
			X: (p.X+1)/2*w + margin,
			Y: (p.Y+1)/2*h + margin,
		}
	}
	return out
}

// FitCentred scales points uniformly so the largest |coordinate| reaches
// fraction·min(width, height), then centres them on the canvas.
func FitCentred(pts []grid.Point, width, height int, fraction float64) []grid.Point {
	maxAbs := 0.0
	for _, p := range pts {
		maxAbs = math.Max(maxAbs, math.Max(math.Abs(p.X), math.Abs(p.Y)))
	}
	if maxAbs == 0 {
		maxAbs = 1
	}
	scale := float64(min(width, height)) * fraction / maxAbs

	out := make([]grid.Point, len(pts))
	for i, p := range pts {
		out[i] = grid.Point{
			X: p.X*scale + float64(width)/2,
			Y: p.Y*scale + float64(height)/2,
		}
	}
	return out
}

// Rasterize marks the nearest pixel of every point with 1.0 and dilates it
// by a (2·thickness+1)² square stamp. Row index grows with Y. Points
// outside the canvas are skipped.
func Rasterize(pts []grid.Point, width, height, thickness int) (*mat.Dense, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: canvas %dx%d", ErrInvalidArgument, width, height)
	}
	if thickness < 0 {
		return nil, fmt.Errorf("%w: thickness %d", ErrInvalidArgument, thickness)
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("%w: no points to rasterize", ErrInvalidArgument)
	}

	field := mat.NewDense(height, width, nil)
	data := field.RawMatrix().Data
	for _, p := range pts {
		col := int(math.Round(p.X))
		row := int(math.Round(p.Y))
		if col < 0 || col >= width || row < 0 || row >= height {
			continue
		}
		for r := max(0, row-thickness); r <= min(height-1, row+thickness); r++ {
			line := data[r*width : (r+1)*width]
			for c := max(0, col-thickness); c <= min(width-1, col+thickness); c++ {
				line[c] = 1
			}
		}
	}
	return field, nil
}
