package parametric

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/pthm-cable/patterns/grid"
)

// errWriter remembers the first write error so callers of svgo, which
// never reports errors, can still surface it.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// WriteSVG emits pixel-space points as a single polyline on a black
// width×height canvas.
func WriteSVG(w io.Writer, pts []grid.Point, width, height int, strokeWidth float64) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidArgument, width, height)
	}
	if len(pts) < 2 {
		return fmt.Errorf("%w: polyline needs at least 2 points", ErrInvalidArgument)
	}

	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, p := range pts {
		xs[i] = int(math.Round(p.X))
		ys[i] = int(math.Round(p.Y))
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:black")
	canvas.Polyline(xs, ys, fmt.Sprintf("fill:none;stroke:white;stroke-width:%g;stroke-linejoin:round", strokeWidth))
	canvas.End()

	if ew.err != nil {
		return fmt.Errorf("writing svg: %w", ew.err)
	}
	return nil
}
