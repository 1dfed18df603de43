package geometric

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/patterns/grid"
)

// RandomSeeds draws n points uniformly inside b. The x and y of each point
// are drawn consecutively, so a given rng state always yields the same set.
func RandomSeeds(rng *rand.Rand, b grid.Bounds, n int) ([]grid.Point, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: num_points %d", ErrInvalidArgument, n)
	}
	seeds := make([]grid.Point, n)
	for i := range seeds {
		seeds[i].X = b.Xmin + rng.Float64()*b.Width()
		seeds[i].Y = b.Ymin + rng.Float64()*b.Height()
	}
	return seeds, nil
}

// Voronoi assigns every grid point the index of its nearest seed.
// Ties go to the lowest index.
func Voronoi(g grid.Grid, seeds []grid.Point) (*mat.Dense, error) {
	index, _, err := nearest(g, seeds)
	return index, err
}

// VoronoiDistance returns the distance from every grid point to its
// nearest seed.
func VoronoiDistance(g grid.Grid, seeds []grid.Point) (*mat.Dense, error) {
	_, dist, err := nearest(g, seeds)
	return dist, err
}

// VoronoiCells draws numPoints seeds from rng inside the grid bounds and
// returns the nearest-seed index field together with the seeds used.
func VoronoiCells(g grid.Grid, rng *rand.Rand, numPoints int) (*mat.Dense, []grid.Point, error) {
	seeds, err := RandomSeeds(rng, g.Bounds, numPoints)
	if err != nil {
		return nil, nil, err
	}
	cells, err := Voronoi(g, seeds)
	if err != nil {
		return nil, nil, err
	}
	return cells, seeds, nil
}

// nearest is a brute-force O(pixels × seeds) scan.
func nearest(g grid.Grid, seeds []grid.Point) (index, dist *mat.Dense, err error) {
	if len(seeds) == 0 {
		return nil, nil, fmt.Errorf("%w: empty seed list", ErrInvalidArgument)
	}

	xs, ys := g.Coords()
	idx := make([]float64, len(xs))
	dst := make([]float64, len(xs))
	for k := range xs {
		best := math.Inf(1)
		bestIdx := 0
		for s, p := range seeds {
			dx, dy := xs[k]-p.X, ys[k]-p.Y
			if d := dx*dx + dy*dy; d < best {
				best = d
				bestIdx = s
			}
		}
		idx[k] = float64(bestIdx)
		dst[k] = math.Sqrt(best)
	}

	h, w := g.Dims()
	return mat.NewDense(h, w, idx), mat.NewDense(h, w, dst), nil
}
