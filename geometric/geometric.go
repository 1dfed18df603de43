// Package geometric provides closed-form tiling and spiral patterns.
package geometric

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/patterns/grid"
)

// ErrInvalidArgument is returned for non-positive sizes, counts or
// thresholds and for unknown spiral kinds.
var ErrInvalidArgument = errors.New("geometric: invalid argument")

// SpiralKind selects the radius/angle relation of a spiral.
type SpiralKind string

const (
	Archimedean SpiralKind = "archimedean" // r ∝ θ
	Logarithmic SpiralKind = "logarithmic" // r ∝ exp(θ)
	Fermat      SpiralKind = "fermat"      // r ∝ sqrt(θ)
)

// ParseSpiralKind validates a kind read from config.
func ParseSpiralKind(s string) (SpiralKind, error) {
	switch k := SpiralKind(s); k {
	case Archimedean, Logarithmic, Fermat:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown spiral kind %q", ErrInvalidArgument, s)
}

// Spiral marks points (1.0) whose radius about the grid centre lies within
// thickness of the spiral's expected radius at that angle; others are 0.
// Lengths scale with the shorter side of the grid bounds.
func Spiral(g grid.Grid, kind SpiralKind, turns, thickness float64) (*mat.Dense, error) {
	if turns <= 0 || thickness <= 0 {
		return nil, fmt.Errorf("%w: turns %g, thickness %g", ErrInvalidArgument, turns, thickness)
	}
	if _, err := ParseSpiralKind(string(kind)); err != nil {
		return nil, err
	}

	cx, cy := g.Bounds.Center()
	span := math.Min(g.Bounds.Width(), g.Bounds.Height())

	expected := func(theta float64) float64 {
		switch kind {
		case Logarithmic:
			return span / 60 * math.Exp(0.2*theta*turns/10)
		case Fermat:
			return math.Sqrt(theta*turns) * span / 20
		default:
			return theta / (2 * math.Pi) * (span / 4) * (turns / 10)
		}
	}

	return g.Map(func(x, y float64) float64 {
		dx, dy := x-cx, y-cy
		r := math.Hypot(dx, dy)
		theta := positiveMod(math.Atan2(dy, dx)+math.Pi, 2*math.Pi)
		if math.Abs(r-expected(theta)) < thickness {
			return 1
		}
		return 0
	}), nil
}

// Hexagonal colours a hex tiling of the given cell size with values
// {0, 1, 2} derived from the rounded cube coordinates.
func Hexagonal(g grid.Grid, size float64) (*mat.Dense, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: hex size %g", ErrInvalidArgument, size)
	}

	sqrt3 := math.Sqrt(3)
	return g.Map(func(x, y float64) float64 {
		q := (x * 2 / 3) / size
		r := (-x/3 + sqrt3/3*y) / size
		rx, ry, _ := cubeRound(q, -q-r, r)
		return positiveMod(rx+ry, 3)
	}), nil
}

// cubeRound snaps fractional cube coordinates to the nearest hex,
// repairing the component with the largest rounding error so that
// x + y + z stays zero.
func cubeRound(x, y, z float64) (rx, ry, rz float64) {
	rx, ry, rz = math.Round(x), math.Round(y), math.Round(z)
	dx, dy, dz := math.Abs(rx-x), math.Abs(ry-y), math.Abs(rz-z)

	switch {
	case dx > dy && dx > dz:
		rx = -ry - rz
	case dy > dz:
		ry = -rx - rz
	default:
		rz = -rx - ry
	}
	return rx, ry, rz
}

// CircularWaves draws numWaves concentric sinusoidal rings around centre.
func CircularWaves(g grid.Grid, numWaves int, centre grid.Point) (*mat.Dense, error) {
	if numWaves <= 0 {
		return nil, fmt.Errorf("%w: num_waves %d", ErrInvalidArgument, numWaves)
	}

	maxR := math.Hypot(g.Bounds.Width(), g.Bounds.Height()) / 2
	if maxR == 0 {
		maxR = 1
	}
	k := float64(numWaves) * 2 * math.Pi / maxR

	return g.Map(func(x, y float64) float64 {
		return math.Sin(math.Hypot(x-centre.X, y-centre.Y) * k)
	}), nil
}

func positiveMod(a, m float64) float64 {
	r := math.Mod(a, m)
	if r < 0 {
		r += m
	}
	return r
}
