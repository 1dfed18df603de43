package flow

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// Field returns the flow direction (radians) at canvas position (x, y)
// and time t in seconds. Fields are sampled analytically, never stored.
type Field func(x, y, t float64) float64

// Defaults for SineField.
const (
	DefaultFieldScale = 0.005
	DefaultTimeScale  = 0.5
)

// SineField is the classic pseudo-noise field
// angle = 2π·sin(x·scale + t·timeScale)·cos(y·scale − t·timeScale).
func SineField(scale, timeScale float64) Field {
	return func(x, y, t float64) float64 {
		return math.Sin(x*scale+t*timeScale) * math.Cos(y*scale-t*timeScale) * 2 * math.Pi
	}
}

// NoiseField derives the angle from 3D OpenSimplex noise over (x, y, t),
// giving less periodic streamlines than SineField.
func NoiseField(seed int64, scale, timeScale float64) Field {
	noise := opensimplex.New(seed)
	return func(x, y, t float64) float64 {
		return noise.Eval3(x*scale, y*scale, t*timeScale) * 2 * math.Pi
	}
}
