package main

import (
	"math"

	"github.com/pthm-cable/patterns/config"
	"github.com/pthm-cable/patterns/viewport"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the Julia search space: the constant c plus a
// view centre and zoom relative to the configured julia_bounds.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "c_re", Path: "fractal.julia_c.re", Min: -1.0, Max: 0.5, Default: -0.4},
			{Name: "c_im", Path: "fractal.julia_c.im", Min: -1.0, Max: 1.0, Default: 0.6},
			// View centre in the complex plane
			{Name: "view_x", Path: "fractal.julia_bounds", Min: -1.0, Max: 1.0, Default: 0},
			{Name: "view_y", Path: "fractal.julia_bounds", Min: -1.0, Max: 1.0, Default: 0},
			// log2 of the zoom over julia_bounds
			{Name: "log2_zoom", Path: "fractal.julia_bounds", Min: 0, Max: 4, Default: 0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Max(spec.Min, math.Min(spec.Max, v[i]))
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct. The view is
// taken relative to the config's current julia_bounds, so apply to a copy
// of the base config, never to an already-modified one.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Fractal.JuliaC = config.ComplexConfig{Re: clamped[0], Im: clamped[1]}

	vp := viewport.New(cfg.Canvas.Width, cfg.Canvas.Height, cfg.Fractal.JuliaView.Bounds())
	vp.Focus(clamped[2], clamped[3], math.Exp2(clamped[4]))
	b := vp.Bounds()
	cfg.Fractal.JuliaView = config.BoundsConfig{Xmin: b.Xmin, Xmax: b.Xmax, Ymin: b.Ymin, Ymax: b.Ymax}
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	cx, cy := cfg.Fractal.JuliaView.Bounds().Center()
	return []float64{
		cfg.Fractal.JuliaC.Re,
		cfg.Fractal.JuliaC.Im,
		cx,
		cy,
		0, // julia_bounds is the zoom-1 reference
	}
}

// StartVector returns the search starting point for cfg. Values the config
// puts outside a parameter's bounds fall back to that parameter's default.
func (pv *ParamVector) StartVector(cfg *config.Config) []float64 {
	start := pv.ExtractFromConfig(cfg)
	defaults := pv.DefaultVector()
	for i, spec := range pv.Specs {
		if math.IsNaN(start[i]) || start[i] < spec.Min || start[i] > spec.Max {
			start[i] = defaults[i]
		}
	}
	return start
}
