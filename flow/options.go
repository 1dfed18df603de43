package flow

import (
	"fmt"
	"strings"

	"github.com/tanema/gween/ease"
)

var fades = map[string]ease.TweenFunc{
	"linear":      ease.Linear,
	"in_quad":     ease.InQuad,
	"in_cubic":    ease.InCubic,
	"in_quart":    ease.InQuart,
	"in_expo":     ease.InExpo,
	"in_sine":     ease.InSine,
	"in_out_quad": ease.InOutQuad,
	"out_quad":    ease.OutQuad,
}

// ParseFade returns the trail fade curve with the given name.
func ParseFade(name string) (ease.TweenFunc, error) {
	fn, ok := fades[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown fade %q", ErrInvalidArgument, name)
	}
	return fn, nil
}

// ParseBoundary accepts "wrap" or "clamp", case-insensitively.
func ParseBoundary(s string) (Boundary, error) {
	switch b := Boundary(strings.ToLower(s)); b {
	case Wrap, Clamp:
		return b, nil
	}
	return "", fmt.Errorf("%w: boundary %q", ErrInvalidArgument, s)
}

// ParseField builds the named flow field: "sine" or "noise". seed only
// affects the noise field.
func ParseField(name string, seed int64, scale, timeScale float64) (Field, error) {
	switch strings.ToLower(name) {
	case "sine":
		return SineField(scale, timeScale), nil
	case "noise":
		return NoiseField(seed, scale, timeScale), nil
	}
	return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidArgument, name)
}
