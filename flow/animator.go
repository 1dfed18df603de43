// Package flow animates particles advected through an analytic flow field
// and rasterizes their fading trails into one intensity frame per step.
package flow

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidArgument is returned by New for unusable configs.
	ErrInvalidArgument = errors.New("flow: invalid argument")
	// ErrFinished is returned once every frame has been produced.
	ErrFinished = errors.New("flow: animation finished")
)

// Boundary decides what happens to particles leaving the canvas.
type Boundary string

const (
	Wrap  Boundary = "wrap"  // re-enter on the opposite edge
	Clamp Boundary = "clamp" // stick to the edge
)

// Config describes one animation run.
type Config struct {
	Width, Height int
	NumParticles  int
	FPS           int
	Duration      float64 // seconds
	TrailLength   int     // positions kept per particle
	StepLength    float64 // pixels advanced per frame
	Boundary      Boundary
	Field         Field          // nil = SineField(DefaultFieldScale, DefaultTimeScale)
	Fade          ease.TweenFunc // nil = ease.InQuad
}

func (c Config) validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidArgument, c.Width, c.Height)
	case c.NumParticles <= 0:
		return fmt.Errorf("%w: num_particles %d", ErrInvalidArgument, c.NumParticles)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalidArgument, c.FPS)
	case !(c.Duration > 0):
		return fmt.Errorf("%w: duration %g", ErrInvalidArgument, c.Duration)
	case c.TrailLength <= 0:
		return fmt.Errorf("%w: trail_length %d", ErrInvalidArgument, c.TrailLength)
	case !(c.StepLength > 0):
		return fmt.Errorf("%w: step_length %g", ErrInvalidArgument, c.StepLength)
	}
	switch c.Boundary {
	case Wrap, Clamp:
	default:
		return fmt.Errorf("%w: boundary %q", ErrInvalidArgument, c.Boundary)
	}
	if frameCount(c.FPS, c.Duration) < 1 {
		return fmt.Errorf("%w: fps·duration rounds to zero frames", ErrInvalidArgument)
	}
	return nil
}

func frameCount(fps int, duration float64) int {
	return int(math.Round(float64(fps) * duration))
}

// Position is a particle's location in canvas pixels.
type Position struct {
	X, Y float64
}

// Animator owns the particle state of a single run. It is not safe for
// concurrent use.
type Animator struct {
	cfg    Config
	world  *ecs.World
	mapper *ecs.Map2[Position, Trail]
	filter *ecs.Filter2[Position, Trail]

	frame  int
	frames int
}

// New scatters cfg.NumParticles particles uniformly over the canvas using
// rng. Trails start empty.
func New(cfg Config, rng *rand.Rand) (*Animator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Field == nil {
		cfg.Field = SineField(DefaultFieldScale, DefaultTimeScale)
	}
	if cfg.Fade == nil {
		cfg.Fade = ease.InQuad
	}

	world := ecs.NewWorld()
	a := &Animator{
		cfg:    cfg,
		world:  world,
		mapper: ecs.NewMap2[Position, Trail](world),
		filter: ecs.NewFilter2[Position, Trail](world),
		frames: frameCount(cfg.FPS, cfg.Duration),
	}

	w, h := float64(cfg.Width), float64(cfg.Height)
	for i := 0; i < cfg.NumParticles; i++ {
		pos := Position{X: rng.Float64() * w, Y: rng.Float64() * h}
		trail := NewTrail(cfg.TrailLength)
		a.mapper.NewEntity(&pos, &trail)
	}

	return a, nil
}

// FrameCount is round(FPS·Duration), the total number of frames a run yields.
func (a *Animator) FrameCount() int { return a.frames }

// Frame returns how many frames have been produced so far.
func (a *Animator) Frame() int { return a.frame }

// Done reports whether the run has produced every frame.
func (a *Animator) Done() bool { return a.frame >= a.frames }

// Next advances every particle one step at t = frame/FPS and renders the
// resulting trails. After FrameCount frames it returns ErrFinished.
func (a *Animator) Next() (*mat.Dense, error) {
	if a.Done() {
		return nil, ErrFinished
	}
	a.step(float64(a.frame) / float64(a.cfg.FPS))
	out := a.render()
	a.frame++
	return out, nil
}

// Run produces all remaining frames in order, handing each to fn.
func (a *Animator) Run(fn func(frame int, f *mat.Dense) error) error {
	for !a.Done() {
		i := a.frame
		f, err := a.Next()
		if err != nil {
			return err
		}
		if err := fn(i, f); err != nil {
			return err
		}
	}
	return nil
}

// Each visits every particle in creation order.
func (a *Animator) Each(fn func(p Position, t *Trail)) {
	query := a.filter.Query()
	for query.Next() {
		pos, trail := query.Get()
		fn(*pos, trail)
	}
}

func (a *Animator) step(t float64) {
	w, h := float64(a.cfg.Width), float64(a.cfg.Height)

	query := a.filter.Query()
	for query.Next() {
		pos, trail := query.Get()

		angle := a.cfg.Field(pos.X, pos.Y, t)
		pos.X += math.Cos(angle) * a.cfg.StepLength
		pos.Y += math.Sin(angle) * a.cfg.StepLength

		if a.cfg.Boundary == Clamp {
			pos.X = clamp(pos.X, 0, w-1)
			pos.Y = clamp(pos.Y, 0, h-1)
		} else {
			pos.X = wrap(pos.X, w)
			pos.Y = wrap(pos.Y, h)
		}

		trail.Push(pos.X, pos.Y)
	}
}

// render stamps each trail sample with a 3×3 soft footprint. The newest
// sample has weight 1 and older ones fall off along the fade curve.
func (a *Animator) render() *mat.Dense {
	width, height := a.cfg.Width, a.cfg.Height
	frame := mat.NewDense(height, width, nil)
	buf := frame.RawMatrix().Data

	query := a.filter.Query()
	for query.Next() {
		_, trail := query.Get()
		n := trail.Len()
		for i := 0; i < n; i++ {
			alpha := float64(a.cfg.Fade(float32(i+1), 0, 1, float32(n)))
			x, y := trail.At(i)
			col, row := int(x), int(y)
			if col < 0 || col >= width || row < 0 || row >= height {
				continue
			}

			centre := row*width + col
			buf[centre] = math.Max(buf[centre], alpha)
			for r := max(0, row-1); r <= min(height-1, row+1); r++ {
				for c := max(0, col-1); c <= min(width-1, col+1); c++ {
					k := r*width + c
					buf[k] = math.Min(buf[k]+alpha*0.3, 1)
				}
			}
		}
	}
	return frame
}

func wrap(v, size float64) float64 {
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	// Mod of a tiny negative number can round up to size itself
	if v >= size {
		v = 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
