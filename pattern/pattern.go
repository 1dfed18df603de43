// Package pattern is the catalogue of named patterns the CLI and tools
// can generate. Each entry knows its family, its default colormap and how
// to evaluate itself from a config.
package pattern

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/patterns/config"
	"github.com/pthm-cable/patterns/fractal"
	"github.com/pthm-cable/patterns/geometric"
	"github.com/pthm-cable/patterns/grid"
	"github.com/pthm-cable/patterns/parametric"
	"github.com/pthm-cable/patterns/telemetry"
	"github.com/pthm-cable/patterns/waves"
)

// ErrUnknown is returned for names not in the catalogue.
var ErrUnknown = errors.New("pattern: unknown pattern")

// Families.
const (
	Fractal    = "fractal"
	Geometric  = "geometric"
	Waves      = "waves"
	Parametric = "parametric"
)

// PhaseTimer receives phase boundaries while a pattern is generated.
// *telemetry.PerfCollector satisfies it.
type PhaseTimer interface {
	StartPhase(phase string)
}

type noTimer struct{}

func (noTimer) StartPhase(string) {}

// Request describes one evaluation.
type Request struct {
	Config        *config.Config
	Width, Height int
	Seed          int64      // drives randomized patterns (voronoi)
	Timer         PhaseTimer // optional
}

func (r Request) timer() PhaseTimer {
	if r.Timer == nil {
		return noTimer{}
	}
	return r.Timer
}

// Pattern is one catalogue entry.
type Pattern struct {
	Name     string
	Family   string
	Colormap string

	// evaluate builds the grid and evaluates the pattern over it
	evaluate func(r Request) (*mat.Dense, error)

	// curve is set for parametric patterns and returns pixel-space points
	curve func(r Request) ([]grid.Point, error)
}

// IsCurve reports whether the pattern is a parametric curve that can also
// be exported as SVG.
func (p Pattern) IsCurve() bool { return p.curve != nil }

// ColormapFor returns the colormap configured for p, falling back to the
// catalogue default.
func (p Pattern) ColormapFor(cfg *config.Config) string {
	if name, ok := cfg.Output.Colormaps[p.Name]; ok && name != "" {
		return name
	}
	return p.Colormap
}

// Generate evaluates the pattern into a Height×Width intensity field.
func (p Pattern) Generate(r Request) (*mat.Dense, error) {
	if r.Config == nil {
		return nil, fmt.Errorf("pattern %s: nil config", p.Name)
	}
	if r.Width < 1 || r.Height < 1 {
		return nil, fmt.Errorf("pattern %s: size %dx%d: %w", p.Name, r.Width, r.Height, grid.ErrInvalidArgument)
	}
	f, err := p.evaluate(r)
	if err != nil {
		return nil, fmt.Errorf("pattern %s: %w", p.Name, err)
	}
	return f, nil
}

// Curve returns the pixel-space points of a parametric pattern.
func (p Pattern) Curve(r Request) ([]grid.Point, error) {
	if p.curve == nil {
		return nil, fmt.Errorf("pattern %s is not a curve", p.Name)
	}
	if r.Config == nil {
		return nil, fmt.Errorf("pattern %s: nil config", p.Name)
	}
	pts, err := p.curve(r)
	if err != nil {
		return nil, fmt.Errorf("pattern %s: %w", p.Name, err)
	}
	return pts, nil
}

// catalogue lists every pattern in generation order.
var catalogue = []Pattern{
	{Name: "mandelbrot", Family: Fractal, Colormap: "hot", evaluate: escape(mandelbrot)},
	{Name: "julia", Family: Fractal, Colormap: "twilight", evaluate: escape(julia)},
	{Name: "burning_ship", Family: Fractal, Colormap: "inferno", evaluate: escape(burningShip)},

	{Name: "spiral", Family: Geometric, Colormap: "binary", evaluate: spiral},
	{Name: "spiral_logarithmic", Family: Geometric, Colormap: "binary", evaluate: fixedSpiral(geometric.Logarithmic, 8)},
	{Name: "spiral_fermat", Family: Geometric, Colormap: "binary", evaluate: fixedSpiral(geometric.Fermat, 10)},
	{Name: "voronoi", Family: Geometric, Colormap: "tab20", evaluate: voronoi},
	{Name: "voronoi_distance", Family: Geometric, Colormap: "magma", evaluate: voronoiDistance},
	{Name: "hexagonal", Family: Geometric, Colormap: "set3", evaluate: hexagonal},
	{Name: "circular_waves", Family: Geometric, Colormap: "twilight", evaluate: circularWaves},

	{Name: "interference", Family: Waves, Colormap: "coolwarm", evaluate: interference},
	{Name: "moire", Family: Waves, Colormap: "gray", evaluate: moire},
	{Name: "standing", Family: Waves, Colormap: "seismic", evaluate: standing},
	{Name: "ripple", Family: Waves, Colormap: "ocean", evaluate: ripple},
	{Name: "superposition", Family: Waves, Colormap: "viridis", evaluate: superposition},
	{Name: "combined", Family: Waves, Colormap: "twilight", evaluate: combined},

	{Name: "lissajous", Family: Parametric, Colormap: "magma", curve: lissajous},
	{Name: "lissajous_5_6", Family: Parametric, Colormap: "plasma", curve: fixedLissajous(5, 6, 0)},
	{Name: "rose", Family: Parametric, Colormap: "spring", curve: rose},
	{Name: "rose_5_3", Family: Parametric, Colormap: "summer", curve: fixedRose(5, 3)},
	{Name: "hypotrochoid", Family: Parametric, Colormap: "autumn", curve: hypotrochoid},
	{Name: "butterfly", Family: Parametric, Colormap: "cool", curve: butterfly},
}

func init() {
	for i := range catalogue {
		if p := &catalogue[i]; p.curve != nil {
			p.evaluate = rasterized(p.curve)
		}
	}
}

// All returns the catalogue in generation order.
func All() []Pattern {
	out := make([]Pattern, len(catalogue))
	copy(out, catalogue)
	return out
}

// Names returns the catalogue names in generation order.
func Names() []string {
	names := make([]string, len(catalogue))
	for i, p := range catalogue {
		names[i] = p.Name
	}
	return names
}

// Lookup finds a pattern by name.
func Lookup(name string) (Pattern, error) {
	for _, p := range catalogue {
		if p.Name == name {
			return p, nil
		}
	}
	return Pattern{}, fmt.Errorf("%w: %q", ErrUnknown, name)
}

// pixels builds the pixel-index grid used by every non-fractal pattern.
func pixels(r Request) (grid.Grid, error) {
	r.timer().StartPhase(telemetry.PhaseGrid)
	g, err := grid.Pixels(r.Width, r.Height)
	r.timer().StartPhase(telemetry.PhaseEvaluate)
	return g, err
}

// --- fractals ---

type escapeSetup func(cfg *config.Config) (grid.Bounds, fractal.Rule, error)

func escape(setup escapeSetup) func(r Request) (*mat.Dense, error) {
	return func(r Request) (*mat.Dense, error) {
		b, rule, err := setup(r.Config)
		if err != nil {
			return nil, err
		}
		r.timer().StartPhase(telemetry.PhaseGrid)
		g, err := grid.Build(r.Width, r.Height, b)
		if err != nil {
			return nil, err
		}
		r.timer().StartPhase(telemetry.PhaseEvaluate)
		if r.Config.Fractal.Smooth {
			return fractal.SmoothEscapeTime(g, rule, r.Config.Fractal.MaxIter)
		}
		return fractal.EscapeTime(g, rule, r.Config.Fractal.MaxIter)
	}
}

func mandelbrot(cfg *config.Config) (grid.Bounds, fractal.Rule, error) {
	b := cfg.Fractal.MandelbrotView.Bounds()
	if name := cfg.Fractal.Region; name != "" {
		rb, ok := fractal.Regions[name]
		if !ok {
			return grid.Bounds{}, fractal.Rule{}, fmt.Errorf("%w: unknown region %q", ErrUnknown, name)
		}
		b = rb
	}
	return b, fractal.Mandelbrot(), nil
}

func julia(cfg *config.Config) (grid.Bounds, fractal.Rule, error) {
	return cfg.Fractal.JuliaView.Bounds(), fractal.Julia(cfg.Derived.JuliaC), nil
}

func burningShip(cfg *config.Config) (grid.Bounds, fractal.Rule, error) {
	return cfg.Fractal.BurningShipView.Bounds(), fractal.BurningShip(), nil
}

// --- geometric ---

func spiral(r Request) (*mat.Dense, error) {
	gc := r.Config.Geometric
	kind, err := geometric.ParseSpiralKind(gc.SpiralKind)
	if err != nil {
		return nil, err
	}
	g, err := pixels(r)
	if err != nil {
		return nil, err
	}
	return geometric.Spiral(g, kind, gc.SpiralTurns, gc.SpiralThickness)
}

// fixedSpiral draws a spiral of one kind and turn count regardless of the
// configured spiral_kind.
func fixedSpiral(kind geometric.SpiralKind, turns float64) func(r Request) (*mat.Dense, error) {
	return func(r Request) (*mat.Dense, error) {
		g, err := pixels(r)
		if err != nil {
			return nil, err
		}
		return geometric.Spiral(g, kind, turns, r.Config.Geometric.SpiralThickness)
	}
}

func voronoi(r Request) (*mat.Dense, error) {
	g, err := pixels(r)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(r.Seed))
	f, _, err := geometric.VoronoiCells(g, rng, r.Config.Geometric.VoronoiPoints)
	return f, err
}

// voronoiDistance shades each pixel by its distance to the nearest seed.
// The seeds match voronoi's for the same request seed.
func voronoiDistance(r Request) (*mat.Dense, error) {
	g, err := pixels(r)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(r.Seed))
	seeds, err := geometric.RandomSeeds(rng, g.Bounds, r.Config.Geometric.VoronoiPoints)
	if err != nil {
		return nil, err
	}
	return geometric.VoronoiDistance(g, seeds)
}

func hexagonal(r Request) (*mat.Dense, error) {
	g, err := pixels(r)
	if err != nil {
		return nil, err
	}
	return geometric.Hexagonal(g, r.Config.Geometric.HexSize)
}

func circularWaves(r Request) (*mat.Dense, error) {
	g, err := pixels(r)
	if err != nil {
		return nil, err
	}
	cx, cy := g.Bounds.Center()
	return geometric.CircularWaves(g, r.Config.Geometric.CircularWaves, grid.Point{X: cx, Y: cy})
}

// --- waves ---

func interference(r Request) (*mat.Dense, error) {
	g, err := pixels(r)
	if err != nil {
		return nil, err
	}
	return waves.Interference(g, r.Config.Derived.Sources, r.Config.Waves.Wavelength)
}

func moire(r Request) (*mat.Dense, error) {
	g, err := pixels(r)
	if err != nil {
		return nil, err
	}
	m := r.Config.Waves.Moire
	if len(m) != 2 {
		return nil, fmt.Errorf("%w: moire needs 2 gratings, got %d", waves.ErrInvalidArgument, len(m))
	}
	return waves.Moire(g,
		waves.Grating{Period: m[0].Period, Angle: m[0].Angle},
		waves.Grating{Period: m[1].Period, Angle: m[1].Angle})
}

func standing(r Request) (*mat.Dense, error) {
	g, err := pixels(r)
	if err != nil {
		return nil, err
	}
	modes := r.Config.Waves.StandingModes
	return waves.Standing(g, modes[0], modes[1])
}

func ripple(r Request) (*mat.Dense, error) {
	g, err := pixels(r)
	if err != nil {
		return nil, err
	}
	wc := r.Config.Waves
	return waves.Ripple(g, r.Config.Derived.Ripples, wc.RippleRings, wc.RippleDecay)
}

func superposition(r Request) (*mat.Dense, error) {
	g, err := pixels(r)
	if err != nil {
		return nil, err
	}
	return waves.Superposition(g, r.Config.Waves.Directions, r.Config.Waves.SuperpositionWavelength)
}

// combined is the even mix of superposition and circular_waves.
func combined(r Request) (*mat.Dense, error) {
	g, err := pixels(r)
	if err != nil {
		return nil, err
	}
	wc, gc := r.Config.Waves, r.Config.Geometric
	sup, err := waves.Superposition(g, wc.Directions, wc.SuperpositionWavelength)
	if err != nil {
		return nil, err
	}
	cx, cy := g.Bounds.Center()
	rings, err := geometric.CircularWaves(g, gc.CircularWaves, grid.Point{X: cx, Y: cy})
	if err != nil {
		return nil, err
	}
	sup.Add(sup, rings)
	sup.Scale(0.5, sup)
	return sup, nil
}

// --- parametric ---

func rasterized(curve func(r Request) ([]grid.Point, error)) func(r Request) (*mat.Dense, error) {
	return func(r Request) (*mat.Dense, error) {
		r.timer().StartPhase(telemetry.PhaseEvaluate)
		pts, err := curve(r)
		if err != nil {
			return nil, err
		}
		return parametric.Rasterize(pts, r.Width, r.Height, r.Config.Parametric.Thickness)
	}
}

func lissajous(r Request) ([]grid.Point, error) {
	pc := r.Config.Parametric
	pts, err := parametric.Lissajous(pc.Lissajous.A, pc.Lissajous.B, pc.Lissajous.Delta, pc.Samples)
	if err != nil {
		return nil, err
	}
	return parametric.FitBox(pts, r.Width, r.Height, pc.Margin), nil
}

func rose(r Request) ([]grid.Point, error) {
	pc := r.Config.Parametric
	pts, err := parametric.Rose(pc.Rose.N, pc.Rose.D, pc.Samples)
	if err != nil {
		return nil, err
	}
	return parametric.FitCentred(pts, r.Width, r.Height, pc.Rose.Fraction), nil
}

func fixedLissajous(a, b, delta float64) func(r Request) ([]grid.Point, error) {
	return func(r Request) ([]grid.Point, error) {
		pc := r.Config.Parametric
		pts, err := parametric.Lissajous(a, b, delta, pc.Samples)
		if err != nil {
			return nil, err
		}
		return parametric.FitBox(pts, r.Width, r.Height, pc.Margin), nil
	}
}

func fixedRose(n, d int) func(r Request) ([]grid.Point, error) {
	return func(r Request) ([]grid.Point, error) {
		pc := r.Config.Parametric
		pts, err := parametric.Rose(n, d, pc.Samples)
		if err != nil {
			return nil, err
		}
		return parametric.FitCentred(pts, r.Width, r.Height, pc.Rose.Fraction), nil
	}
}

func hypotrochoid(r Request) ([]grid.Point, error) {
	pc := r.Config.Parametric
	h := pc.Hypotrochoid
	pts, err := parametric.Hypotrochoid(h.R, h.Rolling, h.D, pc.Samples)
	if err != nil {
		return nil, err
	}
	return parametric.FitCentred(pts, r.Width, r.Height, h.Fraction), nil
}

func butterfly(r Request) ([]grid.Point, error) {
	pc := r.Config.Parametric
	pts, err := parametric.Butterfly(pc.Samples)
	if err != nil {
		return nil, err
	}
	return parametric.FitCentred(pts, r.Width, r.Height, pc.Butterfly.Fraction), nil
}
