// Package config provides configuration loading and access for the pattern generator.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/patterns/grid"
	"github.com/pthm-cable/patterns/renderer"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all generator configuration parameters.
type Config struct {
	Canvas     CanvasConfig     `yaml:"canvas"`
	Fractal    FractalConfig    `yaml:"fractal"`
	Geometric  GeometricConfig  `yaml:"geometric"`
	Waves      WavesConfig      `yaml:"waves"`
	Parametric ParametricConfig `yaml:"parametric"`
	Flow       FlowConfig       `yaml:"flow"`
	Plasma     PlasmaConfig     `yaml:"plasma"`
	Output     OutputConfig     `yaml:"output"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// CanvasConfig holds the default image size.
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// BoundsConfig is a rectangle of the complex plane.
type BoundsConfig struct {
	Xmin float64 `yaml:"xmin"`
	Xmax float64 `yaml:"xmax"`
	Ymin float64 `yaml:"ymin"`
	Ymax float64 `yaml:"ymax"`
}

// Bounds converts to grid bounds.
func (b BoundsConfig) Bounds() grid.Bounds {
	return grid.Bounds{Xmin: b.Xmin, Xmax: b.Xmax, Ymin: b.Ymin, Ymax: b.Ymax}
}

// ComplexConfig is a complex constant.
type ComplexConfig struct {
	Re float64 `yaml:"re"`
	Im float64 `yaml:"im"`
}

// FractalConfig holds escape-time parameters.
type FractalConfig struct {
	MaxIter         int           `yaml:"max_iter"`
	Smooth          bool          `yaml:"smooth"` // fractional escape counts instead of integer ones
	Region          string        `yaml:"region"` // named Mandelbrot view, overrides mandelbrot_bounds when set
	MandelbrotView  BoundsConfig  `yaml:"mandelbrot_bounds"`
	JuliaView       BoundsConfig  `yaml:"julia_bounds"`
	BurningShipView BoundsConfig  `yaml:"burning_ship_bounds"`
	JuliaC          ComplexConfig `yaml:"julia_c"`
}

// GeometricConfig holds spiral, Voronoi, hexagon and ring parameters.
type GeometricConfig struct {
	SpiralKind      string  `yaml:"spiral_kind"`
	SpiralTurns     float64 `yaml:"spiral_turns"`
	SpiralThickness float64 `yaml:"spiral_thickness"`
	VoronoiPoints   int     `yaml:"voronoi_points"`
	HexSize         float64 `yaml:"hex_size"`
	CircularWaves   int     `yaml:"circular_waves"`
}

// PointConfig is a position in pixel space.
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// GratingConfig is one moiré grating.
type GratingConfig struct {
	Period float64 `yaml:"period"`
	Angle  float64 `yaml:"angle"` // degrees
}

// WavesConfig holds wave-family parameters. Coordinates are pixels.
type WavesConfig struct {
	Sources                 []PointConfig   `yaml:"sources"` // empty = two sources at 30% and 70% of the width
	Wavelength              float64         `yaml:"wavelength"`
	Moire                   []GratingConfig `yaml:"moire"`
	StandingModes           [2]int          `yaml:"standing_modes"`
	RippleRings             int             `yaml:"ripple_rings"`
	RippleDecay             float64         `yaml:"ripple_decay"`
	Directions              []float64       `yaml:"directions"` // superposition, degrees
	SuperpositionWavelength float64         `yaml:"superposition_wavelength"`
}

// ParametricConfig holds curve parameters.
type ParametricConfig struct {
	Samples     int     `yaml:"samples"`
	Thickness   int     `yaml:"thickness"` // stamp half-width in pixels
	Margin      float64 `yaml:"margin"`    // lissajous box margin in pixels
	StrokeWidth float64 `yaml:"svg_stroke_width"`

	Lissajous struct {
		A     float64 `yaml:"a"`
		B     float64 `yaml:"b"`
		Delta float64 `yaml:"delta"`
	} `yaml:"lissajous"`
	Rose struct {
		N        int     `yaml:"n"`
		D        int     `yaml:"d"`
		Fraction float64 `yaml:"fraction"`
	} `yaml:"rose"`
	Hypotrochoid struct {
		R        float64 `yaml:"big_r"`
		Rolling  float64 `yaml:"r"`
		D        float64 `yaml:"d"`
		Fraction float64 `yaml:"fraction"`
	} `yaml:"hypotrochoid"`
	Butterfly struct {
		Fraction float64 `yaml:"fraction"`
	} `yaml:"butterfly"`
}

// FlowConfig holds flow-field animation parameters.
type FlowConfig struct {
	Width        int     `yaml:"width"`  // 0 = canvas width
	Height       int     `yaml:"height"` // 0 = canvas height
	NumParticles int     `yaml:"num_particles"`
	FPS          int     `yaml:"fps"`
	Duration     float64 `yaml:"duration"` // seconds
	TrailLength  int     `yaml:"trail_length"`
	StepLength   float64 `yaml:"step_length"`
	Boundary     string  `yaml:"boundary"` // wrap or clamp
	Field        string  `yaml:"field"`    // sine or noise
	FieldScale   float64 `yaml:"field_scale"`
	TimeScale    float64 `yaml:"time_scale"`
	Fade         string  `yaml:"fade"` // gween easing name
	Colormap     string  `yaml:"colormap"`
}

// PlasmaConfig holds plasma animation parameters.
type PlasmaConfig struct {
	Width    int          `yaml:"width"`  // 0 = canvas width
	Height   int          `yaml:"height"` // 0 = canvas height
	FPS      int          `yaml:"fps"`
	Duration float64      `yaml:"duration"`
	View     BoundsConfig `yaml:"bounds"`
}

// OutputConfig holds output locations and colouring.
type OutputConfig struct {
	Dir          string            `yaml:"dir"`
	Colormaps    map[string]string `yaml:"colormaps"` // pattern name -> colormap override
	SheetColumns int               `yaml:"sheet_columns"`
	SheetTileW   int               `yaml:"sheet_tile_width"`
	SheetTileH   int               `yaml:"sheet_tile_height"`

	// CustomColormaps defines extra evenly spaced colormaps by name.
	CustomColormaps map[string][]string `yaml:"custom_colormaps"`
}

// TelemetryConfig holds statistics and perf logging parameters.
type TelemetryConfig struct {
	PerfWindow     int  `yaml:"perf_window"` // samples kept for rolling perf averages
	HistogramBins  int  `yaml:"histogram_bins"`
	WritePerf      bool `yaml:"write_perf"`
	WriteManifest  bool `yaml:"write_manifest"`
	SnapshotConfig bool `yaml:"snapshot_config"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	JuliaC       complex128
	FlowWidth    int          // effective flow canvas width
	FlowHeight   int          // effective flow canvas height
	PlasmaWidth  int          // effective plasma canvas width
	PlasmaHeight int          // effective plasma canvas height
	Sources      []grid.Point // interference sources in pixels
	Ripples      []grid.Point // ripple centres in pixels
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Set replaces the global configuration. Used by tools that tweak a
// loaded config before generating.
func Set(cfg *Config) {
	cfg.computeDerived()
	global = cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// validate catches values no generator could use. Per-pattern parameters
// are checked again by the evaluators themselves.
func (c *Config) validate() error {
	if c.Canvas.Width < 1 || c.Canvas.Height < 1 {
		return fmt.Errorf("config: canvas %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	switch strings.ToLower(c.Flow.Boundary) {
	case "wrap", "clamp":
	default:
		return fmt.Errorf("config: flow.boundary %q (want wrap or clamp)", c.Flow.Boundary)
	}
	switch strings.ToLower(c.Flow.Field) {
	case "sine", "noise":
	default:
		return fmt.Errorf("config: flow.field %q (want sine or noise)", c.Flow.Field)
	}
	if len(c.Waves.Moire) != 2 {
		return fmt.Errorf("config: waves.moire needs exactly 2 gratings, got %d", len(c.Waves.Moire))
	}
	for name, colors := range c.Output.CustomColormaps {
		if _, err := renderer.FromHex(name, colors); err != nil {
			return fmt.Errorf("config: output.custom_colormaps: %w", err)
		}
	}
	for pat, name := range c.Output.Colormaps {
		if _, err := c.Colormap(name); err != nil {
			return fmt.Errorf("config: output.colormaps[%s]: %w", pat, err)
		}
	}
	if _, err := c.Colormap(c.Flow.Colormap); err != nil {
		return fmt.Errorf("config: flow.colormap: %w", err)
	}
	return nil
}

// Colormap resolves a colormap name against output.custom_colormaps and
// then the built-ins.
func (c *Config) Colormap(name string) (*renderer.Colormap, error) {
	return renderer.Resolve(name, c.Output.CustomColormaps)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.JuliaC = complex(c.Fractal.JuliaC.Re, c.Fractal.JuliaC.Im)

	// Animation canvases default to the image canvas
	c.Derived.FlowWidth = orDefault(c.Flow.Width, c.Canvas.Width)
	c.Derived.FlowHeight = orDefault(c.Flow.Height, c.Canvas.Height)
	c.Derived.PlasmaWidth = orDefault(c.Plasma.Width, c.Canvas.Width)
	c.Derived.PlasmaHeight = orDefault(c.Plasma.Height, c.Canvas.Height)

	w, h := float64(c.Canvas.Width), float64(c.Canvas.Height)
	if len(c.Waves.Sources) == 0 {
		c.Derived.Sources = []grid.Point{{X: w * 0.3, Y: h * 0.5}, {X: w * 0.7, Y: h * 0.5}}
	} else {
		c.Derived.Sources = make([]grid.Point, len(c.Waves.Sources))
		for i, s := range c.Waves.Sources {
			c.Derived.Sources[i] = grid.Point{X: s.X, Y: s.Y}
		}
	}
	c.Derived.Ripples = []grid.Point{{X: w / 2, Y: h / 2}}
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// WithCanvas returns a copy of the config with a different canvas size
// and derived values recomputed.
func (c *Config) WithCanvas(width, height int) *Config {
	cp := *c
	cp.Canvas.Width = width
	cp.Canvas.Height = height
	cp.computeDerived()
	return &cp
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
