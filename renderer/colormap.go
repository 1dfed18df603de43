// Package renderer turns intensity fields into images: colormaps,
// normalization, PNG and GIF encoding and labelled contact sheets.
package renderer

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/mazznoer/colorgrad"
)

// ErrInvalidArgument is returned for bad colormaps, frames or canvas sizes.
var ErrInvalidArgument = errors.New("renderer: invalid argument")

// LUTSize is the number of entries a colormap is sampled into. It is also
// the GIF palette size, so it must stay ≤ 256.
const LUTSize = 256

// Colormap maps a normalized value in [0, 1] to a colour. Continuous maps
// interpolate linearly between stops; qualitative maps (tab20, set3) pick
// a discrete colour per bucket.
type Colormap struct {
	Name string
	lut  []color.RGBA
}

// At returns the colour for t. Values outside [0, 1] are clamped; NaN maps
// to the first colour.
func (c *Colormap) At(t float64) color.RGBA {
	return c.lut[lutIndex(t)]
}

// LUT returns the colormap sampled into LUTSize entries. The slice is
// shared and must not be modified.
func (c *Colormap) LUT() []color.RGBA {
	return c.lut
}

// Palette returns the LUT as a color.Palette for paletted images.
func (c *Colormap) Palette() color.Palette {
	pal := make(color.Palette, len(c.lut))
	for i, col := range c.lut {
		pal[i] = col
	}
	return pal
}

func lutIndex(t float64) int {
	if !(t > 0) {
		return 0
	}
	if t >= 1 {
		return LUTSize - 1
	}
	return int(math.Round(t * (LUTSize - 1)))
}

// gradientDef is a colormap table: CSS colours, optional positions in
// [0, 1] (nil means evenly spaced) and whether buckets are discrete.
type gradientDef struct {
	colors      []string
	pos         []float64
	qualitative bool
}

func (d gradientDef) build(name string) (*Colormap, error) {
	if len(d.colors) < 2 {
		return nil, fmt.Errorf("%w: colormap %q needs at least 2 colours", ErrInvalidArgument, name)
	}
	b := colorgrad.NewGradient().HtmlColors(d.colors...)
	if d.pos != nil {
		b = b.Domain(d.pos...)
	}
	grad, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: colormap %q: %v", ErrInvalidArgument, name, err)
	}
	if d.qualitative {
		grad = grad.Sharp(uint(len(d.colors)), 0)
	}

	lut := make([]color.RGBA, LUTSize)
	for i, col := range grad.Colors(LUTSize) {
		lut[i] = color.RGBAModel.Convert(col).(color.RGBA)
		lut[i].A = 255
	}
	return &Colormap{Name: name, lut: lut}, nil
}

// FromHex builds an evenly spaced continuous colormap from CSS colours
// such as "#rrggbb".
func FromHex(name string, hexes []string) (*Colormap, error) {
	return gradientDef{colors: hexes}.build(name)
}

// builtin holds the stop tables for the named colormaps. The perceptual
// maps are sampled from matplotlib at even intervals.
var builtin = map[string]gradientDef{
	"gray":   {colors: []string{"#000000", "#ffffff"}},
	"binary": {colors: []string{"#ffffff", "#000000"}},
	"hot": {
		colors: []string{"#0b0000", "#ff0000", "#ffff00", "#ffffff"},
		pos:    []float64{0, 0.365, 0.746, 1},
	},
	"ocean": {
		colors: []string{"#008000", "#000055", "#0080aa", "#ffffff"},
		pos:    []float64{0, 1.0 / 3, 2.0 / 3, 1},
	},
	"seismic": {
		colors: []string{"#00004c", "#0000ff", "#ffffff", "#ff0000", "#800000"},
		pos:    []float64{0, 0.25, 0.5, 0.75, 1},
	},
	"spring": {colors: []string{"#ff00ff", "#ffff00"}},
	"summer": {colors: []string{"#008066", "#ffff66"}},
	"autumn": {colors: []string{"#ff0000", "#ffff00"}},
	"cool":   {colors: []string{"#00ffff", "#ff00ff"}},
	"coolwarm": {colors: []string{
		"#3b4cc0", "#6f92f3", "#aac7fd", "#dddcdc", "#f6b89c", "#e7745b", "#b40426"}},
	"viridis": {colors: []string{
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}},
	"magma": {colors: []string{
		"#000004", "#1c1044", "#4f127b", "#812581", "#b5367a",
		"#e55964", "#fb8761", "#fec287", "#fcfdbf"}},
	"inferno": {colors: []string{
		"#000004", "#1f0c48", "#550f6d", "#88226a", "#ba3655",
		"#e35933", "#f98e09", "#f8c932", "#fcffa4"}},
	"plasma": {colors: []string{
		"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786",
		"#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921"}},
	"twilight": {colors: []string{
		"#e2d9e2", "#9ebbc9", "#6785be", "#5e43a5", "#421e4f",
		"#6d2144", "#a8584b", "#c9a395", "#e2d9e2"}},
	"tab20": {qualitative: true, colors: []string{
		"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
		"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
		"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
		"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5"}},
	"set3": {qualitative: true, colors: []string{
		"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462",
		"#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f"}},
}

// Lookup returns a fresh copy of the named built-in colormap. Names are
// case-insensitive.
func Lookup(name string) (*Colormap, error) {
	def, ok := builtin[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown colormap %q", ErrInvalidArgument, name)
	}
	return def.build(strings.ToLower(name))
}

// Resolve looks name up in custom first, then among the built-ins. custom
// maps colormap names to evenly spaced colour lists.
func Resolve(name string, custom map[string][]string) (*Colormap, error) {
	for n, colors := range custom {
		if strings.EqualFold(n, name) {
			return FromHex(n, colors)
		}
	}
	return Lookup(name)
}

// Names lists the built-in colormaps in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
