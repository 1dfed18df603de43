package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Normalize linearly rescales field into [0, 1] using its own min and max.
// A constant field maps to all zeros. NaN entries stay NaN.
func Normalize(field *mat.Dense) *mat.Dense {
	r, c := field.Dims()
	out := mat.NewDense(r, c, nil)
	raw := out.RawMatrix().Data
	for i := 0; i < r; i++ {
		copy(raw[i*c:(i+1)*c], field.RawRowView(i))
	}

	finite := make([]float64, 0, len(raw))
	for _, v := range raw {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return out
	}
	lo, hi := floats.Min(finite), floats.Max(finite)
	if hi == lo {
		for i, v := range raw {
			if !math.IsNaN(v) {
				raw[i] = 0
			}
		}
		return out
	}
	floats.AddConst(-lo, raw)
	floats.Scale(1/(hi-lo), raw)
	return out
}

// Colorize normalizes field and maps it through cm. Row 0 of the field is
// the top row of the image.
func Colorize(field *mat.Dense, cm *Colormap) *image.RGBA {
	return colorize(Normalize(field), cm)
}

func colorize(unit *mat.Dense, cm *Colormap) *image.RGBA {
	r, c := unit.Dims()
	lut := cm.LUT()
	img := image.NewRGBA(image.Rect(0, 0, c, r))
	for y := 0; y < r; y++ {
		row := unit.RawRowView(y)
		for x, v := range row {
			img.SetRGBA(x, y, lut[lutIndex(v)])
		}
	}
	return img
}

// Paletted maps a field already scaled to [lo, hi] onto the colormap's own
// palette. No dithering is needed since every output colour is a LUT entry.
func Paletted(field *mat.Dense, cm *Colormap, lo, hi float64) (*image.Paletted, error) {
	if !(hi > lo) {
		return nil, fmt.Errorf("%w: range [%g, %g]", ErrInvalidArgument, lo, hi)
	}
	r, c := field.Dims()
	img := image.NewPaletted(image.Rect(0, 0, c, r), cm.Palette())
	for y := 0; y < r; y++ {
		row := field.RawRowView(y)
		off := y * img.Stride
		for x, v := range row {
			img.Pix[off+x] = uint8(lutIndex((v - lo) / (hi - lo)))
		}
	}
	return img, nil
}

// ComposeRGB packs three [0, 1] channel fields into an image. The fields
// must share a shape.
func ComposeRGB(red, green, blue *mat.Dense) (*image.RGBA, error) {
	r, c := red.Dims()
	if gr, gc := green.Dims(); gr != r || gc != c {
		return nil, fmt.Errorf("%w: green is %dx%d, red is %dx%d", ErrInvalidArgument, gr, gc, r, c)
	}
	if br, bc := blue.Dims(); br != r || bc != c {
		return nil, fmt.Errorf("%w: blue is %dx%d, red is %dx%d", ErrInvalidArgument, br, bc, r, c)
	}
	img := image.NewRGBA(image.Rect(0, 0, c, r))
	for y := 0; y < r; y++ {
		rr, gg, bb := red.RawRowView(y), green.RawRowView(y), blue.RawRowView(y)
		for x := 0; x < c; x++ {
			img.SetRGBA(x, y, color.RGBA{R: channel8(rr[x]), G: channel8(gg[x]), B: channel8(bb[x]), A: 255})
		}
	}
	return img, nil
}

func channel8(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// Quantize converts a true-colour image to the Plan 9 palette with
// Floyd-Steinberg dithering for GIF output.
func Quantize(img image.Image) *image.Paletted {
	b := img.Bounds()
	out := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(out, b, img, b.Min)
	return out
}
