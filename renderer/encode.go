package renderer

import (
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"io"
	"math"
	"os"
)

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// WritePNG creates path and writes img to it.
func WritePNG(path string, img image.Image) error {
	return writeFile(path, func(w io.Writer) error { return EncodePNG(w, img) })
}

// FrameDelay converts a frame rate to a GIF delay in hundredths of a
// second. GIF timing is that coarse, so 30 fps comes out as 3 (33.3 fps).
func FrameDelay(fps int) int {
	d := int(math.Round(100 / float64(fps)))
	if d < 1 {
		d = 1
	}
	return d
}

// EncodeGIF writes frames as a looping animated GIF at fps.
func EncodeGIF(w io.Writer, frames []*image.Paletted, fps int) error {
	if len(frames) == 0 {
		return fmt.Errorf("%w: no frames", ErrInvalidArgument)
	}
	if fps <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalidArgument, fps)
	}
	delay := FrameDelay(fps)
	anim := &gif.GIF{
		Image:     frames,
		Delay:     make([]int, len(frames)),
		LoopCount: 0,
	}
	for i := range anim.Delay {
		anim.Delay[i] = delay
	}
	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("encoding gif: %w", err)
	}
	return nil
}

// WriteGIF creates path and writes the animation to it.
func WriteGIF(path string, frames []*image.Paletted, fps int) error {
	return writeFile(path, func(w io.Writer) error { return EncodeGIF(w, frames, fps) })
}

func writeFile(path string, encode func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return encode(f)
}
