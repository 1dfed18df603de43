package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Tile is one labelled image on a contact sheet.
type Tile struct {
	Label string
	Image image.Image
}

// Sheet layout constants.
const (
	SheetPadding = 8
	LabelHeight  = 18
)

// ContactSheet lays tiles out on a grid of cols columns. Each cell is
// tileW×tileH plus a label strip underneath; larger images are cropped
// to the cell and smaller ones are centred.
func ContactSheet(tiles []Tile, cols, tileW, tileH int) (image.Image, error) {
	if len(tiles) == 0 {
		return nil, fmt.Errorf("%w: no tiles", ErrInvalidArgument)
	}
	if cols < 1 || tileW < 1 || tileH < 1 {
		return nil, fmt.Errorf("%w: sheet %d cols of %dx%d", ErrInvalidArgument, cols, tileW, tileH)
	}
	rows := (len(tiles) + cols - 1) / cols
	cellW := tileW + SheetPadding
	cellH := tileH + LabelHeight + SheetPadding

	dc := gg.NewContext(cols*cellW+SheetPadding, rows*cellH+SheetPadding)
	dc.SetColor(color.Gray{Y: 24})
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	for i, t := range tiles {
		x := SheetPadding + (i%cols)*cellW
		y := SheetPadding + (i/cols)*cellH

		b := t.Image.Bounds()
		ox := x + (tileW-b.Dx())/2
		oy := y + (tileH-b.Dy())/2
		dc.Push()
		dc.DrawRectangle(float64(x), float64(y), float64(tileW), float64(tileH))
		dc.Clip()
		dc.DrawImage(t.Image, ox-b.Min.X, oy-b.Min.Y)
		dc.ResetClip()
		dc.Pop()

		dc.SetColor(color.Gray{Y: 230})
		dc.DrawStringAnchored(t.Label, float64(x)+float64(tileW)/2, float64(y+tileH)+LabelHeight/2, 0.5, 0.5)
	}
	return dc.Image(), nil
}
