// Package viewport provides pan and zoom over the mathematical domain.
package viewport

import (
	"math"

	"github.com/pthm-cable/patterns/grid"
)

// Viewport maps a screen of ScreenW×ScreenH pixels onto a window of the
// domain. At zoom 1 the window is exactly Home; higher zoom magnifies
// around the centre.
type Viewport struct {
	// Centre of the window in domain coordinates
	X, Y float64

	// Zoom level (1.0 = Home, 2.0 = half the extent on each axis)
	Zoom float64

	ScreenW, ScreenH int

	// Home is the window shown at zoom 1 and after Reset
	Home grid.Bounds

	MinZoom, MaxZoom float64
}

// New creates a viewport showing home on a screenW×screenH screen.
// Screen sizes below 1 are raised to 1.
func New(screenW, screenH int, home grid.Bounds) *Viewport {
	cx, cy := home.Center()
	return &Viewport{
		X:       cx,
		Y:       cy,
		Zoom:    1.0,
		ScreenW: max(screenW, 1),
		ScreenH: max(screenH, 1),
		Home:    home,
		MinZoom: 0.25,
		MaxZoom: 1e12,
	}
}

// Bounds returns the domain window currently on screen.
func (v *Viewport) Bounds() grid.Bounds {
	halfW := v.Home.Width() / (2 * v.Zoom)
	halfH := v.Home.Height() / (2 * v.Zoom)
	return grid.Bounds{
		Xmin: v.X - halfW,
		Xmax: v.X + halfW,
		Ymin: v.Y - halfH,
		Ymax: v.Y + halfH,
	}
}

// Grid builds the coordinate grid for the current window at screen size.
func (v *Viewport) Grid() (grid.Grid, error) {
	return grid.Build(v.ScreenW, v.ScreenH, v.Bounds())
}

// ScreenToWorld converts a pixel position to domain coordinates using the
// same pixel-centre convention as grid.Build: pixel 0 sits on Xmin and
// pixel ScreenW-1 on Xmax.
func (v *Viewport) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	b := v.Bounds()
	wx = b.Xmin + sx*v.pixelW(b)
	wy = b.Ymin + sy*v.pixelH(b)
	return wx, wy
}

// WorldToScreen is the inverse of ScreenToWorld.
func (v *Viewport) WorldToScreen(wx, wy float64) (sx, sy float64) {
	b := v.Bounds()
	sx = (wx - b.Xmin) / v.pixelW(b)
	sy = (wy - b.Ymin) / v.pixelH(b)
	return sx, sy
}

func (v *Viewport) pixelW(b grid.Bounds) float64 {
	return b.Width() / float64(max(v.ScreenW-1, 1))
}

func (v *Viewport) pixelH(b grid.Bounds) float64 {
	return b.Height() / float64(max(v.ScreenH-1, 1))
}

// IsVisible reports whether a domain point lies inside the window.
func (v *Viewport) IsVisible(wx, wy float64) bool {
	b := v.Bounds()
	return wx >= b.Xmin && wx <= b.Xmax && wy >= b.Ymin && wy <= b.Ymax
}

// Pan moves the window by a delta in screen pixels. Dragging right by
// dx pixels moves the content right, so the centre moves left.
func (v *Viewport) Pan(dx, dy float64) {
	b := v.Bounds()
	v.X -= dx * v.pixelW(b)
	v.Y -= dy * v.pixelH(b)
}

// SetZoom sets the zoom level, clamped to min/max.
func (v *Viewport) SetZoom(zoom float64) {
	v.Zoom = clamp(zoom, v.MinZoom, v.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (v *Viewport) ZoomBy(factor float64) {
	v.SetZoom(v.Zoom * factor)
}

// ZoomAt zooms by factor keeping the domain point under (sx, sy) fixed on
// screen, which is what a mouse wheel over the image should do.
func (v *Viewport) ZoomAt(sx, sy, factor float64) {
	wx, wy := v.ScreenToWorld(sx, sy)
	v.ZoomBy(factor)
	nx, ny := v.ScreenToWorld(sx, sy)
	v.X += wx - nx
	v.Y += wy - ny
}

// Resize updates the screen dimensions. The domain window is unchanged.
func (v *Viewport) Resize(screenW, screenH int) {
	v.ScreenW = max(screenW, 1)
	v.ScreenH = max(screenH, 1)
}

// Reset returns to Home at zoom 1.
func (v *Viewport) Reset() {
	v.X, v.Y = v.Home.Center()
	v.Zoom = 1.0
}

// Focus centres the window on (x, y) at the given zoom.
func (v *Viewport) Focus(x, y, zoom float64) {
	v.X, v.Y = x, y
	v.SetZoom(zoom)
}

// ZoomForWidth returns the zoom at which the window is width wide.
func (v *Viewport) ZoomForWidth(width float64) float64 {
	if !(width > 0) {
		return v.MaxZoom
	}
	return v.Home.Width() / width
}

// FocusBounds centres the window on b at the zoom that shows its full width.
func (v *Viewport) FocusBounds(b grid.Bounds) {
	x, y := b.Center()
	v.Focus(x, y, v.ZoomForWidth(b.Width()))
}

// Marker returns the screen position of a domain point, or ok=false when
// the point is outside the window.
func (v *Viewport) Marker(wx, wy float64) (sx, sy float64, ok bool) {
	if !v.IsVisible(wx, wy) {
		return 0, 0, false
	}
	sx, sy = v.WorldToScreen(wx, wy)
	return sx, sy, true
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
