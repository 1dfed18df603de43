package viewport

import (
	"math"
	"testing"

	"github.com/pthm-cable/patterns/grid"
)

var home = grid.Bounds{Xmin: -2.5, Xmax: 1, Ymin: -1, Ymax: 1}

func TestNew(t *testing.T) {
	v := New(800, 600, home)

	// Should be centered on home
	if v.X != -0.75 || v.Y != 0 {
		t.Errorf("expected centre (-0.75, 0), got (%f, %f)", v.X, v.Y)
	}
	if v.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", v.Zoom)
	}
	if v.Bounds() != home {
		t.Errorf("expected bounds %+v, got %+v", home, v.Bounds())
	}
}

func TestScreenCornersMatchGrid(t *testing.T) {
	v := New(800, 600, home)
	g, err := v.Grid()
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}

	corners := []struct{ sx, sy float64 }{{0, 0}, {799, 0}, {0, 599}, {799, 599}}
	for _, c := range corners {
		wx, wy := v.ScreenToWorld(c.sx, c.sy)
		gx := g.X.At(int(c.sy), int(c.sx))
		gy := g.Y.At(int(c.sy), int(c.sx))
		if math.Abs(wx-gx) > 1e-9 || math.Abs(wy-gy) > 1e-9 {
			t.Errorf("pixel (%v,%v): viewport (%f,%f), grid (%f,%f)", c.sx, c.sy, wx, wy, gx, gy)
		}
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	v := New(800, 600, home)
	v.Focus(-0.7435, 0.1314, 250)

	testCases := []struct{ sx, sy float64 }{
		{400, 300}, // center
		{10, 10},   // top-left
		{790, 590}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := v.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := v.WorldToScreen(wx, wy)
		if math.Abs(sx-tc.sx) > 1e-6 || math.Abs(sy-tc.sy) > 1e-6 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanMovesContentWithDrag(t *testing.T) {
	v := New(801, 601, grid.Bounds{Xmin: 0, Xmax: 8, Ymin: 0, Ymax: 6})

	// one pixel is 0.01 in both axes
	v.Pan(100, -50)
	if math.Abs(v.X-3) > 1e-9 || math.Abs(v.Y-3.5) > 1e-9 {
		t.Errorf("expected centre (3, 3.5), got (%f, %f)", v.X, v.Y)
	}
}

func TestZoomAtKeepsCursorFixed(t *testing.T) {
	v := New(800, 600, home)
	before, _ := v.ScreenToWorld(200, 150)

	v.ZoomAt(200, 150, 3)

	after, _ := v.ScreenToWorld(200, 150)
	if math.Abs(before-after) > 1e-9 {
		t.Errorf("point under cursor moved from %f to %f", before, after)
	}
	if v.Zoom != 3 {
		t.Errorf("expected zoom 3, got %f", v.Zoom)
	}
	if w := v.Bounds().Width(); math.Abs(w-home.Width()/3) > 1e-9 {
		t.Errorf("expected width %f, got %f", home.Width()/3, w)
	}
}

func TestZoomClamp(t *testing.T) {
	v := New(800, 600, home)

	v.SetZoom(0.01) // Below min
	if v.Zoom != v.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", v.MinZoom, v.Zoom)
	}

	v.SetZoom(1e20) // Above max
	if v.Zoom != v.MaxZoom {
		t.Errorf("expected zoom clamped to %g, got %g", v.MaxZoom, v.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	v := New(800, 600, home)

	if !v.IsVisible(-0.75, 0) {
		t.Error("center should be visible")
	}
	if v.IsVisible(3, 0) {
		t.Error("far point should not be visible")
	}
}

func TestResizeKeepsWindow(t *testing.T) {
	v := New(800, 600, home)
	v.Resize(0, 300)

	if v.ScreenW != 1 || v.ScreenH != 300 {
		t.Errorf("expected screen 1x300, got %dx%d", v.ScreenW, v.ScreenH)
	}
	if v.Bounds() != home {
		t.Errorf("resize changed window to %+v", v.Bounds())
	}
	if _, err := v.Grid(); err != nil {
		t.Errorf("Grid on a 1-pixel-wide screen: %v", err)
	}
}

func TestReset(t *testing.T) {
	v := New(800, 600, home)
	v.X = 5
	v.Y = 5
	v.Zoom = 2.5

	v.Reset()

	if v.X != -0.75 || v.Y != 0 {
		t.Errorf("expected position (-0.75, 0), got (%f, %f)", v.X, v.Y)
	}
	if v.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", v.Zoom)
	}
}

func TestZoomForWidth(t *testing.T) {
	v := New(800, 600, home)
	z := v.ZoomForWidth(0.035)
	v.Focus(-0.7435, 0.1314, z)
	if w := v.Bounds().Width(); math.Abs(w-0.035) > 1e-12 {
		t.Errorf("expected width 0.035, got %g", w)
	}
}

func TestFocusBounds(t *testing.T) {
	v := New(800, 600, home)
	region := grid.Bounds{Xmin: -0.8, Xmax: -0.7, Ymin: 0.05, Ymax: 0.15}
	v.FocusBounds(region)

	b := v.Bounds()
	if math.Abs(b.Width()-region.Width()) > 1e-12 {
		t.Errorf("expected width %g, got %g", region.Width(), b.Width())
	}
	if cx, cy := b.Center(); math.Abs(cx+0.75) > 1e-12 || math.Abs(cy-0.1) > 1e-12 {
		t.Errorf("expected centre (-0.75, 0.1), got (%v, %v)", cx, cy)
	}
}

func TestMarker(t *testing.T) {
	v := New(800, 600, home)

	sx, sy, ok := v.Marker(-0.75, 0)
	if !ok {
		t.Fatal("centre should have a marker")
	}
	if wx, wy := v.ScreenToWorld(sx, sy); math.Abs(wx+0.75) > 1e-9 || math.Abs(wy) > 1e-9 {
		t.Errorf("marker (%v, %v) maps back to (%v, %v)", sx, sy, wx, wy)
	}

	if _, _, ok := v.Marker(3, 0); ok {
		t.Error("off-screen point should have no marker")
	}
}
