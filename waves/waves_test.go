package waves

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/patterns/grid"
)

func pixels(t *testing.T, w, h int) grid.Grid {
	t.Helper()
	g, err := grid.Pixels(w, h)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestInterferenceSingleSourceIdentity(t *testing.T) {
	g := pixels(t, 50, 40)
	src := grid.Point{X: 12.5, Y: 30}
	const wavelength = 7.0

	f, err := Interference(g, []grid.Point{src}, wavelength)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 40; i++ {
		for j := 0; j < 50; j++ {
			d := math.Hypot(float64(j)-src.X, float64(i)-src.Y)
			if want := math.Sin(2 * math.Pi * d / wavelength); f.At(i, j) != want {
				t.Fatalf("(%d,%d) = %g, want %g", i, j, f.At(i, j), want)
			}
		}
	}
}

func TestInterferenceIsSumOfSources(t *testing.T) {
	g := pixels(t, 30, 20)
	a := grid.Point{X: 5, Y: 10}
	b := grid.Point{X: 25, Y: 10}

	both, err := Interference(g, []grid.Point{a, b}, 9)
	if err != nil {
		t.Fatal(err)
	}
	fa, _ := Interference(g, []grid.Point{a}, 9)
	fb, _ := Interference(g, []grid.Point{b}, 9)

	var sum mat.Dense
	sum.Add(fa, fb)
	if !mat.EqualApprox(both, &sum, 1e-12) {
		t.Error("two-source field should equal the sum of single-source fields")
	}

	// Midpoint between equal sources is always constructive
	if math.Abs(both.At(10, 15)-2*fa.At(10, 15)) > 1e-12 {
		t.Errorf("expected constructive interference on the symmetry axis")
	}
}

func TestInterferenceRejectsInvalid(t *testing.T) {
	g := pixels(t, 4, 4)
	if _, err := Interference(g, nil, 10); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty sources: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := Interference(g, []grid.Point{{}}, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero wavelength: expected ErrInvalidArgument, got %v", err)
	}
}

func TestMoireIsProductOfGratings(t *testing.T) {
	g := pixels(t, 40, 30)
	a := Grating{Period: 20, Angle: 0}
	b := Grating{Period: 21, Angle: 5}

	f, err := Moire(g, a, b)
	if err != nil {
		t.Fatal(err)
	}
	x, y := 13.0, 7.0
	rad := 5 * math.Pi / 180
	want := math.Sin(2*math.Pi*x/20) * math.Sin(2*math.Pi*(x*math.Cos(rad)+y*math.Sin(rad))/21)
	if math.Abs(f.At(7, 13)-want) > 1e-12 {
		t.Errorf("moire(13,7) = %g, want %g", f.At(7, 13), want)
	}

	if _, err := Moire(g, Grating{Period: 0}, b); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero period: expected ErrInvalidArgument, got %v", err)
	}
}

func TestStandingNodesAtEdges(t *testing.T) {
	g := pixels(t, 41, 31)
	f, err := Standing(g, 5, 7)
	if err != nil {
		t.Fatal(err)
	}
	h, w := f.Dims()
	for i := 0; i < h; i++ {
		if math.Abs(f.At(i, 0)) > 1e-12 || math.Abs(f.At(i, w-1)) > 1e-9 {
			t.Fatalf("row %d: expected nodes at left/right edges", i)
		}
	}
	for j := 0; j < w; j++ {
		if math.Abs(f.At(0, j)) > 1e-12 || math.Abs(f.At(h-1, j)) > 1e-9 {
			t.Fatalf("col %d: expected nodes at top/bottom edges", j)
		}
	}

	// (1,1) mode peaks at the centre
	f, _ = Standing(g, 1, 1)
	if math.Abs(f.At(15, 20)-1) > 1e-12 {
		t.Errorf("fundamental mode should peak at 1 in the centre, got %g", f.At(15, 20))
	}

	if _, err := Standing(g, 0, 3); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero mode: expected ErrInvalidArgument, got %v", err)
	}
}

func TestRippleDecays(t *testing.T) {
	g := pixels(t, 101, 101)
	centre := grid.Point{X: 50, Y: 50}

	f, err := Ripple(g, []grid.Point{centre}, 8, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	if f.At(50, 50) != 0 {
		t.Errorf("centre should be sin(0)=0, got %g", f.At(50, 50))
	}
	for _, v := range f.RawMatrix().Data {
		if math.Abs(v) > 1 {
			t.Fatalf("single damped ripple amplitude %g exceeds 1", v)
		}
	}
	// Far from the centre the envelope is below exp(-0.05·40)
	if math.Abs(f.At(50, 90)) > math.Exp(-0.05*40)+1e-12 {
		t.Errorf("expected damped amplitude far from centre, got %g", f.At(50, 90))
	}

	if _, err := Ripple(g, nil, 8, 0.05); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("no centres: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := Ripple(g, []grid.Point{centre}, 8, -1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative decay: expected ErrInvalidArgument, got %v", err)
	}
}

func TestSuperpositionBounded(t *testing.T) {
	g := pixels(t, 64, 48)
	dirs := []float64{0, 60, 120}
	f, err := Superposition(g, dirs, 40)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range f.RawMatrix().Data {
		if math.Abs(v) > float64(len(dirs))+1e-9 {
			t.Fatalf("sum of %d unit waves reached %g", len(dirs), v)
		}
	}
	if f.At(0, 0) != 0 {
		t.Errorf("all waves pass through zero phase at the origin, got %g", f.At(0, 0))
	}

	if _, err := Superposition(g, nil, 40); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("no directions: expected ErrInvalidArgument, got %v", err)
	}
}

func TestPlasmaChannelsInUnitRange(t *testing.T) {
	g, err := grid.Build(32, 24, PlasmaView)
	if err != nil {
		t.Fatal(err)
	}
	for _, tm := range []float64{0, 0.5, 3.7} {
		p := PlasmaFrame(g, tm)
		for _, ch := range []*mat.Dense{p.R, p.G, p.B} {
			if r, c := ch.Dims(); r != 24 || c != 32 {
				t.Fatalf("channel shape (%d,%d)", r, c)
			}
			for _, v := range ch.RawMatrix().Data {
				if v < 0 || v > 1 || math.IsNaN(v) {
					t.Fatalf("t=%g: channel value %g outside [0,1]", tm, v)
				}
			}
		}
	}
}

func TestDegenerateGridsDoNotCrash(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {1, 7}, {7, 1}} {
		g := pixels(t, size[0], size[1])
		if _, err := Interference(g, []grid.Point{{}}, 5); err != nil {
			t.Errorf("interference %v: %v", size, err)
		}
		if _, err := Standing(g, 2, 3); err != nil {
			t.Errorf("standing %v: %v", size, err)
		}
		if _, err := Ripple(g, []grid.Point{{}}, 3, 0.1); err != nil {
			t.Errorf("ripple %v: %v", size, err)
		}
		if _, err := Superposition(g, []float64{0, 90}, 10); err != nil {
			t.Errorf("superposition %v: %v", size, err)
		}
	}
}
