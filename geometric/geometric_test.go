package geometric

import (
	"errors"
	"math"
	"math/rand"
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

func TestSpiralKinds(t *testing.T) {
	g := pixels(t, 200, 150)
	for _, kind := range []SpiralKind{Archimedean, Logarithmic, Fermat} {
		f, err := Spiral(g, kind, 10, 2)
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		on := 0
		for _, v := range f.RawMatrix().Data {
			if v != 0 && v != 1 {
				t.Fatalf("%s: spiral values must be 0 or 1, got %g", kind, v)
			}
			if v == 1 {
				on++
			}
		}
		if on == 0 {
			t.Errorf("%s: expected some pixels on the spiral line", kind)
		}
	}
}

func TestSpiralArchimedeanPassesExpectedRadius(t *testing.T) {
	g := pixels(t, 101, 101) // centre at (50, 50), span 100
	f, err := Spiral(g, Archimedean, 10, 1)
	if err != nil {
		t.Fatal(err)
	}
	// Straight up from the centre θ = atan2(-r, 0)+π = π/2, so the
	// expected radius is (1/4)·(100/4) = 6.25.
	if f.At(50-6, 50) != 1 {
		t.Errorf("expected pixel 6 rows above centre to be on the spiral")
	}
	if f.At(50-20, 50) != 0 {
		t.Errorf("expected pixel 20 rows above centre to be off the spiral")
	}
}

func TestSpiralRadiusScalesWithSpan(t *testing.T) {
	g := pixels(t, 601, 601) // centre at (300, 300), span 600
	tests := []struct {
		kind    SpiralKind
		on, off int // rows above centre
	}{
		// 600/60·exp(0.2·(π/2)·10/10) ≈ 13.70
		{Logarithmic, 14, 30},
		// sqrt((π/2)·10)·600/20 ≈ 118.9
		{Fermat, 119, 60},
	}
	for _, tt := range tests {
		f, err := Spiral(g, tt.kind, 10, 1)
		if err != nil {
			t.Fatalf("%s: %v", tt.kind, err)
		}
		if f.At(300-tt.on, 300) != 1 {
			t.Errorf("%s: expected pixel %d rows above centre on the spiral", tt.kind, tt.on)
		}
		if f.At(300-tt.off, 300) != 0 {
			t.Errorf("%s: expected pixel %d rows above centre off the spiral", tt.kind, tt.off)
		}
	}
}

func TestSpiralRejectsInvalid(t *testing.T) {
	g := pixels(t, 10, 10)
	if _, err := Spiral(g, "golden", 10, 2); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("unknown kind: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := Spiral(g, Fermat, 0, 2); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero turns: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := Spiral(g, Fermat, 10, -1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative thickness: expected ErrInvalidArgument, got %v", err)
	}
}

func TestVoronoiReproducibleForSeed(t *testing.T) {
	g := pixels(t, 80, 60)

	a, seedsA, err := VoronoiCells(g, rand.New(rand.NewSource(42)), 50)
	if err != nil {
		t.Fatal(err)
	}
	b, seedsB, err := VoronoiCells(g, rand.New(rand.NewSource(42)), 50)
	if err != nil {
		t.Fatal(err)
	}

	for i := range seedsA {
		if seedsA[i] != seedsB[i] {
			t.Fatalf("seed %d differs: %v vs %v", i, seedsA[i], seedsB[i])
		}
	}
	if !mat.Equal(a, b) {
		t.Error("same seed produced different cell assignment")
	}

	c, _, err := VoronoiCells(g, rand.New(rand.NewSource(7)), 50)
	if err != nil {
		t.Fatal(err)
	}
	if mat.Equal(a, c) {
		t.Error("different seeds should produce different cells")
	}
}

func TestVoronoiNearestIndex(t *testing.T) {
	g := pixels(t, 10, 1)
	seeds := []grid.Point{{X: 0, Y: 0}, {X: 9, Y: 0}}

	cells, err := Voronoi(g, seeds)
	if err != nil {
		t.Fatal(err)
	}
	for j := 0; j < 10; j++ {
		want := 0.0
		if j >= 5 {
			want = 1
		}
		if cells.At(0, j) != want {
			t.Errorf("pixel %d assigned to %g, want %g", j, cells.At(0, j), want)
		}
	}

	dist, err := VoronoiDistance(g, seeds)
	if err != nil {
		t.Fatal(err)
	}
	if dist.At(0, 0) != 0 || dist.At(0, 4) != 4 || dist.At(0, 5) != 4 {
		t.Errorf("unexpected distances: %v", mat.Formatted(dist))
	}
}

func TestVoronoiTieGoesToLowestIndex(t *testing.T) {
	g := pixels(t, 3, 1)
	seeds := []grid.Point{{X: 0, Y: 0}, {X: 2, Y: 0}}
	cells, err := Voronoi(g, seeds)
	if err != nil {
		t.Fatal(err)
	}
	if cells.At(0, 1) != 0 {
		t.Errorf("equidistant pixel should take seed 0, got %g", cells.At(0, 1))
	}
}

func TestVoronoiRejectsEmpty(t *testing.T) {
	g := pixels(t, 4, 4)
	if _, err := Voronoi(g, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for empty seeds, got %v", err)
	}
	if _, _, err := VoronoiCells(g, rand.New(rand.NewSource(1)), 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero points, got %v", err)
	}
}

func TestRandomSeedsInsideBounds(t *testing.T) {
	b := grid.Bounds{Xmin: -3, Xmax: 2, Ymin: 10, Ymax: 11}
	seeds, err := RandomSeeds(rand.New(rand.NewSource(3)), b, 500)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range seeds {
		if p.X < b.Xmin || p.X >= b.Xmax || p.Y < b.Ymin || p.Y >= b.Ymax {
			t.Fatalf("seed %v outside bounds %v", p, b)
		}
	}
}

func TestHexagonalValues(t *testing.T) {
	g := pixels(t, 120, 90)
	f, err := Hexagonal(g, 30)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[float64]bool{}
	for _, v := range f.RawMatrix().Data {
		if v != 0 && v != 1 && v != 2 {
			t.Fatalf("hex value %g outside {0,1,2}", v)
		}
		seen[v] = true
	}
	if len(seen) < 2 {
		t.Errorf("expected more than one hex colour, got %v", seen)
	}

	if _, err := Hexagonal(g, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero size, got %v", err)
	}
}

func TestCubeRoundKeepsSumZero(t *testing.T) {
	testCases := [][3]float64{
		{0.4, -0.3, -0.1},
		{1.6, -0.7, -0.9},
		{-2.45, 1.2, 1.25},
	}
	for _, tc := range testCases {
		x, y, z := cubeRound(tc[0], tc[1], tc[2])
		if x+y+z != 0 {
			t.Errorf("cubeRound(%v) = (%g,%g,%g), sum %g", tc, x, y, z, x+y+z)
		}
	}
}

func TestCircularWaves(t *testing.T) {
	g := pixels(t, 64, 48)
	centre := grid.Point{X: 32, Y: 24}
	f, err := CircularWaves(g, 20, centre)
	if err != nil {
		t.Fatal(err)
	}
	if f.At(24, 32) != 0 {
		t.Errorf("centre should be sin(0)=0, got %g", f.At(24, 32))
	}
	for _, v := range f.RawMatrix().Data {
		if v < -1 || v > 1 || math.IsNaN(v) {
			t.Fatalf("value %g outside [-1,1]", v)
		}
	}

	if _, err := CircularWaves(g, 0, centre); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero waves, got %v", err)
	}
}

func TestDegenerateGridsDoNotCrash(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {1, 9}, {9, 1}} {
		g := pixels(t, size[0], size[1])
		if _, err := Spiral(g, Archimedean, 10, 2); err != nil {
			t.Errorf("spiral %v: %v", size, err)
		}
		if _, _, err := VoronoiCells(g, rand.New(rand.NewSource(1)), 5); err != nil {
			t.Errorf("voronoi %v: %v", size, err)
		}
		if _, err := Hexagonal(g, 30); err != nil {
			t.Errorf("hexagonal %v: %v", size, err)
		}
		if _, err := CircularWaves(g, 10, grid.Point{}); err != nil {
			t.Errorf("circular %v: %v", size, err)
		}
	}
}
