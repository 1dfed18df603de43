package generator

import (
	"errors"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/patterns/config"
	"github.com/pthm-cable/patterns/pattern"
	"github.com/pthm-cable/patterns/telemetry"
)

// smallConfig returns defaults shrunk so a full run takes milliseconds.
func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Fractal.MaxIter = 16
	cfg.Parametric.Samples = 400
	cfg.Parametric.Margin = 2

	cfg.Flow.NumParticles = 20
	cfg.Flow.FPS = 5
	cfg.Flow.Duration = 0.4
	cfg.Flow.TrailLength = 4

	cfg.Plasma.FPS = 5
	cfg.Plasma.Duration = 0.6

	cfg.Output.Dir = t.TempDir()
	cfg.Output.SheetColumns = 4
	cfg.Output.SheetTileW = 20
	cfg.Output.SheetTileH = 15
	return cfg.WithCanvas(32, 24)
}

func readManifest(t *testing.T, dir string) []telemetry.ArtefactRecord {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, "manifest.csv"))
	if err != nil {
		t.Fatalf("open manifest: %v", err)
	}
	defer f.Close()
	var rows []telemetry.ArtefactRecord
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	return rows
}

func TestNewRejectsUnknownPattern(t *testing.T) {
	cfg := smallConfig(t)
	_, err := New(cfg, Options{Patterns: []string{"mandelbrot", "nope"}})
	if !errors.Is(err, pattern.ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}
}

func TestRunSelectedPatterns(t *testing.T) {
	cfg := smallConfig(t)
	g, err := New(cfg, Options{Patterns: []string{"julia", "rose"}, Seed: 3, SVG: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(g.Dir(), "julia.png"))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(f)
	f.Close()
	if err != nil {
		t.Fatalf("decode julia.png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("expected 32x24 image, got %v", b)
	}

	svg, err := os.ReadFile(filepath.Join(g.Dir(), "rose.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "<polyline") {
		t.Error("rose.svg has no polyline")
	}
	if _, err := os.Stat(filepath.Join(g.Dir(), "julia.svg")); !os.IsNotExist(err) {
		t.Error("julia is not a curve and should not get an SVG")
	}
	if _, err := os.Stat(filepath.Join(g.Dir(), "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}

	rows := readManifest(t, g.Dir())
	if len(rows) != 3 {
		t.Fatalf("expected 3 manifest rows, got %d", len(rows))
	}
	want := []struct{ file, kind string }{
		{"julia.png", telemetry.KindImage},
		{"rose.png", telemetry.KindImage},
		{"rose.svg", telemetry.KindVector},
	}
	for i, w := range want {
		if rows[i].File != w.file || rows[i].Kind != w.kind {
			t.Errorf("row %d: expected %s/%s, got %s/%s", i, w.file, w.kind, rows[i].File, rows[i].Kind)
		}
		if rows[i].Seed != 3 {
			t.Errorf("row %d: seed %d", i, rows[i].Seed)
		}
	}
	if rows[0].Colormap != "twilight" {
		t.Errorf("expected julia colormap twilight, got %q", rows[0].Colormap)
	}
	if rows[0].Max < rows[0].Min {
		t.Errorf("bad stats in row %+v", rows[0])
	}
}

func TestFlowAnimation(t *testing.T) {
	cfg := smallConfig(t)
	g, err := New(cfg, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	if err := g.FlowAnimation(); err != nil {
		t.Fatalf("FlowAnimation: %v", err)
	}
	f, err := os.Open(filepath.Join(g.Dir(), flowFile))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(anim.Image) != 2 {
		t.Errorf("expected fps·duration = 2 frames, got %d", len(anim.Image))
	}
	if b := anim.Image[0].Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("expected 32x24 frames, got %v", b)
	}
}

func TestFlowAnimationBadConfig(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Flow.NumParticles = 0
	g, err := New(cfg, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()
	if err := g.FlowAnimation(); err == nil {
		t.Error("expected error for zero particles")
	}
}

func TestAnimatorConfig(t *testing.T) {
	cfg := smallConfig(t)
	fc := cfg.Flow
	fc.Fade = "bounce_everywhere"
	if _, err := AnimatorConfig(fc, 10, 10, 1); err == nil {
		t.Error("expected error for unknown fade")
	}

	fc = cfg.Flow
	fc.Boundary = "CLAMP"
	fc.Field = "noise"
	ac, err := AnimatorConfig(fc, 10, 8, 1)
	if err != nil {
		t.Fatal(err)
	}
	if ac.Width != 10 || ac.Height != 8 || ac.NumParticles != fc.NumParticles {
		t.Errorf("unexpected animator config %+v", ac)
	}
}

func TestPlasmaAnimation(t *testing.T) {
	cfg := smallConfig(t)
	g, err := New(cfg, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	if err := g.PlasmaAnimation(); err != nil {
		t.Fatalf("PlasmaAnimation: %v", err)
	}
	f, err := os.Open(filepath.Join(g.Dir(), plasmaFile))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 3 {
		t.Errorf("expected 3 frames, got %d", len(anim.Image))
	}
}

func TestContactSheet(t *testing.T) {
	cfg := smallConfig(t)
	g, err := New(cfg, Options{Seed: 9})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.ContactSheet(); err != nil {
		t.Fatalf("ContactSheet: %v", err)
	}
	g.Close()

	f, err := os.Open(filepath.Join(g.Dir(), sheetFile))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Fatalf("decode sheet: %v", err)
	}

	rows := readManifest(t, g.Dir())
	if len(rows) != 1 || rows[0].Kind != telemetry.KindSheet {
		t.Errorf("expected one sheet row, got %+v", rows)
	}
}

func TestRunWithoutLogs(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Telemetry.WriteManifest = false
	cfg.Telemetry.WritePerf = false
	cfg.Telemetry.SnapshotConfig = false
	g, err := New(cfg, Options{Patterns: []string{"moire"}, LogStats: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Run(); err != nil {
		t.Fatal(err)
	}
	g.Close()

	for _, name := range []string{"manifest.csv", "perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(g.Dir(), name)); !os.IsNotExist(err) {
			t.Errorf("%s should not exist", name)
		}
	}
	if _, err := os.Stat(filepath.Join(g.Dir(), "moire.png")); err != nil {
		t.Error(err)
	}
}
