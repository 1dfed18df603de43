// Package generator drives a full run: it evaluates patterns, colours and
// encodes them, and records every artefact in the output manifest.
package generator

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/patterns/config"
	"github.com/pthm-cable/patterns/parametric"
	"github.com/pthm-cable/patterns/pattern"
	"github.com/pthm-cable/patterns/renderer"
	"github.com/pthm-cable/patterns/telemetry"
)

// Options holds per-run settings that come from the command line rather
// than the config file.
type Options struct {
	Patterns []string // catalogue names; empty = every pattern
	Seed     int64
	LogStats bool

	SVG     bool // also export parametric curves as SVG
	Animate bool // flow-field GIF
	Plasma  bool // plasma GIF
	Sheet   bool // contact sheet of every pattern
}

// Generator owns the output directory and timing for one run.
type Generator struct {
	cfg  *config.Config
	opts Options
	out  *telemetry.OutputManager
	perf *telemetry.PerfCollector
}

// New prepares the output directory described by cfg.Output.
func New(cfg *config.Config, opts Options) (*Generator, error) {
	for _, name := range opts.Patterns {
		if _, err := pattern.Lookup(name); err != nil {
			return nil, err
		}
	}
	out, err := telemetry.NewOutputManager(cfg.Output.Dir, cfg.Telemetry.WriteManifest, cfg.Telemetry.WritePerf)
	if err != nil {
		return nil, err
	}
	return &Generator{
		cfg:  cfg,
		opts: opts,
		out:  out,
		perf: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
	}, nil
}

// Close flushes the CSV logs.
func (g *Generator) Close() error {
	return g.out.Close()
}

// Dir returns the output directory.
func (g *Generator) Dir() string { return g.out.Dir() }

// Run produces every requested artefact in a fixed order: pattern images,
// curve SVGs, flow animation, plasma animation, contact sheet, config
// snapshot. It stops at the first error.
func (g *Generator) Run() error {
	start := time.Now()

	for _, p := range g.selected() {
		if err := g.Pattern(p); err != nil {
			return err
		}
		if g.opts.SVG && p.IsCurve() {
			if err := g.CurveSVG(p); err != nil {
				return err
			}
		}
	}

	if g.opts.Animate {
		if err := g.FlowAnimation(); err != nil {
			return err
		}
	}
	if g.opts.Plasma {
		if err := g.PlasmaAnimation(); err != nil {
			return err
		}
	}
	if g.opts.Sheet {
		if err := g.ContactSheet(); err != nil {
			return err
		}
	}

	if g.cfg.Telemetry.SnapshotConfig {
		if err := g.out.WriteConfig(g.cfg); err != nil {
			return err
		}
	}

	if g.opts.LogStats {
		g.perf.Stats().LogStats()
	}
	slog.Info("run complete", "dir", g.out.Dir(), "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

func (g *Generator) selected() []pattern.Pattern {
	if len(g.opts.Patterns) == 0 {
		return pattern.All()
	}
	out := make([]pattern.Pattern, 0, len(g.opts.Patterns))
	for _, name := range g.opts.Patterns {
		p, _ := pattern.Lookup(name) // validated in New
		out = append(out, p)
	}
	return out
}

func (g *Generator) request() pattern.Request {
	return pattern.Request{
		Config: g.cfg,
		Width:  g.cfg.Canvas.Width,
		Height: g.cfg.Canvas.Height,
		Seed:   g.opts.Seed,
		Timer:  g.perf,
	}
}

// Pattern evaluates p at canvas size and writes <name>.png.
func (g *Generator) Pattern(p pattern.Pattern) error {
	file := p.Name + ".png"
	cmapName := p.ColormapFor(g.cfg)
	cm, err := g.cfg.Colormap(cmapName)
	if err != nil {
		return fmt.Errorf("pattern %s: %w", p.Name, err)
	}

	g.perf.StartItem(file)
	field, err := p.Generate(g.request())
	if err != nil {
		g.perf.EndItem()
		return err
	}
	g.perf.StartPhase(telemetry.PhaseColorize)
	img := renderer.Colorize(field, cm)
	g.perf.StartPhase(telemetry.PhaseEncode)
	if err := renderer.WritePNG(g.out.Path(file), img); err != nil {
		g.perf.EndItem()
		return err
	}
	sample := g.perf.EndItem()

	stats := telemetry.ComputeFieldStats(field, g.cfg.Telemetry.HistogramBins)
	slog.Info("pattern written",
		"pattern", p.Name,
		"file", file,
		"colormap", cmapName,
		"stats", stats,
		"elapsed_ms", sample.Duration.Milliseconds(),
	)

	rec := telemetry.ArtefactRecord{
		File:      file,
		Kind:      telemetry.KindImage,
		Pattern:   p.Name,
		Colormap:  cmapName,
		Width:     g.cfg.Canvas.Width,
		Height:    g.cfg.Canvas.Height,
		Frames:    1,
		Seed:      g.opts.Seed,
		ElapsedMS: sample.Duration.Milliseconds(),
	}
	return g.record(rec.WithStats(stats), sample)
}

// CurveSVG writes <name>.svg for a parametric pattern.
func (g *Generator) CurveSVG(p pattern.Pattern) error {
	file := p.Name + ".svg"

	g.perf.StartItem(file)
	g.perf.StartPhase(telemetry.PhaseEvaluate)
	pts, err := p.Curve(g.request())
	if err != nil {
		g.perf.EndItem()
		return err
	}

	g.perf.StartPhase(telemetry.PhaseEncode)
	f, err := os.Create(g.out.Path(file))
	if err != nil {
		g.perf.EndItem()
		return fmt.Errorf("creating %s: %w", file, err)
	}
	err = parametric.WriteSVG(f, pts, g.cfg.Canvas.Width, g.cfg.Canvas.Height, g.cfg.Parametric.StrokeWidth)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing %s: %w", file, cerr)
	}
	sample := g.perf.EndItem()
	if err != nil {
		return err
	}

	slog.Info("curve written", "pattern", p.Name, "file", file, "points", len(pts))
	return g.record(telemetry.ArtefactRecord{
		File:      file,
		Kind:      telemetry.KindVector,
		Pattern:   p.Name,
		Width:     g.cfg.Canvas.Width,
		Height:    g.cfg.Canvas.Height,
		Frames:    1,
		Seed:      g.opts.Seed,
		ElapsedMS: sample.Duration.Milliseconds(),
	}, sample)
}

func (g *Generator) record(rec telemetry.ArtefactRecord, sample telemetry.PerfSample) error {
	if err := g.out.WriteArtefact(rec); err != nil {
		return err
	}
	return g.out.WritePerf(sample)
}
