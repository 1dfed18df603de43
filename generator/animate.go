package generator

import (
	"fmt"
	"image"
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/patterns/config"
	"github.com/pthm-cable/patterns/flow"
	"github.com/pthm-cable/patterns/grid"
	"github.com/pthm-cable/patterns/renderer"
	"github.com/pthm-cable/patterns/telemetry"
	"github.com/pthm-cable/patterns/waves"
)

const (
	flowFile   = "flowfield.gif"
	plasmaFile = "plasma.gif"
)

// AnimatorConfig translates the flow section of the config into an
// animator config. The seed only affects the noise field.
func AnimatorConfig(c config.FlowConfig, width, height int, seed int64) (flow.Config, error) {
	boundary, err := flow.ParseBoundary(c.Boundary)
	if err != nil {
		return flow.Config{}, err
	}
	field, err := flow.ParseField(c.Field, seed, c.FieldScale, c.TimeScale)
	if err != nil {
		return flow.Config{}, err
	}
	fade, err := flow.ParseFade(c.Fade)
	if err != nil {
		return flow.Config{}, err
	}
	return flow.Config{
		Width:        width,
		Height:       height,
		NumParticles: c.NumParticles,
		FPS:          c.FPS,
		Duration:     c.Duration,
		TrailLength:  c.TrailLength,
		StepLength:   c.StepLength,
		Boundary:     boundary,
		Field:        field,
		Fade:         fade,
	}, nil
}

// FlowAnimation renders the particle flow field to flowfield.gif. Every
// frame shares the [0, 1] intensity range so brightness does not pump.
func (g *Generator) FlowAnimation() error {
	fc := g.cfg.Flow
	w, h := g.cfg.Derived.FlowWidth, g.cfg.Derived.FlowHeight

	cm, err := g.cfg.Colormap(fc.Colormap)
	if err != nil {
		return fmt.Errorf("flow: %w", err)
	}
	acfg, err := AnimatorConfig(fc, w, h, g.opts.Seed)
	if err != nil {
		return fmt.Errorf("flow: %w", err)
	}

	g.perf.StartItem(flowFile)
	anim, err := flow.New(acfg, rand.New(rand.NewSource(g.opts.Seed)))
	if err != nil {
		g.perf.EndItem()
		return fmt.Errorf("flow: %w", err)
	}

	frames := make([]*image.Paletted, 0, anim.FrameCount())
	var last *mat.Dense
	g.perf.StartPhase(telemetry.PhaseEvaluate)
	err = anim.Run(func(_ int, f *mat.Dense) error {
		g.perf.StartPhase(telemetry.PhaseColorize)
		img, err := renderer.Paletted(f, cm, 0, 1)
		if err != nil {
			return err
		}
		frames = append(frames, img)
		last = f
		g.perf.StartPhase(telemetry.PhaseEvaluate)
		return nil
	})
	if err != nil {
		g.perf.EndItem()
		return fmt.Errorf("flow: %w", err)
	}

	g.perf.StartPhase(telemetry.PhaseEncode)
	if err := renderer.WriteGIF(g.out.Path(flowFile), frames, fc.FPS); err != nil {
		g.perf.EndItem()
		return err
	}
	sample := g.perf.EndItem()

	stats := telemetry.ComputeFieldStats(last, g.cfg.Telemetry.HistogramBins)
	slog.Info("animation written",
		"file", flowFile,
		"frames", len(frames),
		"particles", fc.NumParticles,
		"boundary", acfg.Boundary,
		"elapsed_ms", sample.Duration.Milliseconds(),
	)

	rec := telemetry.ArtefactRecord{
		File:      flowFile,
		Kind:      telemetry.KindAnimation,
		Pattern:   "flowfield",
		Colormap:  fc.Colormap,
		Width:     w,
		Height:    h,
		Frames:    len(frames),
		Seed:      g.opts.Seed,
		ElapsedMS: sample.Duration.Milliseconds(),
	}
	return g.record(rec.WithStats(stats), sample)
}

// PlasmaAnimation renders the three-channel plasma to plasma.gif. Frames
// are true colour and get dithered onto the Plan 9 palette.
func (g *Generator) PlasmaAnimation() error {
	pc := g.cfg.Plasma
	w, h := g.cfg.Derived.PlasmaWidth, g.cfg.Derived.PlasmaHeight
	if pc.FPS <= 0 || !(pc.Duration > 0) {
		return fmt.Errorf("plasma: fps %d, duration %g: %w", pc.FPS, pc.Duration, renderer.ErrInvalidArgument)
	}
	n := int(float64(pc.FPS)*pc.Duration + 0.5)
	if n < 1 {
		return fmt.Errorf("plasma: fps·duration rounds to zero frames: %w", renderer.ErrInvalidArgument)
	}

	g.perf.StartItem(plasmaFile)
	g.perf.StartPhase(telemetry.PhaseGrid)
	gr, err := grid.Build(w, h, pc.View.Bounds())
	if err != nil {
		g.perf.EndItem()
		return fmt.Errorf("plasma: %w", err)
	}

	frames := make([]*image.Paletted, n)
	for i := range frames {
		g.perf.StartPhase(telemetry.PhaseEvaluate)
		p := waves.PlasmaFrame(gr, float64(i)/float64(pc.FPS))
		g.perf.StartPhase(telemetry.PhaseColorize)
		img, err := renderer.ComposeRGB(p.R, p.G, p.B)
		if err != nil {
			g.perf.EndItem()
			return fmt.Errorf("plasma: %w", err)
		}
		frames[i] = renderer.Quantize(img)
	}

	g.perf.StartPhase(telemetry.PhaseEncode)
	if err := renderer.WriteGIF(g.out.Path(plasmaFile), frames, pc.FPS); err != nil {
		g.perf.EndItem()
		return err
	}
	sample := g.perf.EndItem()

	slog.Info("animation written", "file", plasmaFile, "frames", n, "elapsed_ms", sample.Duration.Milliseconds())
	return g.record(telemetry.ArtefactRecord{
		File:      plasmaFile,
		Kind:      telemetry.KindAnimation,
		Pattern:   "plasma",
		Width:     w,
		Height:    h,
		Frames:    n,
		Seed:      g.opts.Seed,
		ElapsedMS: sample.Duration.Milliseconds(),
	}, sample)
}
