// Pattern preview tool - interactive pattern browser with sliders.
// Fractals can be panned with the left mouse button and zoomed with the
// wheel.
//
// Usage: go run ./cmd/preview [-config config.yaml]
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/patterns/config"
	"github.com/pthm-cable/patterns/fractal"
	"github.com/pthm-cable/patterns/pattern"
	"github.com/pthm-cable/patterns/renderer"
	"github.com/pthm-cable/patterns/telemetry"
	"github.com/pthm-cable/patterns/viewport"
)

const (
	windowWidth   = 1100
	windowHeight  = 720
	previewWidth  = 640
	previewHeight = 480
	previewX      = 10
	previewY      = 10
	panelWidth    = windowWidth - previewWidth - 40

	// Patterns are evaluated at half the preview size to stay interactive
	renderWidth  = previewWidth / 2
	renderHeight = previewHeight / 2
)

// previewState is everything the sliders and buttons edit.
type previewState struct {
	base     *config.Config
	cfg      *config.Config
	patterns []pattern.Pattern
	index    int
	cmaps    []string
	cmap     int // index into cmaps, -1 = pattern default
	vp       *viewport.Viewport
	seed     int64
	regions  []string
	region   int
}

func (s *previewState) current() pattern.Pattern { return s.patterns[s.index] }

// fractalView returns the config bounds the viewport drives for fractal
// patterns, or nil for pixel-space patterns.
func fractalView(cfg *config.Config, name string) *config.BoundsConfig {
	switch name {
	case "mandelbrot":
		return &cfg.Fractal.MandelbrotView
	case "julia":
		return &cfg.Fractal.JuliaView
	case "burning_ship":
		return &cfg.Fractal.BurningShipView
	}
	return nil
}

// selectPattern switches patterns and resets the viewport to its home view.
func (s *previewState) selectPattern(i int) {
	s.index = (i + len(s.patterns)) % len(s.patterns)
	s.cmap = -1
	s.region = -1
	home := s.base.Fractal.MandelbrotView.Bounds()
	if v := fractalView(s.base, s.current().Name); v != nil {
		home = v.Bounds()
	}
	s.vp = viewport.New(renderWidth, renderHeight, home)
}

func (s *previewState) colormap() string {
	if s.cmap < 0 {
		return s.current().ColormapFor(s.cfg)
	}
	return s.cmaps[s.cmap]
}

// render evaluates the current pattern with the viewport applied.
func (s *previewState) render() (*image.RGBA, telemetry.FieldStats, error) {
	p := s.current()
	if v := fractalView(s.cfg, p.Name); v != nil {
		b := s.vp.Bounds()
		*v = config.BoundsConfig{Xmin: b.Xmin, Xmax: b.Xmax, Ymin: b.Ymin, Ymax: b.Ymax}
		s.cfg.Fractal.Region = ""
	}
	cfg := s.cfg.WithCanvas(renderWidth, renderHeight)

	cm, err := s.cfg.Colormap(s.colormap())
	if err != nil {
		return nil, telemetry.FieldStats{}, err
	}
	field, err := p.Generate(pattern.Request{Config: cfg, Width: renderWidth, Height: renderHeight, Seed: s.seed})
	if err != nil {
		return nil, telemetry.FieldStats{}, err
	}
	return renderer.Colorize(field, cm), telemetry.ComputeFieldStats(field, cfg.Telemetry.HistogramBins), nil
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	config.MustInit(*configPath)
	base := config.Cfg()
	work := *base

	regions := make([]string, 0, len(fractal.Regions))
	for name := range fractal.Regions {
		regions = append(regions, name)
	}
	sort.Strings(regions)

	cmaps := renderer.Names()
	for name := range base.Output.CustomColormaps {
		cmaps = append(cmaps, name)
	}
	sort.Strings(cmaps)

	state := &previewState{
		base:     base,
		cfg:      &work,
		patterns: pattern.All(),
		cmaps:    cmaps,
		seed:     42,
		regions:  regions,
		region:   -1,
	}
	state.selectPattern(0)

	rl.InitWindow(windowWidth, windowHeight, "Pattern Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	img := rl.GenImageColor(renderWidth, renderHeight, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	perf := telemetry.NewPerfCollector(base.Telemetry.PerfWindow)

	var (
		frame      *image.RGBA
		stats      telemetry.FieldStats
		renderErr  error
		status     string
		needsRegen = true
		dragging   bool
	)

	previewRect := rl.Rectangle{X: previewX, Y: previewY, Width: previewWidth, Height: previewHeight}

	for !rl.WindowShouldClose() {
		perf.RecordFrame()

		// Mouse pan/zoom over the preview, fractals only
		mouse := rl.GetMousePosition()
		isFractal := fractalView(state.cfg, state.current().Name) != nil
		if isFractal && rl.CheckCollisionPointRec(mouse, previewRect) {
			sx := float64(mouse.X-previewX) * renderWidth / previewWidth
			sy := float64(mouse.Y-previewY) * renderHeight / previewHeight
			if wheel := rl.GetMouseWheelMove(); wheel != 0 {
				factor := 1.25
				if wheel < 0 {
					factor = 1 / factor
				}
				state.vp.ZoomAt(sx, sy, factor)
				needsRegen = true
			}
			if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
				dragging = true
			}
		}
		if dragging {
			if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
				d := rl.GetMouseDelta()
				if d.X != 0 || d.Y != 0 {
					state.vp.Pan(float64(d.X)*renderWidth/previewWidth, float64(d.Y)*renderHeight/previewHeight)
					needsRegen = true
				}
			} else {
				dragging = false
			}
		}

		if needsRegen {
			perf.StartItem(state.current().Name)
			perf.StartPhase(telemetry.PhaseEvaluate)
			frame, stats, renderErr = state.render()
			if renderErr == nil {
				perf.StartPhase(telemetry.PhaseEncode)
				updateTexture(texture, frame)
			}
			perf.EndItem()
			needsRegen = false
		}
		ps := perf.Stats()

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: renderWidth, Height: renderHeight},
			previewRect,
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(previewX, previewY, previewWidth, previewHeight, rl.DarkGray)

		// Julia constant in the Mandelbrot plane
		if state.current().Name == "mandelbrot" {
			c := state.cfg.Fractal.JuliaC
			if sx, sy, ok := state.vp.Marker(c.Re, c.Im); ok {
				mx := previewX + int32(sx*previewWidth/renderWidth)
				my := previewY + int32(sy*previewHeight/renderHeight)
				rl.DrawCircleLines(mx, my, 6, rl.SkyBlue)
			}
		}

		// Draw stats
		statsY := int32(previewY + previewHeight + 15)
		if renderErr != nil {
			rl.DrawText(renderErr.Error(), 15, statsY, 16, rl.Red)
		} else {
			rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Mean: %.3f  Std: %.3f", stats.Min, stats.Max, stats.Mean, stats.StdDev), 15, statsY, 16, rl.DarkGray)
			rl.DrawText(fmt.Sprintf("Entropy: %.3f  P10/P50/P90: %.2f / %.2f / %.2f", stats.Entropy, stats.P10, stats.P50, stats.P90), 15, statsY+20, 16, rl.DarkGray)
		}
		if isFractal {
			b := state.vp.Bounds()
			rl.DrawText(fmt.Sprintf("View: x [%.6g, %.6g]  y [%.6g, %.6g]  zoom %.3g", b.Xmin, b.Xmax, b.Ymin, b.Ymax, state.vp.Zoom), 15, statsY+40, 16, rl.DarkGray)
		}
		rl.DrawText(fmt.Sprintf("FPS: %.0f  Render: %.1f ms", ps.FPS, float64(ps.AvgDuration.Microseconds())/1000), 15, statsY+60, 16, rl.Gray)
		if status != "" {
			rl.DrawText(status, 15, statsY+80, 16, rl.DarkGreen)
		}

		// Control panel
		panelX := float32(previewX + previewWidth + 20)
		panelY := float32(10)

		p := state.current()
		rl.DrawText(fmt.Sprintf("%s (%s)", p.Name, p.Family), int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 30

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "< Prev") {
			state.selectPattern(state.index - 1)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Next >") {
			state.selectPattern(state.index + 1)
			needsRegen = true
		}
		panelY += 40

		rl.DrawText("Colormap: "+state.colormap(), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 22
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Next Colormap") {
			state.cmap = (state.cmap + 1) % len(state.cmaps)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Default") {
			state.cmap = -1
			needsRegen = true
		}
		panelY += 45

		switch p.Family {
		case pattern.Fractal:
			panelY, needsRegen = fractalControls(state, panelX, panelY, needsRegen)
		case pattern.Geometric:
			panelY, needsRegen = geometricControls(state, panelX, panelY, needsRegen)
		case pattern.Waves:
			panelY, needsRegen = waveControls(state, panelX, panelY, needsRegen)
		case pattern.Parametric:
			panelY, needsRegen = parametricControls(state, panelX, panelY, needsRegen)
		}

		// Separator
		panelY += 10
		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset View") {
			state.vp.Reset()
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			work = *base
			state.selectPattern(state.index)
			needsRegen = true
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			state.seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		rl.DrawText(fmt.Sprintf("seed %d", state.seed), int32(panelX+130), int32(panelY+8), 16, rl.DarkGray)

		// Instructions
		rl.DrawText("S: save PNG   C: copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.Gray)

		if rl.IsKeyPressed(rl.KeyS) && frame != nil {
			file := "preview_" + p.Name + ".png"
			if err := renderer.WritePNG(file, frame); err != nil {
				status = err.Error()
			} else {
				status = "saved " + file
			}
		}
		if rl.IsKeyPressed(rl.KeyC) {
			if text, err := yamlSnippet(state.cfg, p.Family); err != nil {
				status = err.Error()
			} else {
				rl.SetClipboardText(text)
				status = "copied " + p.Family + " config"
			}
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider and reports the new value.
func slider(label string, x, y float32, value, lo, hi float32, format string) (float32, float32) {
	rl.DrawText(label, int32(x), int32(y), 14, rl.Gray)
	y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: float32(panelWidth - 80), Height: 20},
		"", "",
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(y+2), 16, rl.DarkGray)
	return v, y + 30
}

func fractalControls(s *previewState, x, y float32, regen bool) (float32, bool) {
	fc := &s.cfg.Fractal
	v, y := slider("Max iterations", x, y, float32(fc.MaxIter), 10, 1000, "%.0f")
	if int(v) != fc.MaxIter {
		fc.MaxIter = int(v)
		regen = true
	}
	if s.current().Name == "julia" {
		var re, im float32
		re, y = slider("c (real)", x, y, float32(fc.JuliaC.Re), -1.5, 1.5, "%.3f")
		im, y = slider("c (imaginary)", x, y, float32(fc.JuliaC.Im), -1.5, 1.5, "%.3f")
		if float64(re) != fc.JuliaC.Re || float64(im) != fc.JuliaC.Im {
			fc.JuliaC = config.ComplexConfig{Re: float64(re), Im: float64(im)}
			regen = true
		}
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 30}, toggleText(fc.Smooth, "Integer", "Smooth")) {
		fc.Smooth = !fc.Smooth
		regen = true
	}
	if s.current().Name == "mandelbrot" {
		label := "Next Region"
		if s.region >= 0 {
			label = s.regions[s.region]
		}
		if gui.Button(rl.Rectangle{X: x + 130, Y: y, Width: 200, Height: 30}, label) {
			s.region = (s.region + 1) % len(s.regions)
			s.vp.FocusBounds(fractal.Regions[s.regions[s.region]])
			regen = true
		}
	}
	return y + 40, regen
}

func geometricControls(s *previewState, x, y float32, regen bool) (float32, bool) {
	gc := &s.cfg.Geometric
	switch s.current().Name {
	case "spiral":
		var turns, thick float32
		turns, y = slider("Turns", x, y, float32(gc.SpiralTurns), 1, 40, "%.1f")
		thick, y = slider("Thickness", x, y, float32(gc.SpiralThickness), 0.5, 10, "%.1f")
		if float64(turns) != gc.SpiralTurns || float64(thick) != gc.SpiralThickness {
			gc.SpiralTurns, gc.SpiralThickness = float64(turns), float64(thick)
			regen = true
		}
		kinds := []string{"archimedean", "logarithmic", "fermat"}
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: 250, Height: 30}, "Kind: "+gc.SpiralKind) {
			for i, k := range kinds {
				if strings.EqualFold(k, gc.SpiralKind) {
					gc.SpiralKind = kinds[(i+1)%len(kinds)]
					break
				}
			}
			regen = true
		}
		y += 40
	case "voronoi":
		var n float32
		n, y = slider("Points", x, y, float32(gc.VoronoiPoints), 2, 300, "%.0f")
		if int(n) != gc.VoronoiPoints {
			gc.VoronoiPoints = int(n)
			regen = true
		}
	case "hexagonal":
		var size float32
		size, y = slider("Hex size", x, y, float32(gc.HexSize), 4, 80, "%.1f")
		if float64(size) != gc.HexSize {
			gc.HexSize = float64(size)
			regen = true
		}
	case "circular_waves":
		var n float32
		n, y = slider("Waves", x, y, float32(gc.CircularWaves), 1, 80, "%.0f")
		if int(n) != gc.CircularWaves {
			gc.CircularWaves = int(n)
			regen = true
		}
	}
	return y, regen
}

func waveControls(s *previewState, x, y float32, regen bool) (float32, bool) {
	wc := &s.cfg.Waves
	switch s.current().Name {
	case "interference":
		var l float32
		l, y = slider("Wavelength", x, y, float32(wc.Wavelength), 2, 100, "%.1f")
		if float64(l) != wc.Wavelength {
			wc.Wavelength = float64(l)
			regen = true
		}
	case "moire":
		var p, a float32
		p, y = slider("Second period", x, y, float32(wc.Moire[1].Period), 2, 60, "%.1f")
		a, y = slider("Second angle", x, y, float32(wc.Moire[1].Angle), -45, 45, "%.1f")
		if float64(p) != wc.Moire[1].Period || float64(a) != wc.Moire[1].Angle {
			// copy so the base config's slice is untouched
			wc.Moire = append([]config.GratingConfig(nil), wc.Moire...)
			wc.Moire[1].Period, wc.Moire[1].Angle = float64(p), float64(a)
			regen = true
		}
	case "standing":
		var nx, ny float32
		nx, y = slider("Mode x", x, y, float32(wc.StandingModes[0]), 1, 20, "%.0f")
		ny, y = slider("Mode y", x, y, float32(wc.StandingModes[1]), 1, 20, "%.0f")
		if int(nx) != wc.StandingModes[0] || int(ny) != wc.StandingModes[1] {
			wc.StandingModes = [2]int{int(nx), int(ny)}
			regen = true
		}
	case "ripple":
		var rings, decay float32
		rings, y = slider("Rings", x, y, float32(wc.RippleRings), 1, 40, "%.0f")
		decay, y = slider("Decay", x, y, float32(wc.RippleDecay), 0, 0.05, "%.4f")
		if int(rings) != wc.RippleRings || float64(decay) != wc.RippleDecay {
			wc.RippleRings, wc.RippleDecay = int(rings), float64(decay)
			regen = true
		}
	case "superposition":
		var l float32
		l, y = slider("Wavelength", x, y, float32(wc.SuperpositionWavelength), 2, 100, "%.1f")
		if float64(l) != wc.SuperpositionWavelength {
			wc.SuperpositionWavelength = float64(l)
			regen = true
		}
	}
	return y, regen
}

func parametricControls(s *previewState, x, y float32, regen bool) (float32, bool) {
	pc := &s.cfg.Parametric
	var th float32
	th, y = slider("Thickness", x, y, float32(pc.Thickness), 0, 6, "%.0f")
	if int(th) != pc.Thickness {
		pc.Thickness = int(th)
		regen = true
	}
	switch s.current().Name {
	case "lissajous":
		var a, b, d float32
		a, y = slider("a", x, y, float32(pc.Lissajous.A), 1, 12, "%.0f")
		b, y = slider("b", x, y, float32(pc.Lissajous.B), 1, 12, "%.0f")
		d, y = slider("delta", x, y, float32(pc.Lissajous.Delta), 0, 3.1416, "%.3f")
		if float64(int(a)) != pc.Lissajous.A || float64(int(b)) != pc.Lissajous.B || float64(d) != pc.Lissajous.Delta {
			pc.Lissajous.A, pc.Lissajous.B, pc.Lissajous.Delta = float64(int(a)), float64(int(b)), float64(d)
			regen = true
		}
	case "rose":
		var n, d float32
		n, y = slider("n", x, y, float32(pc.Rose.N), 1, 12, "%.0f")
		d, y = slider("d", x, y, float32(pc.Rose.D), 1, 12, "%.0f")
		if int(n) != pc.Rose.N || int(d) != pc.Rose.D {
			pc.Rose.N, pc.Rose.D = int(n), int(d)
			regen = true
		}
	case "hypotrochoid":
		h := &pc.Hypotrochoid
		var r, d float32
		r, y = slider("Rolling radius", x, y, float32(h.Rolling), 5, 95, "%.0f")
		d, y = slider("Pen distance", x, y, float32(h.D), 5, 150, "%.0f")
		if float64(int(r)) != h.Rolling || float64(int(d)) != h.D {
			h.Rolling, h.D = float64(int(r)), float64(int(d))
			regen = true
		}
	}
	return y, regen
}

// yamlSnippet renders the config section of the given family as YAML.
func yamlSnippet(cfg *config.Config, family string) (string, error) {
	var section any
	switch family {
	case pattern.Fractal:
		section = map[string]config.FractalConfig{"fractal": cfg.Fractal}
	case pattern.Geometric:
		section = map[string]config.GeometricConfig{"geometric": cfg.Geometric}
	case pattern.Waves:
		section = map[string]config.WavesConfig{"waves": cfg.Waves}
	default:
		section = map[string]config.ParametricConfig{"parametric": cfg.Parametric}
	}
	out, err := yaml.Marshal(section)
	if err != nil {
		return "", fmt.Errorf("marshaling %s config: %w", family, err)
	}
	return string(out), nil
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// updateTexture copies a rendered frame into the GPU texture.
func updateTexture(texture rl.Texture2D, img *image.RGBA) {
	b := img.Bounds()
	pixels := make([]color.RGBA, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pixels = append(pixels, img.RGBAAt(x, y))
		}
	}
	rl.UpdateTexture(texture, pixels)
}
