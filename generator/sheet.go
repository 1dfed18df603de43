package generator

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/pthm-cable/patterns/pattern"
	"github.com/pthm-cable/patterns/renderer"
	"github.com/pthm-cable/patterns/telemetry"
)

const sheetFile = "sheet.png"

// tileResult is one worker's output, stored by catalogue index so the
// sheet layout does not depend on scheduling.
type tileResult struct {
	tile renderer.Tile
	err  error
}

// ContactSheet renders every catalogue pattern at tile size and lays them
// out on sheet.png. Tiles are evaluated on a worker pool; evaluators are
// pure, so the result matches a sequential run.
func (g *Generator) ContactSheet() error {
	oc := g.cfg.Output
	tileCfg := g.cfg.WithCanvas(oc.SheetTileW, oc.SheetTileH)
	all := pattern.All()

	g.perf.StartItem(sheetFile)
	g.perf.StartPhase(telemetry.PhaseEvaluate)

	results := make([]tileResult, len(all))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(runtime.GOMAXPROCS(0), len(all)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = renderTile(all[i], pattern.Request{
					Config: tileCfg,
					Width:  oc.SheetTileW,
					Height: oc.SheetTileH,
					Seed:   g.opts.Seed,
				})
			}
		}()
	}
	for i := range all {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	tiles := make([]renderer.Tile, len(all))
	for i, r := range results {
		if r.err != nil {
			g.perf.EndItem()
			return fmt.Errorf("sheet: %w", r.err)
		}
		tiles[i] = r.tile
	}

	g.perf.StartPhase(telemetry.PhaseColorize)
	sheet, err := renderer.ContactSheet(tiles, oc.SheetColumns, oc.SheetTileW, oc.SheetTileH)
	if err != nil {
		g.perf.EndItem()
		return fmt.Errorf("sheet: %w", err)
	}
	g.perf.StartPhase(telemetry.PhaseEncode)
	if err := renderer.WritePNG(g.out.Path(sheetFile), sheet); err != nil {
		g.perf.EndItem()
		return err
	}
	sample := g.perf.EndItem()

	b := sheet.Bounds()
	slog.Info("sheet written", "file", sheetFile, "tiles", len(tiles), "width", b.Dx(), "height", b.Dy())
	return g.record(telemetry.ArtefactRecord{
		File:      sheetFile,
		Kind:      telemetry.KindSheet,
		Pattern:   "all",
		Width:     b.Dx(),
		Height:    b.Dy(),
		Frames:    1,
		Seed:      g.opts.Seed,
		ElapsedMS: sample.Duration.Milliseconds(),
	}, sample)
}

func renderTile(p pattern.Pattern, req pattern.Request) tileResult {
	cm, err := req.Config.Colormap(p.ColormapFor(req.Config))
	if err != nil {
		return tileResult{err: err}
	}
	field, err := p.Generate(req)
	if err != nil {
		return tileResult{err: err}
	}
	return tileResult{tile: renderer.Tile{Label: p.Name, Image: renderer.Colorize(field, cm)}}
}
