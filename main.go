package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/pthm-cable/patterns/config"
	"github.com/pthm-cable/patterns/generator"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	patterns := flag.String("pattern", "all", "Pattern name, comma-separated list, or 'all'")
	width := flag.Int("width", 0, "Canvas width in pixels (0 = use config)")
	height := flag.Int("height", 0, "Canvas height in pixels (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory (empty = use config)")
	seed := flag.Int64("seed", 42, "RNG seed for randomized patterns and particles")
	animate := flag.Bool("animate", false, "Also render the flow-field animation")
	plasma := flag.Bool("plasma", false, "Also render the plasma animation")
	sheet := flag.Bool("sheet", false, "Also render a contact sheet of every pattern")
	svg := flag.Bool("svg", false, "Export parametric curves as SVG")
	logStats := flag.Bool("log-stats", false, "Output perf stats via slog")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// CLI overrides
	if *width > 0 || *height > 0 {
		cfg = cfg.WithCanvas(orConfig(*width, cfg.Canvas.Width), orConfig(*height, cfg.Canvas.Height))
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	config.Set(cfg)

	opts := generator.Options{
		Patterns: parsePatterns(*patterns),
		Seed:     *seed,
		LogStats: *logStats,
		SVG:      *svg,
		Animate:  *animate,
		Plasma:   *plasma,
		Sheet:    *sheet,
	}

	g, err := generator.New(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	slog.Info("generating",
		"patterns", *patterns,
		"width", cfg.Canvas.Width,
		"height", cfg.Canvas.Height,
		"seed", *seed,
		"output_dir", g.Dir(),
	)

	runErr := g.Run()
	if err := g.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		slog.Error("generation failed", "error", runErr)
		os.Exit(1)
	}
}

// parsePatterns turns the -pattern flag into catalogue names. "all" and
// the empty string select every pattern.
func parsePatterns(s string) []string {
	if s == "" || strings.EqualFold(s, "all") {
		return nil
	}
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func orConfig(flagValue, cfgValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return cfgValue
}
