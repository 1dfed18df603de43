package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/patterns/config"
	"github.com/pthm-cable/patterns/pattern"
	"github.com/pthm-cable/patterns/telemetry"
)

// Resolution is one evaluation canvas.
type Resolution struct {
	Width, Height int
}

// FitnessEvaluator renders Julia sets and scores their visual richness.
type FitnessEvaluator struct {
	params      *ParamVector
	resolutions []Resolution
	baseConfig  *config.Config
	bins        int

	mu   sync.Mutex
	last Score // score from most recent Evaluate call
}

// Score breaks a fitness value into its parts.
type Score struct {
	Entropy  float64 // normalized histogram entropy of escape counts
	Interior float64 // fraction of points that never escaped
	Spread   float64 // std of escape counts / max_iter
	Quality  float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, resolutions []Resolution, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		resolutions: resolutions,
		baseConfig:  baseCfg,
		bins:        baseCfg.Telemetry.HistogramBins,
	}
}

// LastScore returns the score breakdown from the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() Score {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Quality component weights.
const (
	qualityWeightInterior = 0.5
	qualityWeightSpread   = 0.5

	// Sets with about this share of interior points read as a shape with
	// detail around it rather than dust or a filled blob.
	targetInterior = 0.25
	interiorWidth  = 0.15
)

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is -(entropy × (1 + 0.2×quality)) averaged over resolutions, so
// detail has to survive at every scale.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Render all resolutions in parallel
	scores := make([]Score, len(fe.resolutions))
	var wg sync.WaitGroup
	for i, res := range fe.resolutions {
		wg.Add(1)
		go func(idx int, r Resolution) {
			defer wg.Done()
			scores[idx] = fe.score(cfg.WithCanvas(r.Width, r.Height), r)
		}(i, res)
	}
	wg.Wait()

	var avg Score
	var total float64
	for _, s := range scores {
		total += computeFitness(s)
		avg.Entropy += s.Entropy
		avg.Interior += s.Interior
		avg.Spread += s.Spread
		avg.Quality += s.Quality
	}
	n := float64(len(scores))
	avg.Entropy /= n
	avg.Interior /= n
	avg.Spread /= n
	avg.Quality /= n

	fe.mu.Lock()
	fe.last = avg
	fe.mu.Unlock()

	return total / n
}

// score renders one resolution. A render error scores zero.
func (fe *FitnessEvaluator) score(cfg *config.Config, r Resolution) Score {
	julia, err := pattern.Lookup("julia")
	if err != nil {
		return Score{}
	}
	field, err := julia.Generate(pattern.Request{Config: cfg, Width: r.Width, Height: r.Height})
	if err != nil {
		return Score{}
	}
	return computeScore(field, cfg.Fractal.MaxIter, fe.bins)
}

// computeScore scores an escape-count field.
func computeScore(field *mat.Dense, maxIter, bins int) Score {
	stats := telemetry.ComputeFieldStats(field, bins)

	rows, cols := field.Dims()
	interior := 0
	for i := 0; i < rows; i++ {
		for _, v := range field.RawRowView(i) {
			if v >= float64(maxIter) {
				interior++
			}
		}
	}

	s := Score{
		Entropy:  stats.Entropy,
		Interior: float64(interior) / float64(rows*cols),
		Spread:   stats.StdDev / float64(max(maxIter, 1)),
	}
	interiorScore := math.Exp(-math.Pow((s.Interior-targetInterior)/interiorWidth, 2))
	spreadScore := clamp01(4 * s.Spread)
	s.Quality = clamp01(qualityWeightInterior*interiorScore + qualityWeightSpread*spreadScore)
	return s
}

// computeFitness calculates the scalar fitness (lower = better).
// Entropy dominates; quality adds up to 20% bonus.
func computeFitness(s Score) float64 {
	return -(s.Entropy * (1.0 + 0.2*s.Quality))
}

// copyConfig returns a copy of the base config safe to modify.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cp := *fe.baseConfig
	return &cp
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
