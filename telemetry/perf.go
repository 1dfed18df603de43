package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for producing one artefact.
const (
	PhaseGrid     = "grid"
	PhaseEvaluate = "evaluate"
	PhaseColorize = "colorize"
	PhaseEncode   = "encode"
)

// Phases lists the phases in pipeline order.
var Phases = []string{PhaseGrid, PhaseEvaluate, PhaseColorize, PhaseEncode}

// PerfSample holds timing data for a single item (an image or animation frame).
type PerfSample struct {
	Name     string
	Duration time.Duration
	Phases   map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentName   string
	currentPhases map[string]time.Duration
	itemStart     time.Time
	phaseStart    time.Time
	lastPhase     string

	// Frame timing (for the interactive preview)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of items to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartItem begins timing a new item.
func (p *PerfCollector) StartItem(name string) {
	p.itemStart = time.Now()
	p.currentName = name
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
// Re-entering a phase accumulates into it.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndItem finishes timing the current item, records it and returns it.
func (p *PerfCollector) EndItem() PerfSample {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		Name:     p.currentName,
		Duration: now.Sub(p.itemStart),
		Phases:   p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.lastPhase = ""
	return sample
}

// RecordFrame records frame timing for the interactive preview.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	Items int

	AvgDuration time.Duration
	MinDuration time.Duration
	MaxDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total item time
	PhasePct map[string]float64

	ItemsPerSecond float64

	// Frame timing (preview)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:      make(map[string]time.Duration),
			PhasePct:      make(map[string]float64),
			FrameDuration: p.frameDuration,
			FPS:           fps,
		}
	}

	var total time.Duration
	var minD, maxD time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.Duration

		if i == 0 || s.Duration < minD {
			minD = s.Duration
		}
		if s.Duration > maxD {
			maxD = s.Duration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var perSec float64
	if avg > 0 {
		perSec = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		Items:          p.sampleCount,
		AvgDuration:    avg,
		MinDuration:    minD,
		MaxDuration:    maxD,
		PhaseAvg:       phaseAvg,
		PhasePct:       phasePct,
		ItemsPerSecond: perSec,
		FrameDuration:  p.frameDuration,
		FPS:            fps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"items", s.Items,
		"avg_ms", s.AvgDuration.Milliseconds(),
		"min_ms", s.MinDuration.Milliseconds(),
		"max_ms", s.MaxDuration.Milliseconds(),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("items", s.Items),
		slog.Int64("avg_us", s.AvgDuration.Microseconds()),
		slog.Int64("min_us", s.MinDuration.Microseconds()),
		slog.Int64("max_us", s.MaxDuration.Microseconds()),
		slog.Float64("items_per_sec", s.ItemsPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfRecordCSV is one perf.csv row: the timing of a single item.
type PerfRecordCSV struct {
	Name       string `csv:"name"`
	TotalUS    int64  `csv:"total_us"`
	GridUS     int64  `csv:"grid_us"`
	EvaluateUS int64  `csv:"evaluate_us"`
	ColorizeUS int64  `csv:"colorize_us"`
	EncodeUS   int64  `csv:"encode_us"`
}

// ToCSV converts a sample to a flat CSV-friendly struct.
func (s PerfSample) ToCSV() PerfRecordCSV {
	return PerfRecordCSV{
		Name:       s.Name,
		TotalUS:    s.Duration.Microseconds(),
		GridUS:     s.Phases[PhaseGrid].Microseconds(),
		EvaluateUS: s.Phases[PhaseEvaluate].Microseconds(),
		ColorizeUS: s.Phases[PhaseColorize].Microseconds(),
		EncodeUS:   s.Phases[PhaseEncode].Microseconds(),
	}
}
