package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Time a few items
	for i := 0; i < 5; i++ {
		pc.StartItem("mandelbrot")
		pc.StartPhase(PhaseGrid)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseEvaluate)
		time.Sleep(200 * time.Microsecond)
		pc.EndItem()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgDuration <= 0 {
		t.Error("expected positive average item duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseGrid]; !ok {
		t.Error("expected grid phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseEvaluate]; !ok {
		t.Error("expected evaluate phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartItem("mandelbrot")
		pc.StartPhase(PhaseGrid)
		pc.EndItem()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgDuration <= 0 {
		t.Error("expected positive average item duration after window filled")
	}

	if stats.ItemsPerSecond <= 0 {
		t.Error("expected positive items per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartItem("mandelbrot")
		pc.StartPhase("fast")
		time.Sleep(1 * time.Millisecond)
		pc.StartPhase("slow")
		time.Sleep(20 * time.Millisecond)
		pc.EndItem()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	// Slow phase should take more % than fast
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgDuration != 0 {
		t.Error("expected zero avg item duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}

	// With 16ms frames, expect ~60 FPS (allow range 40-80)
	if stats.FPS < 40 || stats.FPS > 80 {
		t.Errorf("expected FPS between 40-80 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfCollector_EndItemReturnsSample(t *testing.T) {
	pc := NewPerfCollector(4)

	pc.StartItem("julia.png")
	pc.StartPhase(PhaseEvaluate)
	time.Sleep(50 * time.Microsecond)
	pc.StartPhase(PhaseEncode)
	pc.StartPhase(PhaseEvaluate) // re-entering accumulates
	s := pc.EndItem()

	if s.Name != "julia.png" {
		t.Errorf("expected name julia.png, got %q", s.Name)
	}
	if s.Phases[PhaseEvaluate] < 50*time.Microsecond {
		t.Errorf("expected evaluate >= 50us, got %v", s.Phases[PhaseEvaluate])
	}
	if s.Duration < s.Phases[PhaseEvaluate] {
		t.Errorf("item duration %v shorter than a phase %v", s.Duration, s.Phases[PhaseEvaluate])
	}

	row := s.ToCSV()
	if row.Name != "julia.png" || row.TotalUS != s.Duration.Microseconds() {
		t.Errorf("unexpected csv row %+v", row)
	}
	if row.GridUS != 0 {
		t.Errorf("expected zero grid time, got %d", row.GridUS)
	}
}
