package telemetry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"below range clamps", []float64{1, 2, 3}, -0.5, 1.0},
		{"above range clamps", []float64{1, 2, 3}, 1.5, 3.0},
		// the empirical CDF steps at k/n, so p·n lands between neighbours
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 2.5},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p25", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.25, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.0},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeFieldStats(t *testing.T) {
	field := mat.NewDense(2, 5, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	s := ComputeFieldStats(field, 10)

	if s.Min != 1 || s.Max != 10 {
		t.Errorf("expected range [1, 10], got [%v, %v]", s.Min, s.Max)
	}
	if math.Abs(s.Mean-5.5) > 1e-12 {
		t.Errorf("expected mean 5.5, got %v", s.Mean)
	}
	// sample standard deviation of 1..10
	if math.Abs(s.StdDev-3.0276503540974917) > 1e-9 {
		t.Errorf("expected std 3.0277, got %v", s.StdDev)
	}
	if math.Abs(s.P10-1) > 1e-9 || math.Abs(s.P50-5) > 1e-9 || math.Abs(s.P90-9) > 1e-9 {
		t.Errorf("expected p10/p50/p90 1/5/9, got %v/%v/%v", s.P10, s.P50, s.P90)
	}
	// ten distinct values in ten bins: one per bin, maximal entropy
	if math.Abs(s.Entropy-1) > 1e-9 {
		t.Errorf("expected entropy 1, got %v", s.Entropy)
	}
}

func TestComputeFieldStatsConstantField(t *testing.T) {
	s := ComputeFieldStats(mat.NewDense(3, 3, []float64{4, 4, 4, 4, 4, 4, 4, 4, 4}), 16)

	if s.Entropy != 0 {
		t.Errorf("expected zero entropy for a flat field, got %v", s.Entropy)
	}
	if s.StdDev != 0 {
		t.Errorf("expected zero std, got %v", s.StdDev)
	}
}

func TestComputeFieldStatsTwoLevels(t *testing.T) {
	// half zeros, half ones: one bit of entropy over 4 bins = 0.5
	s := ComputeFieldStats(mat.NewDense(1, 4, []float64{0, 1, 0, 1}), 4)
	if math.Abs(s.Entropy-0.5) > 1e-9 {
		t.Errorf("expected entropy 0.5, got %v", s.Entropy)
	}
}

func TestComputeFieldStatsSkipsNonFinite(t *testing.T) {
	field := mat.NewDense(1, 4, []float64{math.NaN(), 2, math.Inf(1), 4})
	s := ComputeFieldStats(field, 8)

	if s.NonFinite != 2 {
		t.Errorf("expected 2 non-finite entries, got %d", s.NonFinite)
	}
	if s.Min != 2 || s.Max != 4 || s.Mean != 3 {
		t.Errorf("unexpected stats %+v", s)
	}

	empty := ComputeFieldStats(mat.NewDense(1, 1, []float64{math.NaN()}), 8)
	if empty.NonFinite != 1 || empty.Max != 0 {
		t.Errorf("unexpected stats for all-NaN field %+v", empty)
	}
}
