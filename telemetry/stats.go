package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// FieldStats summarizes the value distribution of an intensity field.
type FieldStats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	P10    float64
	P50    float64
	P90    float64

	// Entropy of the value histogram divided by log(bins), so 0 is a flat
	// image and 1 uses every bin equally.
	Entropy float64

	// NaN and ±Inf entries are excluded from everything above
	NonFinite int
}

// Percentile returns the p-th quantile of a sorted slice by linear
// interpolation of the empirical distribution. p is clamped to [0, 1].
// Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(math.Max(0, math.Min(1, p)), stat.LinInterp, sorted, nil)
}

// ComputeFieldStats computes FieldStats over every finite entry of field.
// bins below 2 are raised to 2.
func ComputeFieldStats(field *mat.Dense, bins int) FieldStats {
	r, c := field.Dims()
	values := make([]float64, 0, r*c)
	var s FieldStats
	for i := 0; i < r; i++ {
		for _, v := range field.RawRowView(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				s.NonFinite++
				continue
			}
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return s
	}

	sort.Float64s(values)
	s.Min = values[0]
	s.Max = values[len(values)-1]
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		s.StdDev = 0
	}
	s.P10 = Percentile(values, 0.10)
	s.P50 = Percentile(values, 0.50)
	s.P90 = Percentile(values, 0.90)
	s.Entropy = normalizedEntropy(values, max(bins, 2))
	return s
}

// normalizedEntropy bins sorted values into equal-width buckets over
// [min, max] and returns the Shannon entropy divided by log(bins).
func normalizedEntropy(sorted []float64, bins int) float64 {
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi == lo {
		return 0
	}
	// stat.Histogram wants n+1 dividers and a last divider above the max
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	floats.Scale(1/float64(len(sorted)), counts)
	return stat.Entropy(counts) / math.Log(float64(bins))
}

// LogValue implements slog.LogValuer for structured logging.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.StdDev),
		slog.Float64("p50", s.P50),
		slog.Float64("entropy", s.Entropy),
	)
}
