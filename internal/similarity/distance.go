package similarity

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Distance returns the raw distance between two y-series under metric.
// Lockstep metrics require equal lengths.
func Distance(metric Metric, a, b []float64) (float64, error) {
	if !metric.valid() {
		return 0, &UnsupportedMetricError{Name: metric.String()}
	}
	if len(a) == 0 || len(b) == 0 {
		return 0, ErrEmptySequence
	}
	if metric == DTW {
		return finite(DTWDistance(a, b, NoWindow))
	}
	if len(a) != len(b) {
		return 0, &DimensionMismatchError{LenA: len(a), LenB: len(b)}
	}
	if err := checkSeries(metric, a); err != nil {
		return 0, err
	}
	if err := checkSeries(metric, b); err != nil {
		return 0, err
	}
	return finite(lockstep(metric, a, b), nil)
}

// finite rejects distances that overflowed or lost all precision.
func finite(d float64, err error) (float64, error) {
	if err != nil {
		return 0, err
	}
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, ErrDistanceOverflow
	}
	return d, nil
}

// checkSeries reports ErrZeroVariance or ErrZeroNorm for series the metric
// cannot handle.
func checkSeries(metric Metric, s []float64) error {
	switch metric {
	case Pearson:
		if floats.Min(s) == floats.Max(s) {
			return ErrZeroVariance
		}
	case Cosine:
		if floats.Norm(s, 2) == 0 {
			return ErrZeroNorm
		}
	}
	return nil
}

// lockstep assumes validated, equal-length input. Pearson and cosine do not
// depend on the scale of either series, so both run on unit-scaled copies to
// keep sums of products clear of underflow and overflow.
func lockstep(metric Metric, a, b []float64) float64 {
	if metric == Euclidean {
		return floats.Distance(a, b, 2)
	}
	a, b = unitScale(a), unitScale(b)
	switch metric {
	case Pearson:
		r := clamp(stat.Correlation(a, b, nil), -1, 1)
		return 1 - r
	case Cosine:
		cos := floats.Dot(a, b) / (floats.Norm(a, 2) * floats.Norm(b, 2))
		return clamp(1-cos, 0, 2)
	}
	panic("similarity: lockstep called with " + metric.String())
}

// unitScale returns a copy of s divided by its largest absolute value.
func unitScale(s []float64) []float64 {
	out := make([]float64, len(s))
	hi := floats.Norm(s, math.Inf(1))
	if hi == 0 {
		return out
	}
	for i, v := range s {
		out[i] = v / hi
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
