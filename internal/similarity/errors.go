package similarity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptySampleSet is returned when there is nothing to compare.
	ErrEmptySampleSet = errors.New("similarity: empty sample set")
	// ErrEmptySequence is returned when a series has no values.
	ErrEmptySequence = errors.New("similarity: empty sequence")
	// ErrZeroVariance marks a constant series, for which Pearson correlation
	// is undefined.
	ErrZeroVariance = errors.New("similarity: zero variance")
	// ErrZeroNorm marks an all-zero series, for which cosine is undefined.
	ErrZeroNorm = errors.New("similarity: zero norm")
	// ErrDistanceOverflow is returned when a distance is not representable as
	// a finite float64, as with values near the limits of the type.
	ErrDistanceOverflow = errors.New("similarity: distance overflows float64")
	// ErrWindowTooNarrow is returned when a DTW band cannot reach the end of
	// both sequences.
	ErrWindowTooNarrow = errors.New("similarity: dtw window narrower than length difference")
)

// UnsupportedMetricError is returned for a metric outside the closed set.
type UnsupportedMetricError struct {
	Name string
}

func (e *UnsupportedMetricError) Error() string {
	names := make([]string, 0, len(metricNames))
	for _, m := range Metrics() {
		names = append(names, m.String())
	}
	return fmt.Sprintf("similarity: unsupported metric %q, choose from %s", e.Name, strings.Join(names, ", "))
}

// DimensionMismatchError is returned when a lockstep metric receives series
// of different length.
type DimensionMismatchError struct {
	A, B       string
	LenA, LenB int
}

func (e *DimensionMismatchError) Error() string {
	if e.A == "" && e.B == "" {
		return fmt.Sprintf("similarity: length mismatch %d != %d", e.LenA, e.LenB)
	}
	return fmt.Sprintf("similarity: length mismatch %s=%d %s=%d, resample onto a common grid", e.A, e.LenA, e.B, e.LenB)
}

// DegenerateCurveError is returned when a sample cannot be compared under the
// chosen metric. Err is one of ErrZeroVariance, ErrZeroNorm, ErrEmptySequence
// or a curve validation error.
type DegenerateCurveError struct {
	ID  string
	Err error
}

func (e *DegenerateCurveError) Error() string {
	return fmt.Sprintf("similarity: degenerate curve %q: %v", e.ID, e.Err)
}

func (e *DegenerateCurveError) Unwrap() error {
	return e.Err
}
