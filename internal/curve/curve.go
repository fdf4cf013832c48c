// Package curve holds the canonical two-column profile of one sample and the
// preparation steps applied before curves are compared.
package curve

import (
	"errors"
	"math"
)

var (
	// ErrEmpty is returned for a curve without points.
	ErrEmpty = errors.New("curve: no points")
	// ErrNonFinite is returned when a point holds NaN or Inf.
	ErrNonFinite = errors.New("curve: non-finite value")
	// ErrNoOverlap is returned when curves share no common x-range.
	ErrNoOverlap = errors.New("curve: x-ranges do not overlap")
	// ErrZeroReference is returned when a normalisation reference value is zero.
	ErrZeroReference = errors.New("curve: zero reference value")
)

// Point is a single (independent, dependent) measurement.
type Point struct {
	X float64
	Y float64
}

// Curve is an ordered sequence of points for one sample.
type Curve []Point

// FromXY builds a curve from parallel x and y slices. Extra values in the
// longer slice are ignored.
func FromXY(xs, ys []float64) Curve {
	n := min(len(xs), len(ys))
	c := make(Curve, n)
	for i := range n {
		c[i] = Point{X: xs[i], Y: ys[i]}
	}
	return c
}

// Validate checks that the curve is non-empty and fully finite.
func (c Curve) Validate() error {
	if len(c) == 0 {
		return ErrEmpty
	}
	for _, p := range c {
		if !finite(p.X) || !finite(p.Y) {
			return ErrNonFinite
		}
	}
	return nil
}

// Xs returns a copy of the independent variable.
func (c Curve) Xs() []float64 {
	xs := make([]float64, len(c))
	for i, p := range c {
		xs[i] = p.X
	}
	return xs
}

// Ys returns a copy of the dependent variable.
func (c Curve) Ys() []float64 {
	ys := make([]float64, len(c))
	for i, p := range c {
		ys[i] = p.Y
	}
	return ys
}

// Clone returns a deep copy.
func (c Curve) Clone() Curve {
	out := make(Curve, len(c))
	copy(out, c)
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
