package curve

import (
	"cmp"
	"fmt"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// CommonGrid returns n evenly spaced x values covering the range shared by
// every curve.
func CommonGrid(curves []Curve, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("curve: grid needs at least 2 points, got %d", n)
	}
	if len(curves) == 0 {
		return nil, ErrEmpty
	}

	lo, hi := 0.0, 0.0
	for i, c := range curves {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		xs := c.Xs()
		cLo, cHi := floats.Min(xs), floats.Max(xs)
		if i == 0 || cLo > lo {
			lo = cLo
		}
		if i == 0 || cHi < hi {
			hi = cHi
		}
	}
	if lo >= hi {
		return nil, fmt.Errorf("%w: shared range [%v, %v]", ErrNoOverlap, lo, hi)
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// Resample evaluates c on grid by linear interpolation. Points are ordered by
// x first, so descending axes such as FTIR wavenumbers are handled. Grid
// values outside the curve's support take the nearest edge value.
func Resample(c Curve, grid []float64) (Curve, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	sorted := c.Clone()
	slices.SortStableFunc(sorted, func(a, b Point) int {
		return cmp.Compare(a.X, b.X)
	})

	n := len(sorted)
	out := make(Curve, len(grid))
	for i, g := range grid {
		idx := sort.Search(n, func(k int) bool { return sorted[k].X >= g })
		var y float64
		switch {
		case idx == 0:
			y = sorted[0].Y
		case idx == n:
			y = sorted[n-1].Y
		case sorted[idx].X == g:
			y = sorted[idx].Y
		default:
			p0, p1 := sorted[idx-1], sorted[idx]
			frac := (g - p0.X) / (p1.X - p0.X)
			y = p0.Y + frac*(p1.Y-p0.Y)
		}
		out[i] = Point{X: g, Y: y}
	}
	return out, nil
}

// ResampleAll puts every curve of a collection onto one shared grid of n
// points.
func ResampleAll(samples map[string]Curve, n int) (map[string]Curve, error) {
	ids := make([]string, 0, len(samples))
	for id := range samples {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	curves := make([]Curve, len(ids))
	for i, id := range ids {
		curves[i] = samples[id]
	}
	grid, err := CommonGrid(curves, n)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Curve, len(samples))
	for i, id := range ids {
		r, err := Resample(curves[i], grid)
		if err != nil {
			return nil, fmt.Errorf("resample %s: %w", id, err)
		}
		out[id] = r
	}
	return out, nil
}
