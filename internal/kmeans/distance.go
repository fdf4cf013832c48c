package kmeans

import (
	"gonum.org/v1/gonum/floats"
)

// DistanceFunc measures the distance between two points of equal dimension.
type DistanceFunc func([]float64, []float64) float64

var (
	// EuclideanDistance is the straight-line distance.
	EuclideanDistance DistanceFunc = func(a, b []float64) float64 {
		return floats.Distance(a, b, 2)
	}

	// EuclideanDistanceSquared avoids the square root and ranks points the
	// same way as EuclideanDistance.
	EuclideanDistanceSquared DistanceFunc = func(a, b []float64) float64 {
		var s float64
		for i := range a {
			t := a[i] - b[i]
			s += t * t
		}
		return s
	}

	// ManhattanDistance sums absolute coordinate differences.
	ManhattanDistance DistanceFunc = func(a, b []float64) float64 {
		return floats.Distance(a, b, 1)
	}
)

// ParseDistance resolves a distance function by name.
func ParseDistance(name string) (DistanceFunc, bool) {
	switch name {
	case "", "EuclideanDistance", "euclidean":
		return EuclideanDistance, true
	case "EuclideanDistanceSquared", "sqeuclidean":
		return EuclideanDistanceSquared, true
	case "ManhattanDistance", "manhattan":
		return ManhattanDistance, true
	}
	return nil, false
}
