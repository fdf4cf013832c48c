package similarity

import (
	"math"
)

// NoWindow disables the Sakoe-Chiba band.
const NoWindow = -1

// DTWDistance returns the cumulative cost of the cheapest warping path
// between a and b, using |a_i - b_j| as the step cost:
//
//	D[i][j] = |a[i-1] - b[j-1]| + min(D[i-1][j], D[i][j-1], D[i-1][j-1])
//
// with D[0][0] = 0 and the rest of row and column zero at +Inf. Only two
// rows are kept in memory. A window >= 0 restricts cells to |i-j| <= window.
func DTWDistance(a, b []float64, window int) (float64, error) {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return 0, ErrEmptySequence
	}
	band := math.MaxInt
	if window >= 0 {
		band = window
		if abs(n-m) > band {
			return 0, ErrWindowTooNarrow
		}
	}

	inf := math.Inf(1)
	prev := make([]float64, m+1)
	curr := make([]float64, m+1)
	for j := 1; j <= m; j++ {
		prev[j] = inf
	}

	for i := 1; i <= n; i++ {
		curr[0] = inf
		for j := 1; j <= m; j++ {
			if abs(i-j) > band {
				curr[j] = inf
				continue
			}
			cost := math.Abs(a[i-1] - b[j-1])
			curr[j] = cost + min(prev[j], curr[j-1], prev[j-1])
		}
		prev, curr = curr, prev
	}
	return prev[m], nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
