package similarity_test

import (
	"testing"

	"github.com/jessica-vector/snf-for-polymer-characterisation/internal/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDTWDistance_EmptyInput verifies that either empty side is rejected.
func TestDTWDistance_EmptyInput(t *testing.T) {
	_, err := similarity.DTWDistance(nil, []float64{1, 2}, similarity.NoWindow)
	assert.ErrorIs(t, err, similarity.ErrEmptySequence, "empty first sequence should error")

	_, err = similarity.DTWDistance([]float64{1, 2}, []float64{}, similarity.NoWindow)
	assert.ErrorIs(t, err, similarity.ErrEmptySequence, "empty second sequence should error")
}

// TestDTWDistance_Identical checks that identical sequences cost nothing.
func TestDTWDistance_Identical(t *testing.T) {
	d, err := similarity.DTWDistance([]float64{0, 1, 2}, []float64{0, 1, 2}, similarity.NoWindow)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

// TestDTWDistance_Subsequence checks a perfect match after stretching.
func TestDTWDistance_Subsequence(t *testing.T) {
	d, err := similarity.DTWDistance([]float64{1, 2, 3}, []float64{1, 2, 2, 3}, similarity.NoWindow)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d, "a repeated sample is absorbed by the warp")
}

// TestDTWDistance_KnownValues compares against hand-filled cost tables.
func TestDTWDistance_KnownValues(t *testing.T) {
	cases := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"mirrored", []float64{0, 1, 2}, []float64{2, 1, 0}, 4},
		{"single against pair", []float64{0, 0}, []float64{1}, 2},
		{"single points", []float64{3}, []float64{-1.5}, 4.5},
		{"tail extension", []float64{1, 2, 3}, []float64{1, 2, 3, 4}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := similarity.DTWDistance(tc.a, tc.b, similarity.NoWindow)
			require.NoError(t, err)
			assert.Equal(t, tc.want, d)

			back, err := similarity.DTWDistance(tc.b, tc.a, similarity.NoWindow)
			require.NoError(t, err)
			assert.Equal(t, d, back, "DTW is symmetric in its arguments")
		})
	}
}

// TestDTWDistance_Window verifies the Sakoe-Chiba band.
func TestDTWDistance_Window(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{1, 2, 3, 4}

	_, err := similarity.DTWDistance(a, b, 0)
	assert.ErrorIs(t, err, similarity.ErrWindowTooNarrow, "window 0 cannot absorb a length difference")

	free, err := similarity.DTWDistance(a, b, similarity.NoWindow)
	require.NoError(t, err)
	banded, err := similarity.DTWDistance(a, b, 1)
	require.NoError(t, err)
	assert.Equal(t, free, banded, "the optimal path lies inside a band of 1")

	// a band of 0 on equal lengths reduces DTW to the L1 distance
	d, err := similarity.DTWDistance([]float64{0, 5, 0}, []float64{5, 0, 5}, 0)
	require.NoError(t, err)
	assert.Equal(t, 15.0, d)

	warped, err := similarity.DTWDistance([]float64{0, 5, 0}, []float64{5, 0, 5}, similarity.NoWindow)
	require.NoError(t, err)
	assert.Less(t, warped, d, "warping finds a cheaper path without the band")
}
