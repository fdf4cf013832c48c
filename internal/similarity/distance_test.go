package similarity_test

import (
	"math"
	"testing"

	"github.com/jessica-vector/snf-for-polymer-characterisation/internal/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	t.Run("euclidean", func(t *testing.T) {
		d, err := similarity.Distance(similarity.Euclidean, []float64{0, 0}, []float64{3, 4})
		require.NoError(t, err)
		assert.Equal(t, 5.0, d)
	})

	t.Run("pearson", func(t *testing.T) {
		d, err := similarity.Distance(similarity.Pearson, []float64{1, 2, 3, 4, 5}, []float64{2, 4, 6, 8, 10})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, d, 1e-12, "perfect positive correlation")

		d, err = similarity.Distance(similarity.Pearson, []float64{1, 2, 3, 4, 5}, []float64{5, 4, 3, 2, 1})
		require.NoError(t, err)
		assert.InDelta(t, 2.0, d, 1e-12, "perfect negative correlation")
		assert.LessOrEqual(t, d, 2.0)
	})

	t.Run("cosine", func(t *testing.T) {
		d, err := similarity.Distance(similarity.Cosine, []float64{1, 0, 0}, []float64{0, 1, 0})
		require.NoError(t, err)
		assert.Equal(t, 1.0, d, "orthogonal vectors")

		d, err = similarity.Distance(similarity.Cosine, []float64{2, 2}, []float64{1, 1})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, d, 1e-12, "magnitude is ignored")
		assert.GreaterOrEqual(t, d, 0.0, "rounding never yields a negative distance")
	})

	t.Run("dtw", func(t *testing.T) {
		d, err := similarity.Distance(similarity.DTW, []float64{0, 1, 2}, []float64{2, 1, 0})
		require.NoError(t, err)
		assert.Equal(t, 4.0, d)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := similarity.Distance(similarity.Euclidean, []float64{1}, []float64{1, 2})
		var mismatch *similarity.DimensionMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 1, mismatch.LenA)
		assert.Equal(t, 2, mismatch.LenB)
		assert.Contains(t, err.Error(), "1 != 2")

		_, err = similarity.Distance(similarity.Pearson, []float64{1, 1}, []float64{1, 2})
		assert.ErrorIs(t, err, similarity.ErrZeroVariance)

		_, err = similarity.Distance(similarity.Cosine, []float64{1, 2}, []float64{0, 0})
		assert.ErrorIs(t, err, similarity.ErrZeroNorm)

		_, err = similarity.Distance(similarity.Euclidean, nil, nil)
		assert.ErrorIs(t, err, similarity.ErrEmptySequence)

		_, err = similarity.Distance(similarity.Metric(-1), []float64{1}, []float64{1})
		var unsupported *similarity.UnsupportedMetricError
		assert.ErrorAs(t, err, &unsupported)
	})

	t.Run("no NaN for well formed input", func(t *testing.T) {
		for _, m := range similarity.Metrics() {
			d, err := similarity.Distance(m, []float64{0.1, 0.5, 0.2}, []float64{0.3, 0.1, 0.9})
			require.NoError(t, err, m.String())
			assert.False(t, math.IsNaN(d), m.String())
		}
	})
}

func TestDistance_NonFinite(t *testing.T) {
	_, err := similarity.Distance(similarity.Euclidean, []float64{1e308, -1e308}, []float64{-1e308, 1e308})
	assert.ErrorIs(t, err, similarity.ErrDistanceOverflow)

	_, err = similarity.Distance(similarity.DTW, []float64{1e308}, []float64{-1e308, -1e308})
	assert.ErrorIs(t, err, similarity.ErrDistanceOverflow)

	d, err := similarity.Distance(similarity.Pearson, []float64{0, 1e-200, 0}, []float64{1e-200, 2e-200, 3e-200})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d, 1e-12)
}
