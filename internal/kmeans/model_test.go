package kmeans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func twoGroups() Dataset {
	return Dataset{
		{0, 0},
		{0.1, 0},
		{0, 0.1},
		{10, 10},
		{10.1, 10},
		{10, 10.1},
	}
}

func TestFit_SeparatesGroups(t *testing.T) {
	data := twoGroups()
	m, err := NewTrainer(2, WithSeed(7), WithConcurrency(3)).Fit(data)
	require.NoError(t, err)

	g := m.Guesses()
	require.Len(t, g, len(data))
	assert.Equal(t, g[0], g[1])
	assert.Equal(t, g[0], g[2])
	assert.Equal(t, g[3], g[4])
	assert.Equal(t, g[3], g[5])
	assert.NotEqual(t, g[0], g[3], "the two groups must land in different clusters")
	assert.Equal(t, g[0], m.Predict([]float64{0.05, 0.05}))
	assert.InDeltaSlice(t, []float64{10.0333, 10.0333}, m.Cluster(g[3]), 1e-3)
	assert.Positive(t, m.Iter())
}

func TestFit_DoesNotModifyInput(t *testing.T) {
	data := twoGroups()
	_, err := NewTrainer(2).Fit(data)
	require.NoError(t, err)
	assert.Equal(t, twoGroups(), data)
}

func TestFit_Repeatable(t *testing.T) {
	a, err := NewTrainer(3, WithSeed(3), WithConcurrency(1)).Fit(twoGroups())
	require.NoError(t, err)
	b, err := NewTrainer(3, WithSeed(3), WithConcurrency(1)).Fit(twoGroups())
	require.NoError(t, err)
	assert.Equal(t, a.Guesses(), b.Guesses())
	assert.Equal(t, a.Centroids(), b.Centroids())
}

func TestFit_StoppingOptions(t *testing.T) {
	// the first round moves the three points of the second group, the
	// second round moves nothing
	m, err := NewTrainer(2, WithSeed(7), WithDeltaThreshold(0)).Fit(twoGroups())
	require.NoError(t, err)
	assert.Equal(t, 2, m.Iter(), "runs until no point changes cluster")

	m, err = NewTrainer(2, WithSeed(7), WithDeltaThreshold(1)).Fit(twoGroups())
	require.NoError(t, err)
	assert.Equal(t, 1, m.Iter(), "fewer changes than the whole dataset stops at once")

	m, err = NewTrainer(2, WithSeed(7), WithDeltaThreshold(0), WithMaxIterations(1)).Fit(twoGroups())
	require.NoError(t, err)
	assert.Equal(t, 1, m.Iter())

	m, err = NewTrainer(2, WithSeed(7), WithMaxIterations(0)).Fit(twoGroups())
	require.NoError(t, err)
	assert.Equal(t, 1, m.Iter(), "at least one iteration")
}

func TestFit_ClampsK(t *testing.T) {
	m, err := NewTrainer(10).Fit(Dataset{{1}, {2}})
	require.NoError(t, err)
	assert.Equal(t, 2, m.K())

	m, err = NewTrainer(0).Fit(Dataset{{1}})
	require.NoError(t, err)
	assert.Equal(t, 1, m.K())
	assert.Equal(t, []int{0}, m.Guesses())
}

func TestFit_Errors(t *testing.T) {
	_, err := NewTrainer(2).Fit(nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = NewTrainer(2).Fit(Dataset{{1, 2}, {1}})
	assert.ErrorIs(t, err, ErrRaggedInput)
}

func TestFromSymmetric(t *testing.T) {
	m := mat.NewSymDense(2, []float64{1, 0.5, 0.5, 1})
	assert.Equal(t, Dataset{{1, 0.5}, {0.5, 1}}, FromSymmetric(m))
}

func TestDistances(t *testing.T) {
	a, b := []float64{0, 0}, []float64{3, 4}
	assert.Equal(t, 5.0, EuclideanDistance(a, b))
	assert.Equal(t, 25.0, EuclideanDistanceSquared(a, b))
	assert.Equal(t, 7.0, ManhattanDistance(a, b))

	fn, ok := ParseDistance("EuclideanDistanceSquared")
	require.True(t, ok)
	assert.Equal(t, 25.0, fn(a, b))
	_, ok = ParseDistance("chebyshev")
	assert.False(t, ok)
}
