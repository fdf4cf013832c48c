// Package kmeans groups samples by their rows of a similarity matrix.
package kmeans

import (
	"errors"
	"math"
	"math/rand"
	"runtime"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoData      = errors.New("kmeans: no data")
	ErrRaggedInput = errors.New("kmeans: points have different dimensions")
)

type Dataset [][]float64

// FromSymmetric uses each row of m as one point.
func FromSymmetric(m mat.Symmetric) Dataset {
	n := m.SymmetricDim()
	d := make(Dataset, n)
	for i := range n {
		d[i] = make([]float64, n)
		for j := range n {
			d[i][j] = m.At(i, j)
		}
	}
	return d
}

type Trainer struct {
	k             int
	maxIterations int
	distanceFn    DistanceFunc
	delta         float64
	concurrency   int
	seed          int64
}

type TrainerOption func(*Trainer)

type Model struct {
	distanceFn DistanceFunc
	k          int
	data       Dataset
	centroids  Dataset
	mapping    []int
	iter       int
}

// NewTrainer create new Trainer
func NewTrainer(k int, options ...TrainerOption) Trainer {
	t := Trainer{
		k:             k,
		maxIterations: 100,
		distanceFn:    EuclideanDistance,
		delta:         0.01,
		concurrency:   runtime.NumCPU(),
		seed:          1,
	}
	for i := range options {
		options[i](&t)
	}
	return t
}

func WithDistanceFunc(fn DistanceFunc) TrainerOption {
	return func(t *Trainer) {
		if fn != nil {
			t.distanceFn = fn
		}
	}
}

func WithMaxIterations(i int) TrainerOption {
	return func(t *Trainer) {
		t.maxIterations = max(1, i)
	}
}

func WithDeltaThreshold(delta float64) TrainerOption {
	return func(t *Trainer) {
		t.delta = delta
	}
}

func WithConcurrency(n int) TrainerOption {
	return func(t *Trainer) {
		t.concurrency = max(1, n)
	}
}

// WithSeed fixes the k-means++ seeding so runs are repeatable.
func WithSeed(seed int64) TrainerOption {
	return func(t *Trainer) {
		t.seed = seed
	}
}

// Fit create and train the *Model. k is clamped to [1, len(data)].
func (t Trainer) Fit(data Dataset) (*Model, error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return nil, ErrNoData
	}
	l := len(data[0])
	for _, p := range data {
		if len(p) != l {
			return nil, ErrRaggedInput
		}
	}

	k := min(max(1, t.k), len(data))
	workers := min(t.concurrency, len(data))
	model := Model{data: data, k: k, distanceFn: t.distanceFn}
	model.initializeMean(rand.New(rand.NewSource(t.seed)))
	changeThreshold := int(float64(len(data)) * t.delta)

	cb, cn := prepare(k, l)
	iter := 0
	for ; iter < t.maxIterations; iter++ {
		icb := make([][]int, workers)
		icn := make([]Dataset, workers)
		ich := make([]int, workers)
		ch := make(chan int, workers)
		for num := range workers {
			go func() {
				defer func() {
					ch <- num
				}()
				cb, cn := prepare(k, l)
				for i := num; i < len(data); i += workers {
					n := model.nearest(data[i])
					if model.mapping[i] != n {
						ich[num]++
					}
					model.mapping[i] = n
					cb[n]++
					floats.Add(cn[n], data[i])
				}
				icb[num] = cb
				icn[num] = cn
			}()
		}
		for range workers {
			<-ch
		}

		// merge in worker order so floating point sums do not depend on scheduling
		changes := 0
		for num := range workers {
			changes += ich[num]
			for n := range k {
				cb[n] += icb[num][n]
				floats.Add(cn[n], icn[num][n])
			}
		}

		for i := range k {
			// an empty cluster keeps its previous centroid
			if cb[i] > 0 {
				floats.Scale(1/float64(cb[i]), cn[i])
				copy(model.centroids[i], cn[i])
			}
			cb[i] = 0
			for j := range l {
				cn[i][j] = 0
			}
		}

		if changes == 0 || changes < changeThreshold {
			iter++
			break
		}
	}

	model.iter = iter
	return &model, nil
}

func prepare(k int, l int) ([]int, Dataset) {
	cb := make([]int, k)
	cn := make(Dataset, k)
	for i := 0; i < k; i++ {
		cn[i] = make([]float64, l)
	}
	return cb, cn
}

// initializeMean picks centroids with k-means++: each new centroid is drawn
// with probability proportional to its squared distance from the closest
// centroid chosen so far.
func (m *Model) initializeMean(rng *rand.Rand) {
	m.mapping = make([]int, len(m.data))
	m.centroids = make(Dataset, m.k)
	m.centroids[0] = clone(m.data[rng.Intn(len(m.data))])

	d := make([]float64, len(m.data))
	for i := 1; i < m.k; i++ {
		s := float64(0)
		for j := 0; j < len(m.data); j++ {
			l := m.distanceFn(m.centroids[0], m.data[j])
			for g := 1; g < i; g++ {
				if f := m.distanceFn(m.centroids[g], m.data[j]); f < l {
					l = f
				}
			}

			d[j] = math.Pow(l, 2)
			s += d[j]
		}

		t := rng.Float64() * s
		k := 0
		for s = d[0]; s < t && k < len(d)-1; s += d[k] {
			k++
		}

		m.centroids[i] = clone(m.data[k])
	}
}

func (m *Model) nearest(p []float64) int {
	l := 0
	n := m.distanceFn(p, m.centroids[0])
	for i := 1; i < m.k; i++ {
		if d := m.distanceFn(p, m.centroids[i]); d < n {
			n = d
			l = i
		}
	}
	return l
}

// Predict returns number of cluster to which the observation would be assigned.
func (m *Model) Predict(p []float64) int {
	return m.nearest(p)
}

// Guesses returns mapping from data point indices to cluster numbers.
func (m *Model) Guesses() []int {
	return m.mapping
}

// Cluster returns cluster at position i.
func (m *Model) Cluster(i int) []float64 {
	return m.centroids[i]
}

// Centroids returns every cluster centre.
func (m *Model) Centroids() Dataset {
	return m.centroids
}

// K returns the number of clusters actually used.
func (m *Model) K() int {
	return m.k
}

// Iter returns model number of iterations.
func (m *Model) Iter() int {
	return m.iter
}

func clone(p []float64) []float64 {
	return append([]float64(nil), p...)
}
