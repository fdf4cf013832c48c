// Package similarity builds sample-by-sample similarity matrices from
// prepared curves.
//
// Every unordered pair of samples is compared on its y-series with one of
// four metrics. DTW and Euclidean distances are divided by the largest
// distance of the batch and mapped through 1/(1+d), so a score depends on
// every other sample in the batch. Pearson and cosine distances are mapped
// through 1-d and may be negative for anti-correlated curves. The diagonal is
// always exactly 1.
package similarity

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jessica-vector/snf-for-polymer-characterisation/internal/curve"
	"gonum.org/v1/gonum/mat"
)

type engine struct {
	concurrency int
	window      int
	logger      *slog.Logger
}

type Option func(*engine)

// WithConcurrency spreads pair evaluation over n goroutines. Output does not
// depend on n.
func WithConcurrency(n int) Option {
	return func(e *engine) {
		e.concurrency = max(1, n)
	}
}

// WithWindow restricts DTW to a Sakoe-Chiba band of the given half width.
// NoWindow, the default, leaves it unconstrained.
func WithWindow(w int) Option {
	return func(e *engine) {
		e.window = w
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func newEngine(opts []Option) *engine {
	e := &engine{
		concurrency: 1,
		window:      NoWindow,
		logger:      slog.Default(),
	}
	for i := range opts {
		opts[i](e)
	}
	return e
}

// Compute returns the lexicographically sorted sample ids and the similarity
// matrix whose row and column k belong to ids[k]. Either the whole matrix is
// returned or an error, never a partial result.
func Compute(samples map[string]curve.Curve, metric Metric, opts ...Option) ([]string, *mat.SymDense, error) {
	if !metric.valid() {
		return nil, nil, &UnsupportedMetricError{Name: metric.String()}
	}
	if len(samples) == 0 {
		return nil, nil, ErrEmptySampleSet
	}
	e := newEngine(opts)

	ids := make([]string, 0, len(samples))
	for id := range samples {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	series := make([][]float64, len(ids))
	for i, id := range ids {
		c := samples[id]
		if err := c.Validate(); err != nil {
			return nil, nil, &DegenerateCurveError{ID: id, Err: err}
		}
		series[i] = c.Ys()
	}
	if err := e.check(metric, ids, series); err != nil {
		return nil, nil, err
	}

	now := time.Now()
	e.logger.Debug("Computing distances",
		slog.String("metric", metric.String()),
		slog.Int("samples", len(ids)),
		slog.Int("concurrency", e.concurrency),
	)
	dist, err := e.distanceMatrix(metric, series, ids)
	if err != nil {
		return nil, nil, err
	}
	sim := ToSimilarity(metric, dist)
	e.logger.Debug("Similarity matrix ready",
		slog.String("metric", metric.String()),
		slog.Int("samples", len(ids)),
		slog.Duration("took", time.Since(now)),
	)
	return ids, sim, nil
}

// check enforces the metric preconditions in id order so the reported
// error is the same on every run.
func (e *engine) check(metric Metric, ids []string, series [][]float64) error {
	if len(series) < 2 {
		return nil
	}
	for i, s := range series {
		if metric.Elastic() {
			if e.window < 0 {
				continue
			}
			for j := i + 1; j < len(series); j++ {
				if abs(len(s)-len(series[j])) > e.window {
					return fmt.Errorf("%w: %s has %d points, %s has %d", ErrWindowTooNarrow, ids[i], len(s), ids[j], len(series[j]))
				}
			}
			continue
		}
		if len(s) != len(series[0]) {
			return &DimensionMismatchError{A: ids[0], B: ids[i], LenA: len(series[0]), LenB: len(s)}
		}
		if err := checkSeries(metric, s); err != nil {
			return &DegenerateCurveError{ID: ids[i], Err: err}
		}
	}
	return nil
}

// DistanceMatrix computes raw pairwise distances between series. The
// diagonal is zero.
func DistanceMatrix(metric Metric, series [][]float64, opts ...Option) (*mat.SymDense, error) {
	if !metric.valid() {
		return nil, &UnsupportedMetricError{Name: metric.String()}
	}
	if len(series) == 0 {
		return nil, ErrEmptySampleSet
	}
	return newEngine(opts).distanceMatrix(metric, series, nil)
}

type pair struct {
	i, j int
}

// distanceMatrix labels a failing pair with ids when given, otherwise with
// series indices.
func (e *engine) distanceMatrix(metric Metric, series [][]float64, ids []string) (*mat.SymDense, error) {
	n := len(series)
	pairs := make([]pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, pair{i, j})
		}
	}

	// each pair owns one slot, so workers never share a write
	values := make([]float64, len(pairs))
	workers := min(e.concurrency, max(1, len(pairs)))
	firstErr := make([]int, workers)
	errs := make([]error, workers)
	ch := make(chan int, workers)
	for num := range workers {
		go func() {
			defer func() {
				ch <- num
			}()
			for k := num; k < len(pairs); k += workers {
				p := pairs[k]
				d, err := e.pairDistance(metric, series[p.i], series[p.j])
				if err != nil {
					firstErr[num], errs[num] = k, err
					return
				}
				values[k] = d
			}
		}()
	}
	for range workers {
		<-ch
	}

	// report the failing pair with the lowest index regardless of scheduling
	var err error
	at := len(pairs)
	for num := range workers {
		if errs[num] != nil && firstErr[num] < at {
			at, err = firstErr[num], errs[num]
		}
	}
	if err != nil {
		p := pairs[at]
		if ids != nil {
			return nil, fmt.Errorf("similarity: %s vs %s: %w", ids[p.i], ids[p.j], err)
		}
		return nil, fmt.Errorf("similarity: series %d vs %d: %w", p.i, p.j, err)
	}

	dist := mat.NewSymDense(n, nil)
	for k, p := range pairs {
		dist.SetSym(p.i, p.j, values[k])
	}
	return dist, nil
}

func (e *engine) pairDistance(metric Metric, a, b []float64) (float64, error) {
	if metric == DTW {
		return finite(DTWDistance(a, b, e.window))
	}
	return Distance(metric, a, b)
}

// ToSimilarity converts a distance matrix into a new similarity matrix.
// DTW and Euclidean distances are scaled by the matrix maximum when it is
// positive and mapped through 1/(1+d); Pearson and cosine through 1-d. The
// diagonal is set to 1.
func ToSimilarity(metric Metric, dist mat.Symmetric) *mat.SymDense {
	n := dist.SymmetricDim()
	scale := 1.0
	if metric.scaled() {
		hi := 0.0
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				hi = max(hi, dist.At(i, j))
			}
		}
		if hi > 0 {
			scale = hi
		}
	}

	sim := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		sim.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			d := dist.At(i, j)
			if metric.scaled() {
				sim.SetSym(i, j, 1/(1+d/scale))
			} else {
				sim.SetSym(i, j, 1-d)
			}
		}
	}
	return sim
}
