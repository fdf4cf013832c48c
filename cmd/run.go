package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/jessica-vector/snf-for-polymer-characterisation/internal/config"
	"github.com/jessica-vector/snf-for-polymer-characterisation/internal/curve"
	"github.com/jessica-vector/snf-for-polymer-characterisation/internal/kmeans"
	"github.com/jessica-vector/snf-for-polymer-characterisation/internal/report"
	"github.com/jessica-vector/snf-for-polymer-characterisation/internal/similarity"
	"gonum.org/v1/gonum/mat"
)

var errNoSamples = errors.New("no readable sample files found")

// execute runs the whole pipeline: scan, load, compare, cluster, write.
func execute(run *config.Run) error {
	samples, err := collect(run)
	if err != nil {
		return err
	}

	if run.Grid > 0 {
		slog.Debug("Resampling", slog.Int("grid", run.Grid), slog.Int("samples", len(samples)))
		samples, err = curve.ResampleAll(samples, run.Grid)
		if err != nil {
			return fmt.Errorf("resample: %w", err)
		}
	}

	now := time.Now()
	x, y := run.Modality.Axes()
	slog.Info("Computing similarity",
		slog.String("metric", run.Metric.String()),
		slog.String("modality", run.Modality.String()),
		slog.String("axes", x+" / "+y),
		slog.Int("samples", len(samples)),
	)
	ids, sim, err := similarity.Compute(samples, run.Metric,
		similarity.WithConcurrency(run.Concurrency),
		similarity.WithWindow(run.Window),
		similarity.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	slog.Debug("Similarity computed", slog.Duration("took", time.Since(now)))

	ids, sim, err = report.Reorder(ids, sim, run.Order)
	if err != nil {
		return err
	}

	var assignment []int
	if run.Clusters > 0 {
		m, err := kmeans.NewTrainer(run.Clusters,
			kmeans.WithDistanceFunc(run.ClusterDist),
			kmeans.WithMaxIterations(run.Round),
			kmeans.WithDeltaThreshold(run.Delta),
			kmeans.WithConcurrency(run.Concurrency),
			kmeans.WithSeed(run.Seed)).
			Fit(kmeans.FromSymmetric(sim))
		if err != nil {
			return fmt.Errorf("cluster: %w", err)
		}
		assignment = m.Guesses()
		slog.Info("Clustering completed", slog.Int("k", m.K()), slog.Int("iter", m.Iter()))
	}

	if err := os.MkdirAll(run.Output, 0o755); err != nil {
		return err
	}
	return writeAll(outputs(run, ids, sim, assignment), run.Overwrite)
}

type output struct {
	path  string
	write func(io.Writer) error
}

// outputs lists the files of a run. JSON carries the cluster assignment
// itself; the CSV format adds clusters.csv next to the matrix.
func outputs(run *config.Run, ids []string, sim *mat.SymDense, assignment []int) []output {
	if run.Format == "json" {
		result := report.NewResult(run.Metric.String(), run.Modality.String(), ids, sim)
		if assignment != nil {
			result = result.WithClusters(assignment)
		}
		return []output{{
			path:  filepath.Join(run.Output, "similarity.json"),
			write: func(w io.Writer) error { return report.WriteJSON(w, result) },
		}}
	}

	out := []output{{
		path:  filepath.Join(run.Output, "similarity.csv"),
		write: func(w io.Writer) error { return report.WriteCSV(w, ids, sim) },
	}}
	if assignment != nil {
		out = append(out, output{
			path:  filepath.Join(run.Output, "clusters.csv"),
			write: func(w io.Writer) error { return report.WriteClusters(w, ids, assignment) },
		})
	}
	return out
}

// writeAll checks every target before creating any, so a refused run leaves
// the output directory as it was.
func writeAll(outs []output, overwrite bool) error {
	for _, o := range outs {
		if err := checkTarget(o.path, overwrite); err != nil {
			return err
		}
	}
	for _, o := range outs {
		if err := write(o.path, o.write); err != nil {
			return err
		}
	}
	return nil
}

// collect loads every input concurrently. Files that fail to load are
// skipped; when two files share a sample id the first path in lexical order
// wins.
func collect(run *config.Run) (map[string]curve.Curve, error) {
	var (
		mu     sync.Mutex
		loaded = make(map[string]curve.Curve)
		files  = make(map[string]SampleFile)
	)

	con := make(chan struct{}, run.Concurrency)
	for _, in := range run.Inputs {
		for f := range scan(in, run.Modality) {
			con <- struct{}{}
			go func() {
				defer func() {
					<-con
				}()
				c, err := load(f, run)
				if err != nil {
					slog.Warn("Skipping file", slog.String("path", f.Path), slog.Any("err", err))
					return
				}
				mu.Lock()
				loaded[f.Path] = c
				files[f.Path] = f
				mu.Unlock()
			}()
		}
	}
	for range run.Concurrency {
		con <- struct{}{}
	}

	paths := make([]string, 0, len(loaded))
	for p := range loaded {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	samples := make(map[string]curve.Curve, len(paths))
	for _, p := range paths {
		id := files[p].ID
		if _, ok := samples[id]; ok {
			slog.Warn("Duplicate sample id, keeping first file", slog.String("id", id), slog.String("path", p))
			continue
		}
		samples[id] = loaded[p]
	}

	if len(samples) == 0 {
		return nil, errNoSamples
	}
	slog.Debug("Loaded samples", slog.Int("count", len(samples)))
	return samples, nil
}

// checkTarget fails when path exists, unless overwrite is set and path is a
// regular file.
func checkTarget(path string, overwrite bool) error {
	stats, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	slog.Info("File existed",
		slog.Any("path", path),
		slog.Bool("isDir", stats.IsDir()),
		slog.Bool("overwrite", overwrite),
	)
	if !overwrite || stats.IsDir() {
		return fmt.Errorf("output %s already exists", path)
	}
	return nil
}

func write(path string, fn func(io.Writer) error) error {
	o, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(o); err != nil {
		_ = o.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := o.Close(); err != nil {
		return err
	}
	slog.Info("Wrote", slog.String("out", path))
	return nil
}
