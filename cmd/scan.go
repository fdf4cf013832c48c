package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessica-vector/snf-for-polymer-characterisation/internal/config"
	"github.com/jessica-vector/snf-for-polymer-characterisation/internal/curve"
	"github.com/jessica-vector/snf-for-polymer-characterisation/internal/modality"
)

// SampleFile is one input file; its sample id is the base name without
// extension.
type SampleFile struct {
	ID   string
	Path string
}

func newSampleFile(path string) SampleFile {
	base := filepath.Base(path)
	return SampleFile{
		ID:   strings.TrimSuffix(base, filepath.Ext(base)),
		Path: path,
	}
}

// scan emits path itself when it is a file, or every file of the directory
// carrying one of the modality's extensions.
func scan(path string, m modality.Modality) <-chan SampleFile {
	ch := make(chan SampleFile, 1)
	info, err := os.Stat(path)
	if err != nil {
		slog.Error("Err scanning file(s)", slog.String("path", path), slog.Any("err", err))
		close(ch)
		return ch
	}

	go func() {
		defer close(ch)
		if !info.IsDir() {
			ch <- newSampleFile(path)
			return
		}

		files, err := os.ReadDir(path)
		if err != nil {
			slog.Error("Err scanning dir", slog.String("path", path), slog.Any("err", err))
			return
		}

		for _, file := range files {
			if file.IsDir() || !m.Accepts(file.Name()) {
				continue
			}
			ch <- newSampleFile(filepath.Join(path, file.Name()))
		}
	}()

	return ch
}

// load reads one file and applies the run's normalisation and smoothing.
func load(f SampleFile, run *config.Run) (curve.Curve, error) {
	slog.Debug("Reading curve", slog.String("path", f.Path), slog.String("id", f.ID))
	c, err := curve.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}

	switch run.Normalization {
	case modality.NormalizeMinMax:
		c, err = curve.MinMax(c)
	case modality.NormalizePercent:
		c, err = curve.PercentOfInitial(c)
	case modality.NormalizeNone:
	default:
		err = fmt.Errorf("unsupported normalization %q", run.Normalization)
	}
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", f.Path, err)
	}

	if run.Smooth > 0 && run.Smooth < 1 {
		c, err = curve.LowPass(c, run.Smooth)
		if err != nil {
			return nil, fmt.Errorf("smooth %s: %w", f.Path, err)
		}
	}
	return c, nil
}
