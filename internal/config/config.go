// Package config loads the settings of a similarity run from YAML.
package config

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/jessica-vector/snf-for-polymer-characterisation/internal/kmeans"
	"github.com/jessica-vector/snf-for-polymer-characterisation/internal/modality"
	"github.com/jessica-vector/snf-for-polymer-characterisation/internal/similarity"
	"gopkg.in/yaml.v3"
)

// DefaultGrid is the number of resampling points used by lockstep metrics
// when no grid is configured.
const DefaultGrid = 500

// Config mirrors the YAML file. Command line flags override its values.
type Config struct {
	Inputs      []string `yaml:"inputs"`
	Metric      string   `yaml:"metric"`
	Modality    string   `yaml:"modality"`
	Normalize   string   `yaml:"normalize"`
	Smooth      float64  `yaml:"smooth"`
	Grid        int      `yaml:"grid"`
	Window      int      `yaml:"window"`
	Clusters    int      `yaml:"clusters"`
	ClusterDist string   `yaml:"cluster_distance"`
	Round       int      `yaml:"max_iterations"`
	Delta       float64  `yaml:"delta"`
	Seed        int64    `yaml:"seed"`
	Order       []string `yaml:"order"`
	Output      string   `yaml:"output"`
	Format      string   `yaml:"format"`
	Concurrency int      `yaml:"concurrency"`
	Overwrite   bool     `yaml:"overwrite"`
}

// Run is a validated Config with names resolved to typed values.
type Run struct {
	Inputs        []string
	Metric        similarity.Metric
	Modality      modality.Modality
	Normalization modality.Normalization
	Smooth        float64
	// Grid is 0 when curves are compared as read.
	Grid        int
	Window      int
	Clusters    int
	ClusterDist kmeans.DistanceFunc
	Round       int
	Delta       float64
	Seed        int64
	Order       []string
	Output      string
	Format      string
	Concurrency int
	Overwrite   bool
}

func Default() Config {
	return Config{
		Normalize:   string(modality.NormalizeAuto),
		Window:      similarity.NoWindow,
		Round:       100,
		Delta:       0.01,
		Seed:        1,
		Output:      ".",
		Format:      "csv",
		Concurrency: runtime.NumCPU(),
	}
}

// Load reads path over the defaults; keys absent from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// ReadOrder reads a canonical sample ordering, one id per line. Blank lines
// and lines starting with # are ignored.
func ReadOrder(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	return ids, sc.Err()
}

// Resolve validates the configuration.
func (c Config) Resolve() (*Run, error) {
	mod, err := modality.Parse(c.Modality)
	if err != nil {
		return nil, err
	}

	name := c.Metric
	if strings.TrimSpace(name) == "" {
		name = mod.RecommendedMetric()
	}
	metric, err := similarity.ParseMetric(name)
	if err != nil {
		return nil, err
	}

	norm, err := modality.ParseNormalization(c.Normalize)
	if err != nil {
		return nil, err
	}

	if c.Smooth < 0 || c.Smooth > 1 {
		return nil, fmt.Errorf("smooth must be within [0, 1], got %v", c.Smooth)
	}
	if c.Grid < 0 || c.Grid == 1 {
		return nil, fmt.Errorf("grid must be 0 or at least 2, got %d", c.Grid)
	}
	if c.Clusters < 0 {
		return nil, fmt.Errorf("clusters must not be negative, got %d", c.Clusters)
	}
	if c.Round < 1 {
		return nil, fmt.Errorf("max iterations must be at least 1, got %d", c.Round)
	}
	if c.Delta < 0 || c.Delta > 1 {
		return nil, fmt.Errorf("delta must be within [0, 1], got %v", c.Delta)
	}
	dist, ok := kmeans.ParseDistance(c.ClusterDist)
	if !ok {
		return nil, fmt.Errorf("unknown cluster distance %q", c.ClusterDist)
	}

	format := strings.ToLower(strings.TrimSpace(c.Format))
	switch format {
	case "":
		format = "csv"
	case "csv", "json":
	default:
		return nil, fmt.Errorf("unknown format %q, choose csv or json", c.Format)
	}

	grid := c.Grid
	if grid == 0 && !metric.Elastic() {
		grid = DefaultGrid
	}

	window := c.Window
	if window < 0 {
		window = similarity.NoWindow
	}

	concurrency := c.Concurrency
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}

	output := c.Output
	if output == "" {
		output = "."
	}

	return &Run{
		Inputs:        c.Inputs,
		Metric:        metric,
		Modality:      mod,
		Normalization: norm.Resolve(mod),
		Smooth:        c.Smooth,
		Grid:          grid,
		Window:        window,
		Clusters:      c.Clusters,
		ClusterDist:   dist,
		Round:         c.Round,
		Delta:         c.Delta,
		Seed:          c.Seed,
		Order:         c.Order,
		Output:        output,
		Format:        format,
		Concurrency:   concurrency,
		Overwrite:     c.Overwrite,
	}, nil
}
