package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/jessica-vector/snf-for-polymer-characterisation/internal/config"
	"github.com/phsym/console-slog"
	"github.com/spf13/cobra"
)

func Init() *slog.LevelVar {
	level := &slog.LevelVar{}
	logger := slog.New(
		console.NewHandler(os.Stderr, &console.HandlerOptions{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	slog.SetDefault(logger)
	cobra.EnableCommandSorting = false
	return level
}

type CLI struct {
	command *cobra.Command
}

// NewCLI create new CLI instance and set up application config.
func NewCLI() *CLI {
	level := Init()
	f := config.Default()
	f.Concurrency = max(1, runtime.NumCPU()/2)
	var configPath, orderPath string

	command := cobra.Command{
		Use:   "snf [files or dirs...]",
		Short: "Compute sample similarity matrices from DSC, FTIR, TGA and rheology curves",
		Long: "Reads cleaned two-column curves (one sample per file), normalises and resamples them,\n" +
			"then writes the pairwise similarity matrix of all samples.",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			debug, err := cmd.PersistentFlags().GetBool("debug")
			if err != nil {
				return err
			}
			if debug {
				level.Set(slog.LevelDebug)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			cfg := f
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = overlay(cmd, loaded, f)
			}
			cfg.Inputs = append(cfg.Inputs, args...)
			if len(cfg.Inputs) == 0 {
				return fmt.Errorf("no input files or directories given")
			}
			if orderPath != "" {
				order, err := config.ReadOrder(orderPath)
				if err != nil {
					return fmt.Errorf("read order: %w", err)
				}
				cfg.Order = order
			}

			run, err := cfg.Resolve()
			if err != nil {
				return err
			}
			// usage is only useful for flag errors, which are reported before RunE
			cmd.SilenceUsage = true
			if err := execute(run); err != nil {
				return err
			}
			slog.Info("Processing completed", slog.Duration("took", time.Since(now)))
			return nil
		},
	}

	command.Flags().StringVarP(&configPath, "config", "c", "", "YAML run configuration, flags given explicitly take precedence")
	command.Flags().StringVarP(&f.Metric, "metric", "m", f.Metric, "Similarity metric [dtw,euclidean,pearson,cosine] (default: recommended for the modality)")
	command.Flags().StringVarP(&f.Modality, "modality", "k", f.Modality, "Characterisation technique [generic,dsc,ftir,tga,rheology]")
	command.Flags().StringVar(&f.Normalize, "normalize", f.Normalize, "Normalisation [auto,none,minmax,percent]")
	command.Flags().Float64Var(&f.Smooth, "smooth", f.Smooth, "Fraction of FFT bins kept by low-pass smoothing (0 disables)")
	command.Flags().IntVarP(&f.Grid, "grid", "g", f.Grid, "Number of points of the common resampling grid [0=auto]")
	command.Flags().IntVarP(&f.Window, "window", "w", f.Window, "DTW Sakoe-Chiba band half width [-1=unconstrained]")
	command.Flags().IntVarP(&f.Clusters, "clusters", "n", f.Clusters, "Number of k-means clusters to assign samples to [0=off]")
	command.Flags().StringVar(&f.ClusterDist, "cdist", f.ClusterDist, "Distance used by k-means [EuclideanDistance,EuclideanDistanceSquared,ManhattanDistance]")
	command.Flags().IntVarP(&f.Round, "round", "i", f.Round, "Maximum number of k-means iterations")
	command.Flags().Float64VarP(&f.Delta, "delta", "d", f.Delta, "Fraction of samples changing cluster below which k-means stops")
	command.Flags().Int64Var(&f.Seed, "seed", f.Seed, "Seed of the k-means initialisation")
	command.Flags().StringVar(&orderPath, "order", "", "File listing the canonical sample order, one id per line")
	command.Flags().StringVarP(&f.Output, "out", "o", f.Output, "Output directory name")
	command.Flags().StringVarP(&f.Format, "format", "f", f.Format, "Output format [csv,json]")
	command.Flags().BoolVar(&f.Overwrite, "overwrite", f.Overwrite, "Overwrite output if exists")
	command.Flags().IntVarP(&f.Concurrency, "concurrency", "t", f.Concurrency, "Maximum number of goroutines used [0=auto]")
	command.PersistentFlags().Bool("debug", false, "Enable debug mode")
	command.Flags().SortFlags = false
	return &CLI{&command}
}

// overlay applies the flags the user set explicitly on top of a loaded
// config file.
func overlay(cmd *cobra.Command, cfg config.Config, f config.Config) config.Config {
	changed := cmd.Flags().Changed
	if changed("metric") {
		cfg.Metric = f.Metric
	}
	if changed("modality") {
		cfg.Modality = f.Modality
	}
	if changed("normalize") {
		cfg.Normalize = f.Normalize
	}
	if changed("smooth") {
		cfg.Smooth = f.Smooth
	}
	if changed("grid") {
		cfg.Grid = f.Grid
	}
	if changed("window") {
		cfg.Window = f.Window
	}
	if changed("clusters") {
		cfg.Clusters = f.Clusters
	}
	if changed("cdist") {
		cfg.ClusterDist = f.ClusterDist
	}
	if changed("round") {
		cfg.Round = f.Round
	}
	if changed("delta") {
		cfg.Delta = f.Delta
	}
	if changed("seed") {
		cfg.Seed = f.Seed
	}
	if changed("out") {
		cfg.Output = f.Output
	}
	if changed("format") {
		cfg.Format = f.Format
	}
	if changed("overwrite") {
		cfg.Overwrite = f.Overwrite
	}
	if changed("concurrency") {
		cfg.Concurrency = f.Concurrency
	}
	return cfg
}

func (cli *CLI) Execute() {
	if err := cli.command.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
