package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-memorial-analytics/internal/api"
	"go-memorial-analytics/internal/api/handler"
	"go-memorial-analytics/internal/config"
	"go-memorial-analytics/internal/pipeline"
	"go-memorial-analytics/internal/store"
	"go-memorial-analytics/pkg/router"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "memorial",
	Short: "Memorial card analytics: offline aggregation and dashboard API",
	Long: `memorial processes a raw memorial-card CSV into compact aggregate
artifacts plus a stratified searchable sample, and serves them through
a read-only dashboard API.

Run "memorial build" after each data drop, then "memorial serve".`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var (
	buildInput      string
	buildDataDir    string
	buildSampleSize int
	buildSeed       int64
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Aggregate the raw CSV into dashboard artifacts",
	Long: `Streams the raw CSV once and writes aggregates.db and sample.db
into the data directory. The previous artifacts are replaced
atomically; rerunning on the same input reproduces identical files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		opts := pipeline.BuildOptions{
			Input:      cfg.Build.Input,
			OutDir:     cfg.Server.DataDir,
			SampleSize: cfg.Build.SampleSize,
			Seed:       cfg.Build.Seed,
		}
		if buildInput != "" {
			opts.Input = buildInput
		}
		if buildDataDir != "" {
			opts.OutDir = buildDataDir
		}
		if buildSampleSize > 0 {
			opts.SampleSize = buildSampleSize
		}
		if buildSeed != 0 {
			opts.Seed = buildSeed
		}
		if opts.Input == "" {
			return fmt.Errorf("no input CSV: set --input or build.input in the config")
		}

		manifest, err := pipeline.Build(context.Background(), opts, logger)
		if err != nil {
			return err
		}
		fmt.Printf("build %s: %d rows, %d sampled, artifacts in %s\n",
			manifest.RunID, manifest.TotalRows, manifest.SampleRows, opts.OutDir)
		return nil
	},
}

var (
	serveAddr    string
	serveDataDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API over the built artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		if serveDataDir != "" {
			cfg.Server.DataDir = serveDataDir
		}

		st := store.New(cfg.Server.DataDir)
		h := handler.New(st, logger)
		r := router.New(logger)
		api.RegisterRoutes(r, h)

		logger.Info("dashboard api starting",
			zap.String("addr", cfg.Server.Addr),
			zap.String("data_dir", cfg.Server.DataDir))
		return r.Start(cfg.Server.Addr)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "memorial.yaml", "path to the YAML config file")

	buildCmd.Flags().StringVar(&buildInput, "input", "", "raw CSV path (overrides config)")
	buildCmd.Flags().StringVar(&buildDataDir, "data-dir", "", "artifact directory (overrides config)")
	buildCmd.Flags().IntVar(&buildSampleSize, "sample-size", 0, "target sample rows (overrides config)")
	buildCmd.Flags().Int64Var(&buildSeed, "seed", 0, "sampling seed (overrides config)")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "artifact directory (overrides config)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
