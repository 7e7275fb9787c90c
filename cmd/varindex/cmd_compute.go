package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soltixdb/varindex/internal/analytics/variability"
	"github.com/soltixdb/varindex/internal/batch"
	"github.com/soltixdb/varindex/internal/compression"
	"github.com/soltixdb/varindex/internal/config"
	"github.com/soltixdb/varindex/internal/lightcurve"
	"github.com/soltixdb/varindex/internal/logging"
	"github.com/soltixdb/varindex/internal/output"
)

// loadComputeConfig applies the command line overrides to the configuration
func loadComputeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output.LogPath = outPath
	}
	if flags.Changed("format-file") {
		cfg.Output.FormatPath = formatPath
	}
	if flags.Changed("sqlite") {
		cfg.Output.SQLitePath = sqlitePath
	}
	if flags.Changed("compression") {
		cfg.Output.Compression = compressionName
	}
	if flags.Changed("nmax") {
		cfg.Indices.Nmax = nmax
	}
	if flags.Changed("workers") {
		cfg.Batch.Workers = workers
	}

	// stdout carries the index log
	if cfg.Output.LogPath == output.StdoutPath && cfg.Logging.OutputPath == "stdout" {
		cfg.Logging.OutputPath = "stderr"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func openSinks(cfg *config.Config) (output.MultiSink, error) {
	algo, err := compression.ParseAlgorithm(cfg.Output.Compression)
	if err != nil {
		return nil, err
	}

	lw, err := output.NewLogWriter(cfg.Output.LogPath, algo)
	if err != nil {
		return nil, err
	}
	sinks := output.MultiSink{lw}

	if cfg.Output.SQLitePath != "" {
		store, err := output.OpenSQLite(cfg.Output.SQLitePath)
		if err != nil {
			lw.Close()
			return nil, err
		}
		sinks = append(sinks, store)
	}
	return sinks, nil
}

func runCompute(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadComputeConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.SetGlobal(logger)

	paths, err := lightcurve.Expand(args)
	if err != nil {
		return err
	}

	opts, err := cfg.Indices.ToOptions()
	if err != nil {
		return err
	}
	engine, err := variability.NewEngine(opts)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create output directories: %w", err)
	}
	if cfg.Output.FormatPath != "" {
		if err := output.WriteFormatFile(cfg.Output.FormatPath); err != nil {
			return err
		}
	}

	sinks, err := openSinks(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sinks.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := batch.NewRunner(engine,
		batch.WithWorkers(cfg.Batch.Workers),
		batch.WithNmax(cfg.Indices.Nmax),
		batch.WithSink(sinks),
		batch.WithLogger(logger),
	)
	_, summary, err := runner.Run(ctx, batch.FileJobs(paths))
	if err != nil {
		return err
	}

	logger.Info("Indices written",
		"run_id", summary.RunID,
		"stars", summary.Stars,
		"failed", summary.Failed,
		"log", cfg.Output.LogPath,
	)
	return nil
}
