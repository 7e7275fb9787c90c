package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soltixdb/varindex/internal/analytics/variability"
	"github.com/soltixdb/varindex/internal/compression"
	"github.com/soltixdb/varindex/internal/config"
	"github.com/soltixdb/varindex/internal/logging"
	"github.com/soltixdb/varindex/internal/output"
	"github.com/soltixdb/varindex/internal/queue"
	"github.com/soltixdb/varindex/internal/router"
	"github.com/soltixdb/varindex/internal/services"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	consume := flag.Bool("consume", true, "Consume lightcurve jobs from the queue")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Indexer service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Fatal("Failed to create output directories", "error", err)
	}

	opts, err := cfg.Indices.ToOptions()
	if err != nil {
		logger.Fatal("Invalid index configuration", "error", err)
	}
	engine, err := variability.NewEngine(opts)
	if err != nil {
		logger.Fatal("Failed to create engine", "error", err)
	}
	logger.Info("Engine ready", "disabled", opts.Disabled.Names(), "max_observations", opts.MaxObservations)

	var sinks output.MultiSink
	var store *output.SQLiteStore
	if cfg.Output.SQLitePath != "" {
		store, err = output.OpenSQLite(cfg.Output.SQLitePath)
		if err != nil {
			logger.Fatal("Failed to open SQLite store", "error", err, "path", cfg.Output.SQLitePath)
		}
		sinks = append(sinks, store)
		logger.Info("SQLite store opened", "path", cfg.Output.SQLitePath)
	}

	var queueClient queue.Queue
	if *consume || cfg.Output.QueueSink {
		logger.Info("Connecting to Queue", "type", cfg.Queue.Type, "url", cfg.Queue.URL)
		queueClient, err = queue.NewQueue(cfg.Queue)
		if err != nil {
			logger.Fatal("Failed to connect to Queue", "error", err)
		}
		algo, err := compression.ParseAlgorithm(cfg.Queue.Compression)
		if err != nil {
			logger.Fatal("Invalid queue compression", "error", err)
		}
		compressor, err := compression.GetCompressor(algo)
		if err != nil {
			logger.Fatal("Invalid queue compression", "error", err)
		}
		queueClient = queue.WithCompression(queueClient, compressor)
		logger.Info("Queue connection established")
	}
	if cfg.Output.QueueSink {
		sinks = append(sinks, output.NewQueueSink(queueClient, cfg.Queue.ResultsSubject))
	}

	var sink output.Sink
	if len(sinks) > 0 {
		sink = sinks
	}
	indexService := services.NewIndexService(logger, engine, cfg.Batch.Workers, sink, store)

	if *consume {
		if err := queueClient.Subscribe(cfg.Queue.JobsSubject, indexService.HandleJob); err != nil {
			logger.Fatal("Failed to subscribe to jobs", "error", err, "subject", cfg.Queue.JobsSubject)
		}
		logger.Info("Consuming lightcurve jobs", "subject", cfg.Queue.JobsSubject)
	}

	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	app := router.New(logger, indexService, *cfg)

	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Stop consuming before closing the sinks the consumer writes to
	if queueClient != nil {
		if err := queueClient.Close(); err != nil {
			logger.Error("Failed to close queue", "error", err)
		}
	}
	if sink != nil {
		if err := sink.Close(); err != nil {
			logger.Error("Failed to close sinks", "error", err)
		}
	}

	logger.Info("Server exited")
}
