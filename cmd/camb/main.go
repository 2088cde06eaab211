package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Camb-ai/camb-go/internal/api"
	"github.com/Camb-ai/camb-go/internal/batch"
	"github.com/Camb-ai/camb-go/internal/config"
	"github.com/Camb-ai/camb-go/internal/metrics"
	"github.com/Camb-ai/camb-go/internal/operations"
	"github.com/Camb-ai/camb-go/internal/server"
	"github.com/Camb-ai/camb-go/internal/task"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "camb-go"
	serviceVersion    = "1.0.0"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	jobPath := flag.String("job", "", "Path to YAML job file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *jobPath == "" {
		fmt.Fprintln(os.Stderr, "A job file is required (-job)")
		os.Exit(1)
	}

	// Initialize logger based on configuration
	logger := initLogger(cfg.Logging)

	logger.Info("Client starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
		slog.String("job_path", *jobPath),
	)

	// Log configuration summary (without sensitive data)
	logger.Info("Configuration loaded",
		slog.String("base_url", cfg.API.BaseURL),
		slog.Int("api_timeout", cfg.API.Timeout),
		slog.Int("poll_interval_ms", cfg.Poll.IntervalMs),
		slog.Int("poll_max_wait_seconds", cfg.Poll.MaxWaitSeconds),
		slog.Bool("continue_on_fail", cfg.Batch.ContinueOnFail),
		slog.String("output_dir", cfg.Batch.OutputDir),
		slog.String("log_level", cfg.Logging.Level),
	)

	job, err := batch.LoadJob(*jobPath)
	if err != nil {
		logger.Error("Failed to load job file", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Job loaded", slog.Int("items", len(job.Items)))

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Prometheus metrics
	appMetrics := metrics.NewMetrics()
	logger.Info("Prometheus metrics initialized")

	// Initialize the API client
	client, err := api.NewClient(api.Config{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.APIKey,
		Timeout: cfg.API.GetTimeoutDuration(),
	}, api.WithLogger(logger), api.WithMetrics(appMetrics))
	if err != nil {
		logger.Error("Failed to create API client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the task poller and capability service
	poller := task.NewPoller(client,
		task.WithInterval(cfg.Poll.GetIntervalDuration()),
		task.WithMaxWait(cfg.Poll.GetMaxWaitDuration()),
		task.WithLogger(logger),
		task.WithMetrics(appMetrics),
	)
	service := operations.NewService(client, poller,
		operations.WithLogger(logger),
		operations.WithMetrics(appMetrics),
	)

	// Initialize the output sink and batch runner
	sink, err := batch.NewFileSink(cfg.Batch.OutputDir)
	if err != nil {
		logger.Error("Failed to create output sink", slog.String("error", err.Error()))
		os.Exit(1)
	}
	runner := batch.NewRunner(service, sink,
		batch.WithLogger(logger),
		batch.WithMetrics(appMetrics),
		batch.WithContinueOnFail(cfg.Batch.ContinueOnFail),
	)

	// Initialize monitoring HTTP server (if enabled)
	var httpServer *server.HTTPServer
	if cfg.HTTP.Enabled {
		httpServer = server.NewHTTPServer(cfg.HTTP, logger, cfg, runner, appMetrics)
		if err := httpServer.Start(); err != nil {
			logger.Error("Failed to start HTTP server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Cancel the batch on shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		cancel()
	}()

	// Run the batch
	results, runErr := runner.Run(ctx, job)

	// Persist the result records next to the artifacts
	resultsPath := filepath.Join(cfg.Batch.OutputDir, "results.json")
	if data, err := json.MarshalIndent(results, "", "  "); err != nil {
		logger.Error("Failed to encode results", slog.String("error", err.Error()))
	} else if err := os.WriteFile(resultsPath, data, 0644); err != nil {
		logger.Error("Failed to write results", slog.String("error", err.Error()))
	} else {
		logger.Info("Results written", slog.String("path", resultsPath))
	}

	// Stop HTTP server
	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping HTTP server", slog.String("error", err.Error()))
		}
	}

	// Final statistics
	stats := runner.Stats()
	logger.Info("Final batch statistics",
		slog.Int("items_processed", stats.ItemsProcessed),
		slog.Int("items_failed", stats.ItemsFailed),
	)

	if runErr != nil {
		logger.Error("Batch aborted", slog.String("error", runErr.Error()))
		os.Exit(1)
	}
	logger.Info("Batch completed")
}

// initLogger creates and configures the structured logger based on configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo // default fallback
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug, // Add source info for debug level
	}

	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
