// Command prep runs the load-forecast data-prep pipeline once: it reads
// the hourly load CSV, splits it at the cutoff date, cleans the training
// split (hurricane masking plus rolling median/IQR outlier imputation),
// and writes the cleaned rows to the configured sinks. The process keeps
// serving /metrics, /healthz, and /readyz until it receives SIGINT or
// SIGTERM so a scraper can collect the run's counters.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridforge/load-forecast-prep/internal/adapter/csvfile"
	httpadapter "github.com/gridforge/load-forecast-prep/internal/adapter/http"
	kafkaadapter "github.com/gridforge/load-forecast-prep/internal/adapter/kafka"
	"github.com/gridforge/load-forecast-prep/internal/cleaning"
	"github.com/gridforge/load-forecast-prep/internal/config"
	"github.com/gridforge/load-forecast-prep/internal/observability"
	"github.com/gridforge/load-forecast-prep/internal/pipeline"
	"github.com/gridforge/load-forecast-prep/internal/search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	source := csvfile.NewSource(cfg.DataPath, logger)

	loaders := []pipeline.Loader{csvfile.NewWriter(cfg.OutputPath, logger)}
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		loaders = append(loaders, kafkaWriter)
		logger.Info("kafka sink enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka sink disabled")
	}

	// Cleaning parameters come either from config literals or from a
	// seeded search trial (SEARCH_MODE=true).
	var params cleaning.ParamSource
	if cfg.SearchMode {
		params = cleaning.SuggestedParams(search.NewTrial(cfg.SearchSeed))
		logger.Info("search mode enabled", "seed", cfg.SearchSeed)
	} else {
		params = cleaning.FixedParams(cfg.CleaningParams())
	}

	p := pipeline.New(source, loaders, params, cfg.AnomalyDates, cfg.CutoffDate, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Run the prep pipeline once.
	runErr := make(chan error, 1)
	go func() {
		_, err := p.Run(ctx)
		runErr <- err
	}()

	exitCode := 0
	select {
	case err := <-runErr:
		if err != nil {
			logger.Error("prep run failed", "error", err)
			exitCode = 1
		} else {
			logger.Info("prep run finished, serving metrics until shutdown")
			<-ctx.Done()
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	os.Exit(exitCode)
}
