package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/no2-aqi-etl/internal/adapter/feeds"
	"github.com/couchcryptid/no2-aqi-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/no2-aqi-etl/internal/adapter/kafka"
	"github.com/couchcryptid/no2-aqi-etl/internal/config"
	"github.com/couchcryptid/no2-aqi-etl/internal/domain"
	"github.com/couchcryptid/no2-aqi-etl/internal/observability"
	"github.com/couchcryptid/no2-aqi-etl/internal/pipeline"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	conv, err := domain.NewConverter(cfg.BoundaryLayerHeight)
	if err != nil {
		logger.Error("invalid converter settings", "error", err)
		os.Exit(1)
	}
	logger.Info("converter ready", "boundary_layer_m", conv.BoundaryLayerHeight, "factor", conv.Factor())

	ground, weather := feeds.New(cfg, metrics, logger)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(conv, cfg.AlertThreshold, ground, weather, metrics, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, conv, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline. A pipeline failure shuts the process down.
	pipelineErr := make(chan error, 1)
	go func() {
		err := p.Run(ctx)
		if err != nil {
			logger.Error("pipeline error", "error", err)
			stop()
		}
		pipelineErr <- err
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	var runErr error
	select {
	case runErr = <-pipelineErr:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}

	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
	if runErr != nil {
		os.Exit(1)
	}
}
