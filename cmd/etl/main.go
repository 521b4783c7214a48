package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/firecad-etl/internal/adapter/cad"
	httpadapter "github.com/couchcryptid/firecad-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/firecad-etl/internal/adapter/kafka"
	"github.com/couchcryptid/firecad-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/firecad-etl/internal/cache"
	"github.com/couchcryptid/firecad-etl/internal/config"
	"github.com/couchcryptid/firecad-etl/internal/domain"
	"github.com/couchcryptid/firecad-etl/internal/observability"
	"github.com/couchcryptid/firecad-etl/internal/parser"
	"github.com/couchcryptid/firecad-etl/internal/pipeline"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	strategy, err := parser.New(cfg.Strategy, parser.Options{Verbose: cfg.Verbose, Logger: logger})
	if err != nil {
		logger.Error("failed to build parsing strategy", "error", err)
		os.Exit(1)
	}

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(mapbox.ClientConfig{
			Token:     cfg.MapboxToken,
			Timeout:   cfg.MapboxTimeout,
			Region:    cfg.GeocodeRegion,
			BBox:      mapbox.MiamiDadeBBox,
			RateLimit: cfg.MapboxRateLimit,
		}, metrics, logger)
		results := cache.NewLRU[domain.GeocodingResult](cfg.MapboxCacheSize, cfg.MapboxCacheTTL, nil)
		geocoder = mapbox.NewCachedGeocoder(client, results, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		metrics.GeocodeEnabled.Set(0)
		logger.Info("mapbox geocoding disabled")
	}

	fetcher := cad.NewClient(cfg.CADURL, cfg.FetchTimeout, logger)
	transformer := pipeline.NewTransformer(strategy, geocoder, cfg.GeocodeFallback, logger)
	snapshots := cache.NewLRU[domain.Snapshot](1, cfg.SnapshotTTL, nil)

	var (
		loader pipeline.Loader
		writer *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		loader = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(fetcher, transformer, loader, snapshots, cfg.RefreshInterval, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	logger.Info("firecad etl started", "url", fetcher.URL(), "strategy", cfg.Strategy, "interval", cfg.RefreshInterval)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
