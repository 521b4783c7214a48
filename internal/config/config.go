package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/firecad-etl/internal/adapter/cad"
	"github.com/couchcryptid/firecad-etl/internal/domain"
	"github.com/couchcryptid/firecad-etl/internal/parser"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	CADURL          string
	Strategy        parser.Kind
	Verbose         bool
	FetchTimeout    time.Duration
	RefreshInterval time.Duration
	SnapshotTTL     time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
	MapboxCacheTTL  time.Duration
	MapboxRateLimit float64

	GeocodeRegion   string
	GeocodeFallback domain.Geo

	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	strategy, err := parser.ParseKind(sharedcfg.EnvOrDefault("CAD_STRATEGY", string(parser.KindStandard)))
	if err != nil {
		return nil, fmt.Errorf("invalid CAD_STRATEGY: %w", err)
	}

	cfg := &Config{
		CADURL:    sharedcfg.EnvOrDefault("CAD_URL", cad.DefaultURL),
		Strategy:  strategy,
		Verbose:   os.Getenv("CAD_VERBOSE") == "true",
		HTTPAddr:  sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:  sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),

		ShutdownTimeout: shutdownTimeout,

		MapboxToken:     os.Getenv("MAPBOX_TOKEN"),
		MapboxCacheSize: parseMapboxCacheSize(),
		GeocodeRegion:   sharedcfg.EnvOrDefault("GEOCODE_REGION", "Miami-Dade, FL"),

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "firecad-incidents"),
	}

	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"CAD_FETCH_TIMEOUT", "10s", &cfg.FetchTimeout},
		{"REFRESH_INTERVAL", "5m", &cfg.RefreshInterval},
		{"SNAPSHOT_TTL", "10m", &cfg.SnapshotTTL},
		{"MAPBOX_TIMEOUT", "5s", &cfg.MapboxTimeout},
		{"MAPBOX_CACHE_TTL", "24h", &cfg.MapboxCacheTTL},
	}
	for _, d := range durations {
		v, err := parsePositiveDuration(d.key, d.def)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}

	if cfg.MapboxRateLimit, err = parsePositiveFloat("MAPBOX_RATE_LIMIT", "10"); err != nil {
		return nil, err
	}
	if cfg.GeocodeFallback.Lat, err = parseFloat("GEOCODE_FALLBACK_LAT", strconv.FormatFloat(domain.CountyCenter.Lat, 'f', -1, 64)); err != nil {
		return nil, err
	}
	if cfg.GeocodeFallback.Lon, err = parseFloat("GEOCODE_FALLBACK_LON", strconv.FormatFloat(domain.CountyCenter.Lon, 'f', -1, 64)); err != nil {
		return nil, err
	}

	cfg.MapboxEnabled = cfg.MapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		cfg.MapboxEnabled = v == "true"
	}

	if cfg.CADURL == "" {
		return nil, errors.New("CAD_URL is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
