package config

import (
	"errors"
	"math"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Conversion and alerting.
	BoundaryLayerHeight float64 // meters
	AlertThreshold      float64 // μg/m³

	// WAQI ground sensor feed.
	WAQIToken     string
	WAQIEnabled   bool
	WAQITimeout   time.Duration
	WAQICacheSize int

	// OpenWeather feed.
	OpenWeatherKey       string
	OpenWeatherEnabled   bool
	OpenWeatherTimeout   time.Duration
	OpenWeatherCacheSize int
}

const (
	minAlertThreshold = 50.0
	maxAlertThreshold = 200.0
)

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	waqiTimeout, err := parsePositiveDuration("WAQI_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	owTimeout, err := parsePositiveDuration("OPENWEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	height, err := parseFloat("BOUNDARY_LAYER_HEIGHT_M", "1000")
	if err != nil || !isFinite(height) || height <= 0 {
		return nil, errors.New("invalid BOUNDARY_LAYER_HEIGHT_M")
	}

	threshold, err := parseFloat("ALERT_THRESHOLD_UGM3", "100")
	if err != nil || !isFinite(threshold) || threshold < minAlertThreshold || threshold > maxAlertThreshold {
		return nil, errors.New("invalid ALERT_THRESHOLD_UGM3: must be between 50 and 200")
	}

	waqiToken := os.Getenv("WAQI_TOKEN")
	owKey := os.Getenv("OPENWEATHER_API_KEY")

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "tempo-no2-readings"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "no2-aqi-assessments"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "no2-aqi-etl"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		BoundaryLayerHeight: height,
		AlertThreshold:      threshold,

		WAQIToken:     waqiToken,
		WAQIEnabled:   featureEnabled("WAQI_ENABLED", waqiToken != ""),
		WAQITimeout:   waqiTimeout,
		WAQICacheSize: parseCacheSize("WAQI_CACHE_SIZE"),

		OpenWeatherKey:       owKey,
		OpenWeatherEnabled:   featureEnabled("OPENWEATHER_ENABLED", owKey != ""),
		OpenWeatherTimeout:   owTimeout,
		OpenWeatherCacheSize: parseCacheSize("OPENWEATHER_CACHE_SIZE"),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.WAQIEnabled && cfg.WAQIToken == "" {
		return nil, errors.New("WAQI_ENABLED is true but WAQI_TOKEN is not set")
	}
	if cfg.OpenWeatherEnabled && cfg.OpenWeatherKey == "" {
		return nil, errors.New("OPENWEATHER_ENABLED is true but OPENWEATHER_API_KEY is not set")
	}

	return cfg, nil
}

// featureEnabled defaults to whether credentials are present; an explicit
// "<NAME>_ENABLED" overrides it.
func featureEnabled(key string, hasCredentials bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true"
	}
	return hasCredentials
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseFloat(key, def string) (float64, error) {
	return strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func parseCacheSize(key string) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
