// Package feeds wires the optional enrichment feeds from configuration.
package feeds

import (
	"log/slog"

	"github.com/couchcryptid/no2-aqi-etl/internal/adapter/openweather"
	"github.com/couchcryptid/no2-aqi-etl/internal/adapter/waqi"
	"github.com/couchcryptid/no2-aqi-etl/internal/config"
	"github.com/couchcryptid/no2-aqi-etl/internal/domain"
	"github.com/couchcryptid/no2-aqi-etl/internal/observability"
)

// New returns the cached ground and weather feeds enabled in cfg. A disabled
// feed is returned as a nil interface so enrichment skips it.
func New(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (domain.GroundSensorFeed, domain.WeatherFeed) {
	var ground domain.GroundSensorFeed
	if cfg.WAQIEnabled {
		client := waqi.NewClient(cfg.WAQIToken, cfg.WAQITimeout, metrics, logger)
		ground = waqi.NewCachedFeed(client, cfg.WAQICacheSize, metrics)
		metrics.EnrichmentEnabled.WithLabelValues("waqi").Set(1)
		logger.Info("waqi ground feed enabled", "cache_size", cfg.WAQICacheSize, "timeout", cfg.WAQITimeout)
	} else {
		metrics.EnrichmentEnabled.WithLabelValues("waqi").Set(0)
		logger.Info("waqi ground feed disabled")
	}

	var weather domain.WeatherFeed
	if cfg.OpenWeatherEnabled {
		client := openweather.NewClient(cfg.OpenWeatherKey, cfg.OpenWeatherTimeout, metrics, logger)
		weather = openweather.NewCachedFeed(client, cfg.OpenWeatherCacheSize, metrics)
		metrics.EnrichmentEnabled.WithLabelValues("openweather").Set(1)
		logger.Info("openweather feed enabled", "cache_size", cfg.OpenWeatherCacheSize, "timeout", cfg.OpenWeatherTimeout)
	} else {
		metrics.EnrichmentEnabled.WithLabelValues("openweather").Set(0)
		logger.Info("openweather feed disabled")
	}

	return ground, weather
}
