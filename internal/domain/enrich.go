package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGround attaches the nearest ground station reading to an assessment.
// If feed is nil the assessment is returned untouched; a failed or empty lookup
// only sets GroundSource (graceful degradation).
func EnrichWithGround(ctx context.Context, a Assessment, feed GroundSensorFeed, logger *slog.Logger) Assessment {
	if feed == nil {
		return a
	}

	obs, err := feed.Observe(ctx, a.Geo.Lat, a.Geo.Lon)
	if err != nil {
		logger.Warn("ground sensor lookup failed",
			"assessment_id", a.ID,
			"site", a.Site,
			"lat", a.Geo.Lat,
			"lon", a.Geo.Lon,
			"error", err,
		)
		a.GroundSource = SourceFailed
		return a
	}
	if obs.Empty() {
		a.GroundSource = SourceMissing
		return a
	}

	a.Ground = &obs
	a.GroundSource = SourceReported
	if obs.NO2 != nil {
		delta := a.Concentration - *obs.NO2
		a.SatelliteGroundDelta = &delta
	}
	return a
}

// EnrichWithWeather attaches current weather for the assessment's site.
// Sites without a name cannot be looked up and are marked missing.
func EnrichWithWeather(ctx context.Context, a Assessment, feed WeatherFeed, logger *slog.Logger) Assessment {
	if feed == nil {
		return a
	}
	if a.Site == "" {
		a.WeatherSource = SourceMissing
		return a
	}

	w, err := feed.Current(ctx, a.Site)
	if err != nil {
		logger.Warn("weather lookup failed",
			"assessment_id", a.ID,
			"site", a.Site,
			"error", err,
		)
		a.WeatherSource = SourceFailed
		return a
	}
	if w.Empty() {
		a.WeatherSource = SourceMissing
		return a
	}

	a.Weather = &w
	a.WeatherSource = SourceReported
	return a
}
