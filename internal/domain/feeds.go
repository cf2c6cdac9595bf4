package domain

import "context"

// GroundObservation is the latest reading from the ground station nearest to a point.
type GroundObservation struct {
	Station string   `json:"station,omitempty"`
	NO2     *float64 `json:"no2_ugm3,omitempty"`
	AQI     *int     `json:"aqi,omitempty"`
}

// Empty reports whether the feed returned no usable values.
func (g GroundObservation) Empty() bool {
	return g.NO2 == nil && g.AQI == nil
}

// WeatherConditions describes current weather at a site.
type WeatherConditions struct {
	TemperatureC float64 `json:"temperature_c"`
	Description  string  `json:"description"`
	HumidityPct  float64 `json:"humidity_pct"`
	PressureHPa  float64 `json:"pressure_hpa"`
}

// Empty reports whether the feed returned nothing.
func (w WeatherConditions) Empty() bool {
	return w == WeatherConditions{}
}

// GroundSensorFeed looks up ground-level air quality near a coordinate.
type GroundSensorFeed interface {
	Observe(ctx context.Context, lat, lon float64) (GroundObservation, error)
}

// WeatherFeed looks up current weather for a named city.
type WeatherFeed interface {
	Current(ctx context.Context, city string) (WeatherConditions, error)
}
