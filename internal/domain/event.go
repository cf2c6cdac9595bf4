package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// RawReading is the JSON payload published to the source topic for one
// satellite sample point.
type RawReading struct {
	Site          string    `json:"site"`
	Lat           float64   `json:"lat"`
	Lon           float64   `json:"lon"`
	ColumnDensity *float64  `json:"no2_molm2"` // TEMPO NO₂ column density, mol/m²
	ObservedAt    time.Time `json:"observed_at,omitempty"`
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Enrichment source states, shared by the ground and weather feeds.
const (
	SourceReported = "reported"
	SourceMissing  = "missing"
	SourceFailed   = "failed"
)

// Assessment is a converted, classified, and enriched satellite reading.
type Assessment struct {
	ID            string         `json:"id"`
	Site          string         `json:"site"`
	Geo           Geo            `json:"geo"`
	ColumnDensity float64        `json:"no2_molm2"`
	Concentration float64        `json:"no2_ugm3"`
	AQI           Classification `json:"aqi"`
	Alert         Alert          `json:"alert"`

	// Ground sensor enrichment.
	Ground               *GroundObservation `json:"ground,omitempty"`
	GroundSource         string             `json:"ground_source,omitempty"` // "reported", "missing", "failed"
	SatelliteGroundDelta *float64           `json:"satellite_ground_delta,omitempty"`

	// Weather enrichment.
	Weather       *WeatherConditions `json:"weather,omitempty"`
	WeatherSource string             `json:"weather_source,omitempty"`

	ObservedAt  time.Time `json:"observed_at,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
