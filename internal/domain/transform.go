package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// errMissingColumnDensity is wrapped in ErrInvalidMeasurement so callers can
// treat an absent value like any other unusable measurement.
var errMissingColumnDensity = fmt.Errorf("%w: no2_molm2 is required", ErrInvalidMeasurement)

// ParseRawEvent deserializes a RawEvent's value into a RawReading.
// ObservedAt defaults to the message timestamp when the payload omits it.
func ParseRawEvent(raw RawEvent) (RawReading, error) {
	var reading RawReading
	if err := json.Unmarshal(raw.Value, &reading); err != nil {
		return RawReading{}, fmt.Errorf("parse raw event: %w", err)
	}
	if reading.ColumnDensity == nil {
		return RawReading{}, fmt.Errorf("parse raw event: %w", errMissingColumnDensity)
	}

	reading.Site = strings.TrimSpace(reading.Site)
	if reading.ObservedAt.IsZero() {
		reading.ObservedAt = raw.Timestamp
	}
	if !reading.ObservedAt.IsZero() {
		reading.ObservedAt = reading.ObservedAt.UTC()
	}
	return reading, nil
}

// AssessReading converts and classifies a reading and derives its alert.
// Conversion and classification errors are returned unchanged.
func AssessReading(reading RawReading, conv Converter, alertThreshold float64) (Assessment, error) {
	if reading.ColumnDensity == nil {
		return Assessment{}, errMissingColumnDensity
	}
	columnDensity := *reading.ColumnDensity

	concentration, err := conv.Convert(columnDensity)
	if err != nil {
		return Assessment{}, err
	}
	classification, err := Classify(concentration)
	if err != nil {
		return Assessment{}, err
	}

	return Assessment{
		ID:            generateID(reading.Site, reading.Lat, reading.Lon, reading.ObservedAt, columnDensity),
		Site:          reading.Site,
		Geo:           Geo{Lat: reading.Lat, Lon: reading.Lon},
		ColumnDensity: columnDensity,
		Concentration: concentration,
		AQI:           classification,
		Alert:         DeriveAlert(reading.Site, concentration, classification, alertThreshold),
		ObservedAt:    reading.ObservedAt,
		ProcessedAt:   clock.Now(),
	}, nil
}

// SerializeAssessment marshals an assessment into a sink-ready OutputEvent.
func SerializeAssessment(a Assessment) (OutputEvent, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize assessment: %w", err)
	}
	return OutputEvent{
		Key:   []byte(a.ID),
		Value: data,
		Headers: map[string]string{
			"aqi_category": a.AQI.Category,
			"aqi_level":    strconv.Itoa(a.AQI.Level),
			"processed_at": a.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}

// IsInvalidInput reports whether err came from an unusable measurement or
// concentration rather than from infrastructure.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidMeasurement) || errors.Is(err, ErrInvalidConcentration)
}

// generateID produces a deterministic ID from the reading's key fields so that
// replaying the same reading yields the same sink key.
func generateID(site string, lat, lon float64, observedAt time.Time, columnDensity float64) string {
	ts := ""
	if !observedAt.IsZero() {
		ts = observedAt.UTC().Format(time.RFC3339)
	}
	input := fmt.Sprintf("%s|%.4f|%.4f|%s|%g", site, lat, lon, ts, columnDensity)
	hash := sha256.Sum256([]byte(input))
	return "no2-" + hex.EncodeToString(hash[:8])
}
