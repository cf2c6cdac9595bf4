package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSite = "Washington DC"

func TestParseRawEvent(t *testing.T) {
	msgTime := time.Date(2024, 4, 26, 15, 0, 0, 0, time.UTC)

	t.Run("full reading", func(t *testing.T) {
		data := []byte(`{"site":" Washington DC ","lat":38.9,"lon":-77.0,"no2_molm2":0.00007,"observed_at":"2024-04-26T14:00:00Z"}`)
		reading, err := ParseRawEvent(RawEvent{Value: data, Timestamp: msgTime})

		require.NoError(t, err)
		assert.Equal(t, testSite, reading.Site)
		assert.Equal(t, 38.9, reading.Lat)
		assert.Equal(t, -77.0, reading.Lon)
		require.NotNil(t, reading.ColumnDensity)
		assert.Equal(t, 0.00007, *reading.ColumnDensity)
		assert.Equal(t, time.Date(2024, 4, 26, 14, 0, 0, 0, time.UTC), reading.ObservedAt)
	})

	t.Run("observed_at defaults to message time", func(t *testing.T) {
		data := []byte(`{"site":"Chicago","lat":41.9,"lon":-87.6,"no2_molm2":0.00004}`)
		reading, err := ParseRawEvent(RawEvent{Value: data, Timestamp: msgTime})

		require.NoError(t, err)
		assert.Equal(t, msgTime, reading.ObservedAt)
	})

	t.Run("zero column density is valid", func(t *testing.T) {
		data := []byte(`{"site":"Phoenix","no2_molm2":0}`)
		reading, err := ParseRawEvent(RawEvent{Value: data})

		require.NoError(t, err)
		require.NotNil(t, reading.ColumnDensity)
		assert.Equal(t, 0.0, *reading.ColumnDensity)
	})

	t.Run("missing column density", func(t *testing.T) {
		_, err := ParseRawEvent(RawEvent{Value: []byte(`{"site":"Dallas"}`)})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidMeasurement)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseRawEvent(RawEvent{Value: []byte("{invalid json")})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse raw event")
		assert.False(t, IsInvalidInput(err))
	})
}

func TestAssessReading(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC))
	SetClock(fakeClock)
	t.Cleanup(func() { SetClock(nil) })

	observed := time.Date(2024, 4, 26, 15, 0, 0, 0, time.UTC)
	cd := 0.00007
	reading := RawReading{Site: testSite, Lat: 38.9, Lon: -77.0, ColumnDensity: &cd, ObservedAt: observed}

	a, err := AssessReading(reading, defaultConverter, 100)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a.ID, "no2-"))
	assert.Equal(t, testSite, a.Site)
	assert.Equal(t, Geo{Lat: 38.9, Lon: -77.0}, a.Geo)
	assert.Equal(t, 0.00007, a.ColumnDensity)
	assert.InDelta(t, 3.22, a.Concentration, 1e-9)
	assert.Equal(t, Classification{Category: "Good", Color: "#00E400", Level: 0}, a.AQI)
	assert.Equal(t, AlertGood, a.Alert.Severity)
	assert.False(t, a.Alert.ThresholdExceeded)
	assert.Equal(t, observed, a.ObservedAt)
	assert.Equal(t, fakeClock.Now(), a.ProcessedAt)
}

func TestAssessReading_DeterministicID(t *testing.T) {
	cd := 0.00005
	reading := RawReading{Site: "Los Angeles", Lat: 34.0, Lon: -118.2, ColumnDensity: &cd}

	a1, err := AssessReading(reading, defaultConverter, 100)
	require.NoError(t, err)
	a2, err := AssessReading(reading, defaultConverter, 100)
	require.NoError(t, err)
	assert.Equal(t, a1.ID, a2.ID)

	other := 0.00006
	reading.ColumnDensity = &other
	a3, err := AssessReading(reading, defaultConverter, 100)
	require.NoError(t, err)
	assert.NotEqual(t, a1.ID, a3.ID)
}

func TestAssessReading_InvalidMeasurement(t *testing.T) {
	cd := -0.0001
	_, err := AssessReading(RawReading{Site: "Dallas", ColumnDensity: &cd}, defaultConverter, 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMeasurement)

	_, err = AssessReading(RawReading{Site: "Dallas"}, defaultConverter, 100)
	assert.ErrorIs(t, err, ErrInvalidMeasurement)
}

func TestAssessReading_ThresholdAndAlert(t *testing.T) {
	cd := 0.01 // 460 μg/m³, Unhealthy
	a, err := AssessReading(RawReading{Site: "Chicago", ColumnDensity: &cd}, defaultConverter, 100)
	require.NoError(t, err)

	assert.Equal(t, "Unhealthy", a.AQI.Category)
	assert.Equal(t, AlertUnhealthy, a.Alert.Severity)
	assert.True(t, a.Alert.ThresholdExceeded)
	assert.Equal(t, "Reduce industrial activity in Chicago", a.Alert.Action)
}

func TestSerializeAssessment(t *testing.T) {
	processed := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	a := Assessment{
		ID:            "no2-abc",
		Site:          testSite,
		Concentration: 3.22,
		AQI:           NewClassification(Good),
		ProcessedAt:   processed,
	}

	out, err := SerializeAssessment(a)
	require.NoError(t, err)

	assert.Equal(t, []byte("no2-abc"), out.Key)
	assert.Equal(t, "Good", out.Headers["aqi_category"])
	assert.Equal(t, "0", out.Headers["aqi_level"])
	assert.Equal(t, processed.Format(time.RFC3339), out.Headers["processed_at"])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Value, &decoded))
	assert.Equal(t, testSite, decoded["site"])
	assert.Equal(t, 3.22, decoded["no2_ugm3"])
	assert.NotContains(t, decoded, "ground", "empty enrichment is omitted")
}

func TestSampleSites(t *testing.T) {
	require.Len(t, SampleSites, 8)
	for _, s := range SampleSites {
		reading := s.Reading()
		a, err := AssessReading(reading, defaultConverter, 100)
		require.NoError(t, err, s.City)
		// Every reference city is well inside the Good band.
		assert.Equal(t, "Good", a.AQI.Category, s.City)
	}
}
