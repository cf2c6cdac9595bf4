package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/no2-aqi-etl/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// assessed builds a row by running a site through the default converter.
func assessed(t *testing.T, city string, columnDensity float64) Row {
	t.Helper()
	site := domain.Site{City: city, Lat: 40, Lon: -100, ColumnDensity: columnDensity}
	a, err := domain.AssessReading(site.Reading(), domain.DefaultConverter(), 100)
	require.NoError(t, err)
	return Row{Site: site, Assessment: &a}
}

func withGround(r Row, no2 float64, aqi int) Row {
	a := *r.Assessment
	a.Ground = &domain.GroundObservation{Station: "station", NO2: floatPtr(no2), AQI: intPtr(aqi)}
	a.GroundSource = domain.SourceReported
	delta := a.Concentration - no2
	a.SatelliteGroundDelta = &delta
	r.Assessment = &a
	return r
}

func withWeather(r Row, temp, humidity float64) Row {
	a := *r.Assessment
	a.Weather = &domain.WeatherConditions{TemperatureC: temp, HumidityPct: humidity, Description: "clear sky"}
	a.WeatherSource = domain.SourceReported
	r.Assessment = &a
	return r
}

func noData(city string) Row {
	return Row{Site: domain.Site{City: city, Lat: 1, Lon: 2, ColumnDensity: -1}}
}

func TestSummarize_AllGood(t *testing.T) {
	rows := []Row{
		assessed(t, "A", 0.00002), // 0.92
		assessed(t, "B", 0.00008), // 3.68
	}

	s := Summarize(rows)

	assert.Equal(t, 2, s.SitesMonitored)
	assert.Equal(t, 0, s.NoData)
	assert.InDelta(t, 2.3, s.AverageConcentration, 1e-9)
	assert.InDelta(t, 3.68, s.MaxConcentration, 1e-9)
	assert.Equal(t, 0, s.AreasNeedingAttention)
	assert.Equal(t, 0, s.AlertCount)
	assert.Empty(t, s.Recommendations)
}

func TestSummarize_AlertsAndRecommendations(t *testing.T) {
	rows := []Row{
		assessed(t, "Clean", 0.0001),    // 4.6 Good
		assessed(t, "Sensitive", 0.003), // 138 USG
		assessed(t, "Smoggy", 0.01),     // 460 Unhealthy
		assessed(t, "Choking", 0.03),    // 1380 Hazardous
		noData("Broken"),
	}

	s := Summarize(rows)

	assert.Equal(t, 5, s.SitesMonitored)
	assert.Equal(t, 1, s.NoData)
	assert.Equal(t, 3, s.AreasNeedingAttention)
	assert.Equal(t, 2, s.AlertCount)
	assert.Equal(t, 3, s.ThresholdExceeded)
	assert.InDelta(t, 1380.0, s.MaxConcentration, 1e-9)

	want := append([]string{
		"Reduce industrial activity in Smoggy",
		"Reduce industrial activity in Choking",
	}, domain.GeneralRecommendations...)
	assert.Equal(t, want, s.Recommendations)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, Summary{}, s)
}

func TestSummarizeGround(t *testing.T) {
	rows := []Row{
		withGround(assessed(t, "A", 0.00005), 10, 20),
		withGround(assessed(t, "B", 0.00005), 30, 40),
		assessed(t, "C", 0.00005),
		noData("D"),
	}

	g, ok := SummarizeGround(rows)
	require.True(t, ok)
	assert.Equal(t, 2, g.StationsReporting)
	assert.InDelta(t, 20.0, g.Average, 1e-9)
	assert.InDelta(t, 30.0, g.Max, 1e-9)
	assert.InDelta(t, 10.0, g.Min, 1e-9)

	_, ok = SummarizeGround([]Row{assessed(t, "C", 0.00005)})
	assert.False(t, ok)
}

func TestSummarizeWeather(t *testing.T) {
	rows := []Row{
		withWeather(assessed(t, "A", 0.00005), 10, 50),
		withWeather(assessed(t, "B", 0.00005), 20, 70),
		assessed(t, "C", 0.00005),
	}

	w, ok := SummarizeWeather(rows)
	require.True(t, ok)
	assert.Equal(t, 2, w.SitesReporting)
	assert.InDelta(t, 15.0, w.AverageTemperature, 1e-9)
	assert.InDelta(t, 60.0, w.AverageHumidity, 1e-9)
	assert.InDelta(t, 10.0, w.MinTemperature, 1e-9)
	assert.InDelta(t, 20.0, w.MaxTemperature, 1e-9)

	_, ok = SummarizeWeather(nil)
	assert.False(t, ok)
}

func TestAssessQuality(t *testing.T) {
	rows := []Row{
		withGround(assessed(t, "A", 0.0001), 2.6, 5), // 4.6 - 2.6 = 2
		withGround(assessed(t, "B", 0.0001), 0.6, 5), // 4.6 - 0.6 = 4
		assessed(t, "C", 0.0001),
		noData("D"),
	}

	q := AssessQuality(rows)
	assert.Equal(t, 4, q.TotalPoints)
	assert.InDelta(t, 50.0, q.GroundCompleteness, 1e-9)
	require.NotNil(t, q.AverageDelta)
	assert.InDelta(t, 3.0, *q.AverageDelta, 1e-9)
}

func TestAssessQuality_NoGround(t *testing.T) {
	q := AssessQuality([]Row{assessed(t, "A", 0.0001)})
	assert.Equal(t, 1, q.TotalPoints)
	assert.InDelta(t, 0.0, q.GroundCompleteness, 0)
	assert.Nil(t, q.AverageDelta)

	assert.Equal(t, Quality{}, AssessQuality(nil))
}

func TestCorrelation(t *testing.T) {
	t.Run("perfect positive", func(t *testing.T) {
		rows := []Row{
			withWeather(assessed(t, "A", 0.0001), 10, 50),
			withWeather(assessed(t, "B", 0.0002), 20, 50),
			withWeather(assessed(t, "C", 0.0003), 30, 50),
		}
		r, ok := Correlation(rows)
		require.True(t, ok)
		assert.InDelta(t, 1.0, r, 1e-9)
	})

	t.Run("perfect negative", func(t *testing.T) {
		rows := []Row{
			withWeather(assessed(t, "A", 0.0003), 10, 50),
			withWeather(assessed(t, "B", 0.0002), 20, 50),
			withWeather(assessed(t, "C", 0.0001), 30, 50),
		}
		r, ok := Correlation(rows)
		require.True(t, ok)
		assert.InDelta(t, -1.0, r, 1e-9)
	})

	t.Run("too few pairs", func(t *testing.T) {
		rows := []Row{
			withWeather(assessed(t, "A", 0.0003), 10, 50),
			assessed(t, "B", 0.0002),
			noData("C"),
		}
		_, ok := Correlation(rows)
		assert.False(t, ok)
	})

	t.Run("zero variance", func(t *testing.T) {
		rows := []Row{
			withWeather(assessed(t, "A", 0.0001), 20, 50),
			withWeather(assessed(t, "B", 0.0002), 20, 50),
		}
		_, ok := Correlation(rows)
		assert.False(t, ok)
	})
}
