// Package report aggregates assessments into the summaries, quality metrics,
// and CSV export shown to operators.
package report

import (
	"math"

	"github.com/couchcryptid/no2-aqi-etl/internal/domain"
)

// Row pairs a monitored site with its assessment. Assessment is nil when the
// site's reading could not be assessed.
type Row struct {
	Site       domain.Site
	Assessment *domain.Assessment
}

// Summary is the headline view across all monitored sites.
type Summary struct {
	SitesMonitored        int      `json:"sites_monitored"`
	NoData                int      `json:"no_data"`
	AverageConcentration  float64  `json:"avg_no2_ugm3"`
	MaxConcentration      float64  `json:"max_no2_ugm3"`
	AreasNeedingAttention int      `json:"areas_needing_attention"`
	AlertCount            int      `json:"alert_count"`
	ThresholdExceeded     int      `json:"threshold_exceeded"`
	Recommendations       []string `json:"recommendations,omitempty"`
}

// Summarize computes the headline metrics. Sites at level 2 or above need
// attention; level 3 or above raises an alert. Recommendations list one action
// per alerting site followed by the general recommendations, and are empty
// when nothing alerts.
func Summarize(rows []Row) Summary {
	s := Summary{SitesMonitored: len(rows)}

	var sum float64
	var n int
	for _, r := range rows {
		a := r.Assessment
		if a == nil {
			s.NoData++
			continue
		}
		sum += a.Concentration
		n++
		if n == 1 || a.Concentration > s.MaxConcentration {
			s.MaxConcentration = a.Concentration
		}
		if a.AQI.Level > domain.Moderate.Level() {
			s.AreasNeedingAttention++
		}
		if a.Alert.ThresholdExceeded {
			s.ThresholdExceeded++
		}
		if a.Alert.Severity == domain.AlertUnhealthy {
			s.AlertCount++
			s.Recommendations = append(s.Recommendations, a.Alert.Action)
		}
	}
	if n > 0 {
		s.AverageConcentration = sum / float64(n)
	}
	if s.AlertCount > 0 {
		s.Recommendations = append(s.Recommendations, domain.GeneralRecommendations...)
	}
	return s
}

// GroundSummary describes the ground stations that reported an NO₂ value.
type GroundSummary struct {
	StationsReporting int     `json:"stations_reporting"`
	Average           float64 `json:"avg_no2_ugm3"`
	Max               float64 `json:"max_no2_ugm3"`
	Min               float64 `json:"min_no2_ugm3"`
}

// SummarizeGround returns ok=false when no station reported NO₂.
func SummarizeGround(rows []Row) (GroundSummary, bool) {
	var values []float64
	for _, r := range rows {
		if v, ok := groundNO2(r); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return GroundSummary{}, false
	}
	avg, lo, hi := stats(values)
	return GroundSummary{StationsReporting: len(values), Average: avg, Max: hi, Min: lo}, true
}

// WeatherSummary describes sites with current weather.
type WeatherSummary struct {
	SitesReporting     int     `json:"sites_reporting"`
	AverageTemperature float64 `json:"avg_temperature_c"`
	AverageHumidity    float64 `json:"avg_humidity_pct"`
	MinTemperature     float64 `json:"min_temperature_c"`
	MaxTemperature     float64 `json:"max_temperature_c"`
}

// SummarizeWeather returns ok=false when no site has weather.
func SummarizeWeather(rows []Row) (WeatherSummary, bool) {
	var temps, humidities []float64
	for _, r := range rows {
		if r.Assessment == nil || r.Assessment.Weather == nil {
			continue
		}
		temps = append(temps, r.Assessment.Weather.TemperatureC)
		humidities = append(humidities, r.Assessment.Weather.HumidityPct)
	}
	if len(temps) == 0 {
		return WeatherSummary{}, false
	}
	avgT, minT, maxT := stats(temps)
	avgH, _, _ := stats(humidities)
	return WeatherSummary{
		SitesReporting:     len(temps),
		AverageTemperature: avgT,
		AverageHumidity:    avgH,
		MinTemperature:     minT,
		MaxTemperature:     maxT,
	}, true
}

// Quality compares satellite coverage against ground truth.
type Quality struct {
	TotalPoints int `json:"total_points"`
	// GroundCompleteness is the percentage of sites with a ground NO₂ value.
	GroundCompleteness float64 `json:"ground_completeness_pct"`
	// AverageDelta is the mean satellite minus ground difference in μg/m³,
	// nil when no site has both.
	AverageDelta *float64 `json:"avg_satellite_ground_delta,omitempty"`
}

// AssessQuality computes completeness and consistency across rows.
func AssessQuality(rows []Row) Quality {
	q := Quality{TotalPoints: len(rows)}
	if len(rows) == 0 {
		return q
	}

	var withGround int
	var deltas []float64
	for _, r := range rows {
		if _, ok := groundNO2(r); ok {
			withGround++
		}
		if r.Assessment != nil && r.Assessment.SatelliteGroundDelta != nil {
			deltas = append(deltas, *r.Assessment.SatelliteGroundDelta)
		}
	}
	q.GroundCompleteness = float64(withGround) / float64(len(rows)) * 100
	if len(deltas) > 0 {
		avg, _, _ := stats(deltas)
		q.AverageDelta = &avg
	}
	return q
}

// Correlation returns the Pearson coefficient between temperature and NO₂
// concentration over sites that have both. ok is false with fewer than two
// pairs or when either series has zero variance.
func Correlation(rows []Row) (float64, bool) {
	var xs, ys []float64
	for _, r := range rows {
		if r.Assessment == nil || r.Assessment.Weather == nil {
			continue
		}
		xs = append(xs, r.Assessment.Weather.TemperatureC)
		ys = append(ys, r.Assessment.Concentration)
	}
	if len(xs) < 2 {
		return 0, false
	}

	mx, _, _ := stats(xs)
	my, _, _ := stats(ys)
	var cov, vx, vy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0, false
	}
	return cov / math.Sqrt(vx*vy), true
}

func groundNO2(r Row) (float64, bool) {
	if r.Assessment == nil || r.Assessment.Ground == nil || r.Assessment.Ground.NO2 == nil {
		return 0, false
	}
	return *r.Assessment.Ground.NO2, true
}

// stats returns mean, min, and max of a non-empty slice.
func stats(values []float64) (mean, lo, hi float64) {
	lo, hi = values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return sum / float64(len(values)), lo, hi
}
