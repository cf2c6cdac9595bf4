package domain

import "fmt"

// Alert severities, from least to most urgent.
const (
	AlertGood      = "good"
	AlertCaution   = "caution"
	AlertUnhealthy = "unhealthy"
)

// Alert is the public-facing message derived from a classification.
type Alert struct {
	Severity          string `json:"severity"`
	Headline          string `json:"headline"`
	Advice            string `json:"advice,omitempty"`
	Action            string `json:"action,omitempty"`
	ThresholdExceeded bool   `json:"threshold_exceeded"`
}

// GeneralRecommendations are the standing actions shown whenever any site is unhealthy.
var GeneralRecommendations = []string{
	"Increase public transportation usage",
	"Implement temporary traffic restrictions if needed",
	"Monitor industrial emissions in affected areas",
}

// DeriveAlert maps a classification to an alert for a site:
//   - level >= 3 (Unhealthy and worse): unhealthy, with a site-specific action
//   - level 2 (Unhealthy for Sensitive Groups): caution
//   - otherwise: good
//
// ThresholdExceeded is set when concentration is strictly above threshold (μg/m³).
func DeriveAlert(site string, concentration float64, c Classification, threshold float64) Alert {
	alert := Alert{ThresholdExceeded: concentration > threshold}

	switch {
	case c.Level >= Unhealthy.Level():
		alert.Severity = AlertUnhealthy
		alert.Headline = fmt.Sprintf("Unhealthy Air Quality - %s", site)
		alert.Advice = "Limit outdoor activities, especially for sensitive groups"
		alert.Action = fmt.Sprintf("Reduce industrial activity in %s", site)
	case c.Level == UnhealthyForSensitiveGroups.Level():
		alert.Severity = AlertCaution
		alert.Headline = fmt.Sprintf("Caution - %s", site)
		alert.Advice = "Sensitive groups should reduce prolonged outdoor exertion"
	default:
		alert.Severity = AlertGood
		alert.Headline = fmt.Sprintf("Good Air Quality - %s", site)
	}
	return alert
}
