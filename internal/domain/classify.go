package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConcentration is returned when a concentration is negative, NaN, or infinite.
var ErrInvalidConcentration = errors.New("invalid concentration")

// Category is an AQI severity band. Its integer value is the ordinal level.
type Category int

const (
	Good Category = iota
	Moderate
	UnhealthyForSensitiveGroups
	Unhealthy
	VeryUnhealthy
	Hazardous
)

type categoryInfo struct {
	label string
	color string
}

var categoryTable = [...]categoryInfo{
	Good:                        {label: "Good", color: "#00E400"},
	Moderate:                    {label: "Moderate", color: "#FFFF00"},
	UnhealthyForSensitiveGroups: {label: "Unhealthy for Sensitive Groups", color: "#FF7E00"},
	Unhealthy:                   {label: "Unhealthy", color: "#FF0000"},
	VeryUnhealthy:               {label: "Very Unhealthy", color: "#8F3F97"},
	Hazardous:                   {label: "Hazardous", color: "#7E0023"},
}

// Level is the ordinal severity, 0 (Good) through 5 (Hazardous).
func (c Category) Level() int { return int(c) }

func (c Category) String() string {
	if c < Good || c > Hazardous {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryTable[c].label
}

// Color is the display color associated with the category.
func (c Category) Color() string {
	if c < Good || c > Hazardous {
		return ""
	}
	return categoryTable[c].color
}

// Breakpoint is the inclusive upper bound of a category, in μg/m³.
type Breakpoint struct {
	UpperBound float64
	Category   Category
}

// breakpoints is ordered by ascending bound; the last entry is unbounded.
var breakpoints = [...]Breakpoint{
	{UpperBound: 53, Category: Good},
	{UpperBound: 100, Category: Moderate},
	{UpperBound: 360, Category: UnhealthyForSensitiveGroups},
	{UpperBound: 649, Category: Unhealthy},
	{UpperBound: 1249, Category: VeryUnhealthy},
	{UpperBound: math.Inf(1), Category: Hazardous},
}

// Breakpoints returns a copy of the NO₂ threshold table in ascending order.
func Breakpoints() []Breakpoint {
	out := make([]Breakpoint, len(breakpoints))
	copy(out, breakpoints[:])
	return out
}

// Categories lists every category from least to most severe.
func Categories() []Category {
	return []Category{Good, Moderate, UnhealthyForSensitiveGroups, Unhealthy, VeryUnhealthy, Hazardous}
}

// Classification is the display triple for a concentration.
type Classification struct {
	Category string `json:"category"`
	Color    string `json:"color"`
	Level    int    `json:"level"`
}

// NewClassification builds the triple for c so the three fields always agree.
func NewClassification(c Category) Classification {
	return Classification{
		Category: c.String(),
		Color:    c.Color(),
		Level:    c.Level(),
	}
}

// ClassifyCategory returns the band a concentration (μg/m³) falls into.
// A value exactly on a bound belongs to the lower band.
func ClassifyCategory(concentration float64) (Category, error) {
	if math.IsNaN(concentration) || math.IsInf(concentration, 0) || concentration < 0 {
		return 0, fmt.Errorf("%w: %v μg/m³", ErrInvalidConcentration, concentration)
	}
	for _, bp := range breakpoints {
		if concentration <= bp.UpperBound {
			return bp.Category, nil
		}
	}
	// Unreachable: the last bound is +Inf and infinities are rejected above.
	return Hazardous, nil
}

// Classify maps a concentration in μg/m³ to its AQI classification.
func Classify(concentration float64) (Classification, error) {
	cat, err := ClassifyCategory(concentration)
	if err != nil {
		return Classification{}, err
	}
	return NewClassification(cat), nil
}
