package domain

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultBoundaryLayerHeight is the assumed depth of the well-mixed
	// near-surface layer, in meters.
	DefaultBoundaryLayerHeight = 1000.0

	// NO2MolarMass is the molar mass of nitrogen dioxide in g/mol.
	NO2MolarMass = 46.0

	microgramsPerGram = 1e6
)

var (
	// ErrInvalidMeasurement is returned when a column density is negative or
	// not finite, or when its concentration overflows float64.
	ErrInvalidMeasurement = errors.New("invalid measurement")

	// ErrInvalidConverter is returned by a Converter not built with NewConverter.
	ErrInvalidConverter = errors.New("invalid converter")
)

// defaultConverter backs the package-level Convert.
var defaultConverter = Converter{
	BoundaryLayerHeight: DefaultBoundaryLayerHeight,
	MolarMass:           NO2MolarMass,
}

// Converter turns a satellite NO₂ column density (mol/m²) into an equivalent
// ground-level concentration (μg/m³) by spreading the column evenly over the
// boundary layer:
//
//	concentration = (column / height) * molarMass * 1e6
//
// The zero value reports ErrInvalidConverter; build one with NewConverter.
type Converter struct {
	BoundaryLayerHeight float64 // meters
	MolarMass           float64 // g/mol
}

// NewConverter returns an NO₂ converter for the given boundary layer height in meters.
func NewConverter(boundaryLayerHeight float64) (Converter, error) {
	if boundaryLayerHeight <= 0 || math.IsNaN(boundaryLayerHeight) || math.IsInf(boundaryLayerHeight, 0) {
		return Converter{}, fmt.Errorf("boundary layer height must be a positive finite number, got %v", boundaryLayerHeight)
	}
	return Converter{
		BoundaryLayerHeight: boundaryLayerHeight,
		MolarMass:           NO2MolarMass,
	}, nil
}

// Factor is the linear scale from mol/m² to μg/m³ (46000 for the defaults).
func (c Converter) Factor() float64 {
	return c.MolarMass * microgramsPerGram / c.BoundaryLayerHeight
}

// Convert maps a column density in mol/m² to a concentration in μg/m³.
// Negative and non-finite input is rejected with ErrInvalidMeasurement, as is
// input large enough that the concentration overflows.
func (c Converter) Convert(columnDensity float64) (float64, error) {
	factor := c.Factor()
	if !(factor > 0) || math.IsInf(factor, 0) {
		return 0, fmt.Errorf("%w: factor %v", ErrInvalidConverter, factor)
	}
	if !isFiniteNonNegative(columnDensity) {
		return 0, fmt.Errorf("%w: %v mol/m²", ErrInvalidMeasurement, columnDensity)
	}
	// The factor is applied in one multiplication so the default converter
	// yields exactly columnDensity * 46000.
	concentration := columnDensity * factor
	if math.IsInf(concentration, 0) {
		return 0, fmt.Errorf("%w: %v mol/m² overflows", ErrInvalidMeasurement, columnDensity)
	}
	return concentration, nil
}

func isFiniteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// DefaultConverter returns the converter for a 1000 m boundary layer.
func DefaultConverter() Converter {
	return defaultConverter
}

// Convert uses the default 1000 m boundary layer.
func Convert(columnDensity float64) (float64, error) {
	return defaultConverter.Convert(columnDensity)
}
