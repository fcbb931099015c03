package config

import (
	"github.com/sirupsen/logrus"

	"github.com/healthwatcher/gluco/pkg/estimator"
)

// Config holds the defaults used when a caller does not supply its own
// estimator parameters.
type Config interface {
	// Slope and Intercept are the PPG calibration coefficients.
	Slope() float64
	Intercept() float64
	// Correction is the fuzzy-logic term added to PPG estimates.
	Correction() float64
	// TargetLow and TargetHigh bound the glucose target range in mg/dL.
	TargetLow() float64
	TargetHigh() float64
	// Unit is the display unit, mg/dL or mmol/L.
	Unit() string

	SetCoefficients(slope, intercept float64)
	SetCorrection(float64)
	SetTargetRange(low, high float64) error
	SetUnit(string) error

	LogrusFields() logrus.Fields

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}

// PPGDefaults returns the configured PPG estimator parameters.
func PPGDefaults(c Config) estimator.PPGParams {
	return estimator.PPGParams{
		Slope:      c.Slope(),
		Intercept:  c.Intercept(),
		Correction: c.Correction(),
	}
}
