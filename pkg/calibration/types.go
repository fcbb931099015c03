package calibration

import (
	"fmt"

	"github.com/healthwatcher/gluco/pkg/estimator"
)

// Sample is one paired PPG voltage and reference glucose (mg/dL) reading.
type Sample struct {
	Voltage float64 `json:"voltage"`
	Glucose float64 `json:"glucose"`
}

// Result is a fitted linear model glucose = Slope*v + Intercept.
// R2 is in [0,1] for a valid fit.
type Result struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"`
}

// Estimate evaluates the fitted line at v. The value is not rounded.
func (r Result) Estimate(v float64) float64 {
	return r.Slope*v + r.Intercept
}

// Options returns the estimator options that make estimator.FromPPG use the
// fitted coefficients.
func (r Result) Options() []estimator.Option {
	return []estimator.Option{estimator.WithCoefficients(r.Slope, r.Intercept)}
}

func (r Result) String() string {
	return fmt.Sprintf("a (slope) = %.2f, b (intercept) = %.2f, R² = %.3f", r.Slope, r.Intercept, r.R2)
}

// Split returns the voltages and glucose values of samples as two slices.
func Split(samples []Sample) (voltages, glucose []float64) {
	voltages = make([]float64, len(samples))
	glucose = make([]float64, len(samples))
	for i, s := range samples {
		voltages[i] = s.Voltage
		glucose[i] = s.Glucose
	}
	return voltages, glucose
}
