package estimator

import "strconv"

const (
	// DefaultSlope is the PPG calibration slope used when none is given.
	DefaultSlope = 50.0
	// DefaultIntercept is the PPG calibration intercept used when none is given.
	DefaultIntercept = 50.0
)

// FromSpO2 estimates blood glucose (mg/dL) from SpO2 (%).
func FromSpO2(spo2 float64) float64 {
	return Round2(330 - 2.2*spo2)
}

// FromPPG estimates blood glucose (mg/dL) from an IR/PPG voltage, normalized
// or raw. Without options it uses DefaultSlope, DefaultIntercept and no
// correction.
func FromPPG(v float64, opts ...Option) float64 {
	p := PPGParams{
		Slope:     DefaultSlope,
		Intercept: DefaultIntercept,
	}
	for _, opt := range opts {
		opt.apply(&p)
	}
	return Round2(p.Slope*v + p.Intercept + p.Correction)
}

// Round2 rounds the exact decimal value of x to 2 decimal places, ties to
// even.
func Round2(x float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	return v
}
