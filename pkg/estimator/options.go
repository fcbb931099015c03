package estimator

// PPGParams holds the linear model and correction used by FromPPG.
type PPGParams struct {
	Slope      float64 `json:"slope"`
	Intercept  float64 `json:"intercept"`
	Correction float64 `json:"correction"`
}

// Option configures FromPPG.
type Option interface {
	apply(p *PPGParams)
}

type optionFunc func(p *PPGParams)

func (f optionFunc) apply(p *PPGParams) {
	f(p)
}

// WithCorrection adds a fuzzy-logic correction term to the estimate.
func WithCorrection(c float64) Option {
	return optionFunc(func(p *PPGParams) {
		p.Correction = c
	})
}

// WithSlope overrides the calibration slope.
func WithSlope(a float64) Option {
	return optionFunc(func(p *PPGParams) {
		p.Slope = a
	})
}

// WithIntercept overrides the calibration intercept.
func WithIntercept(b float64) Option {
	return optionFunc(func(p *PPGParams) {
		p.Intercept = b
	})
}

// WithCoefficients overrides both the slope and the intercept, e.g. with the
// result of a calibration.
func WithCoefficients(a, b float64) Option {
	return optionFunc(func(p *PPGParams) {
		p.Slope = a
		p.Intercept = b
	})
}

// WithParams replaces all parameters at once.
func WithParams(params PPGParams) Option {
	return optionFunc(func(p *PPGParams) {
		*p = params
	})
}
