package types

import (
	"github.com/healthwatcher/gluco/pkg/estimator"
	"github.com/healthwatcher/gluco/pkg/summary"
)

// These structs are the JSON bodies shared between the daemon and client
// packages. Optional fields are pointers so the daemon can tell "absent" from
// zero and fall back to the configured defaults.

type VersionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// ReportResponse describes the estimates served since the report window
// opened. Summary is nil when there were none.
type ReportResponse struct {
	Since    int64            `json:"since"`
	Schedule string           `json:"schedule,omitempty"`
	NextRun  int64            `json:"nextRun,omitempty"`
	Summary  *summary.Summary `json:"summary,omitempty"`
}

type GlucoseResponse struct {
	Glucose float64 `json:"glucose"`
}

type SpO2Request struct {
	SpO2 *float64 `json:"spo2"`
}

type PPGRequest struct {
	Voltage    *float64 `json:"voltage"`
	Correction *float64 `json:"correction,omitempty"`
	Slope      *float64 `json:"slope,omitempty"`
	Intercept  *float64 `json:"intercept,omitempty"`
}

type CalibrateRequest struct {
	Voltages []float64 `json:"voltages"`
	Glucose  []float64 `json:"glucose"`
}

type CoefficientsRequest struct {
	Slope     *float64 `json:"slope"`
	Intercept *float64 `json:"intercept"`
}

type SummaryRequest struct {
	Values []float64 `json:"values"`
	Low    *float64  `json:"low,omitempty"`
	High   *float64  `json:"high,omitempty"`
}

// CombinedRequest is one reading for the daemon's combined estimator session.
// MealFactor defaults to 1.0.
type CombinedRequest struct {
	Red        *float64 `json:"red"`
	BPM        *int     `json:"bpm"`
	MealFactor *float64 `json:"mealFactor,omitempty"`
}

// Params overlays the fields present in r onto defaults.
func (r PPGRequest) Params(defaults estimator.PPGParams) estimator.PPGParams {
	p := defaults
	if r.Slope != nil {
		p.Slope = *r.Slope
	}
	if r.Intercept != nil {
		p.Intercept = *r.Intercept
	}
	if r.Correction != nil {
		p.Correction = *r.Correction
	}
	return p
}
