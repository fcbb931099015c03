package events

import (
	"encoding/json"

	"github.com/healthwatcher/gluco/pkg/summary"
)

// Event names
const (
	Estimate            = "estimate"
	CoefficientsUpdated = "coefficients.updated"
	CombinedReset       = "combined.reset"
	Summary             = "summary"
)

// Estimate sources
const (
	SourceSpO2     = "spo2"
	SourcePPG      = "ppg"
	SourceCombined = "combined"
)

// Event is a server-sent event from the daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// EstimateEvent is the payload for estimate. Input is the SpO2 percentage,
// the PPG voltage or the red channel average, depending on Source.
type EstimateEvent struct {
	Source  string  `json:"source"`
	Input   float64 `json:"input"`
	BPM     int     `json:"bpm,omitempty"`
	Glucose float64 `json:"glucose"`
	Ts      int64   `json:"ts"`
}

// CoefficientsEvent is the payload for coefficients.updated.
type CoefficientsEvent struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Ts        int64   `json:"ts"`
}

// DecodeAs decodes the event payload into T, ignoring the event name. Empty
// data decodes to the zero value of T.
//
// Example:
//
//	payload, err := events.DecodeAs[events.EstimateEvent](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(payload.Source, payload.Glucose)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}

// SummaryEvent is the payload for summary, sent when the daemon closes a
// report window.
type SummaryEvent struct {
	Summary summary.Summary `json:"summary"`
	Since   int64           `json:"since"`
	Until   int64           `json:"until"`
}
