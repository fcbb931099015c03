package summary

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"
)

const (
	// DefaultLow is the lower bound of the default target range, mg/dL.
	DefaultLow = 70.0
	// DefaultHigh is the upper bound of the default target range, mg/dL.
	DefaultHigh = 180.0
)

var (
	ErrNoValues     = errors.New("no glucose values to summarize")
	ErrInvalidRange = errors.New("invalid target range")
)

// Summary describes a batch of glucose estimates. The range fractions sum to 1.
type Summary struct {
	Count      int     `json:"count"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"stdDev"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	BelowRange float64 `json:"belowRange"`
	InRange    float64 `json:"inRange"`
	AboveRange float64 `json:"aboveRange"`
}

// Summarize computes descriptive statistics over values and the fraction of
// values at or below low, between, and at or above high.
func Summarize(values []float64, low, high float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrNoValues
	}
	if low >= high {
		return Summary{}, fmt.Errorf("%w: low %v must be below high %v", ErrInvalidRange, low, high)
	}

	data := stats.Float64Data(values)

	mean, err := data.Mean()
	if err != nil {
		return Summary{}, err
	}
	dev, err := data.StandardDeviation()
	if err != nil {
		return Summary{}, err
	}
	lo, err := data.Min()
	if err != nil {
		return Summary{}, err
	}
	hi, err := data.Max()
	if err != nil {
		return Summary{}, err
	}

	below, above := 0.0, 0.0
	for _, v := range values {
		switch {
		case v <= low:
			below++
		case v >= high:
			above++
		}
	}
	total := float64(len(values))
	in := total - below - above

	return Summary{
		Count:      len(values),
		Mean:       mean,
		StdDev:     dev,
		Min:        lo,
		Max:        hi,
		BelowRange: below / total,
		InRange:    in / total,
		AboveRange: above / total,
	}, nil
}
