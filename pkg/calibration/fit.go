package calibration

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// Fit fits glucose = a*v + b over the paired samples by ordinary least
// squares and returns the slope, intercept and r².
func Fit(voltages, glucose []float64) (Result, error) {
	if len(voltages) == 0 || len(glucose) == 0 {
		return Result{}, fmt.Errorf("%w: got %d voltages and %d glucose values",
			ErrNoSamples, len(voltages), len(glucose))
	}
	if len(voltages) != len(glucose) {
		return Result{}, fmt.Errorf("%w: %d voltages, %d glucose values",
			ErrLengthMismatch, len(voltages), len(glucose))
	}
	for i := range voltages {
		if !finite(voltages[i]) || !finite(glucose[i]) {
			return Result{}, fmt.Errorf("%w: sample %d is (%v, %v)",
				ErrInvalidSample, i, voltages[i], glucose[i])
		}
	}

	meanV, err := stats.Mean(voltages)
	if err != nil {
		return Result{}, fmt.Errorf("failed to average voltages: %w", err)
	}
	meanG, err := stats.Mean(glucose)
	if err != nil {
		return Result{}, fmt.Errorf("failed to average glucose values: %w", err)
	}

	var sxx, sxy float64
	for i := range voltages {
		dv := voltages[i] - meanV
		sxx += dv * dv
		sxy += dv * (glucose[i] - meanG)
	}
	if sxx == 0 {
		return Result{}, fmt.Errorf("%w: all %d voltages equal %v",
			ErrZeroVariance, len(voltages), voltages[0])
	}

	slope := sxy / sxx
	intercept := meanG - slope*meanV

	var ssRes, ssTot float64
	for i := range voltages {
		res := glucose[i] - (slope*voltages[i] + intercept)
		ssRes += res * res
		dg := glucose[i] - meanG
		ssTot += dg * dg
	}

	return Result{
		Slope:     slope,
		Intercept: intercept,
		R2:        r2(ssRes, ssTot),
	}, nil
}

// FitSamples is Fit over a list of sample pairs.
func FitSamples(samples []Sample) (Result, error) {
	return Fit(Split(samples))
}

// r2 is the coefficient of determination. A constant target has no variance
// to explain: a perfect fit scores 1, anything else 0.
func r2(ssRes, ssTot float64) float64 {
	if ssTot == 0 {
		if ssRes == 0 {
			return 1.0
		}
		return 0.0
	}
	return 1 - ssRes/ssTot
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
