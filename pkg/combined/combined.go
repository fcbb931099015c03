// Package combined estimates glucose from a camera red-channel average and a
// pulse rate. Readings are smoothed over sliding windows and every estimate is
// blended with the previous one, so an Estimator carries state across calls.
// Use one Estimator per measurement session and Reset it between sessions.
package combined

import (
	"math"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	smoothingWindow = 10

	redMin = 50.0
	redMax = 200.0

	bpmMin = 50
	bpmMax = 180

	glucoseMin = 70.0
	glucoseMax = 180.0

	initialStableValue = 100.0

	spo2Min = 90.0
	spo2Max = 100.0

	irMin = 0.0
	irMax = 200.0
)

// Estimator combines red-channel and BPM estimates with adaptive weighting.
// It is safe for concurrent use.
type Estimator struct {
	mu         sync.Mutex
	window     int
	red        []float64
	bpm        []int
	lastStable float64
}

// Option configures an Estimator.
type Option func(e *Estimator)

// WithWindow sets the smoothing window size. Sizes below 1 are ignored.
func WithWindow(n int) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.window = n
		}
	}
}

// New makes a new Estimator ready for a fresh measurement.
func New(opts ...Option) *Estimator {
	e := &Estimator{
		window:     smoothingWindow,
		lastStable: initialStableValue,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reset clears the smoothing history for a fresh measurement.
func (e *Estimator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.red = e.red[:0]
	e.bpm = e.bpm[:0]
	e.lastStable = initialStableValue
}

// LastStable returns the most recent estimate, or the initial value if
// nothing has been estimated since the last Reset.
func (e *Estimator) LastStable() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.lastStable
}

// Estimate adds one reading and returns the smoothed glucose estimate (mg/dL).
// mealFactor scales the estimate before clamping, 1.0 means fasting.
func (e *Estimator) Estimate(redAvg float64, bpm int, mealFactor float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.red = push(e.red, redAvg, e.window)
	e.bpm = push(e.bpm, bpm, e.window)

	smoothedRed := meanFloat(e.red)
	smoothedBPM := meanInt(e.bpm)

	glucoseRed := fromRed(smoothedRed)
	glucoseBPM := fromBPM(smoothedBPM)

	weightRed := 0.5
	if math.Abs(glucoseRed-e.lastStable) < 5 {
		weightRed = 0.7
	}
	weightBPM := 1.0 - weightRed

	glucose := (weightRed*glucoseRed + weightBPM*glucoseBPM) * mealFactor
	glucose = clamp(glucose, glucoseMin, glucoseMax)
	glucose = e.lastStable*0.6 + glucose*0.4
	e.lastStable = glucose

	logrus.WithFields(logrus.Fields{
		"red":     smoothedRed,
		"bpm":     smoothedBPM,
		"glucose": glucose,
	}).Debug("combined estimate")

	return glucose
}

// FromSpO2 maps SpO2 (%) clamped to [90,100] linearly from 120 down to 100,
// scales it by mealFactor and clamps the result to [70,180]. Unlike
// estimator.FromSpO2 it never leaves the physiological range.
func FromSpO2(spo2, mealFactor float64) float64 {
	spo2 = clamp(spo2, spo2Min, spo2Max)
	glucose := (120.0 - (spo2-90.0)*2.0) * mealFactor
	return clamp(glucose, glucoseMin, glucoseMax)
}

// FromIR maps a raw infrared PPG level clamped to [0,200] onto 70 + vIR/2,
// scales it by mealFactor and clamps the result to [70,180].
func FromIR(vIR, mealFactor float64) float64 {
	vIR = clamp(vIR, irMin, irMax)
	glucose := (70.0 + vIR*0.5) * mealFactor
	return clamp(glucose, glucoseMin, glucoseMax)
}

// fromRed maps the red-channel average onto a sigmoid between 70 and 170.
func fromRed(red float64) float64 {
	red = clamp(red, redMin, redMax)
	n := (red - redMin) / (redMax - redMin)
	return 70 + (1/(1+math.Exp(-6*(n-0.5))))*100
}

// fromBPM maps the pulse rate onto a power curve starting at 80. Rates below
// 60 contribute the base value.
func fromBPM(bpm int) float64 {
	if bpm < bpmMin {
		bpm = bpmMin
	} else if bpm > bpmMax {
		bpm = bpmMax
	}
	base := math.Max(0, float64(bpm-60)/120.0)
	return 80 + math.Pow(base, 1.2)*70
}

func push[T any](history []T, v T, window int) []T {
	if len(history) >= window {
		history = history[len(history)-window+1:]
	}
	return append(history, v)
}

func meanFloat(history []float64) float64 {
	var sum float64
	for _, v := range history {
		sum += v
	}
	return sum / float64(len(history))
}

// meanInt truncates like integer division.
func meanInt(history []int) int {
	sum := 0
	for _, v := range history {
		sum += v
	}
	return sum / len(history)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
