package combined

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		description string
		red         float64
		bpm         int
		mealFactor  float64
		want        float64
	}{
		{
			description: "midpoint reading keeps the initial value",
			red:         125,
			bpm:         60,
			mealFactor:  1.0,
			want:        100.0,
		}, {
			description: "clamped high",
			red:         200,
			bpm:         180,
			mealFactor:  3.0,
			want:        100*0.6 + glucoseMax*0.4,
		}, {
			description: "clamped low",
			red:         125,
			bpm:         60,
			mealFactor:  0.1,
			want:        100*0.6 + glucoseMin*0.4,
		}, {
			description: "slow pulse does not produce NaN",
			red:         125,
			bpm:         40,
			mealFactor:  1.0,
			want:        100.0,
		}, {
			description: "stable red estimate is weighted higher",
			red:         104,
			bpm:         60,
			mealFactor:  1.0,
			want:        100*0.6 + (0.7*fromRed(104)+0.3*80)*0.4,
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			e := New()
			got := e.Estimate(tc.red, tc.bpm, tc.mealFactor)
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tc.want, got, 1e-9)
			assert.InDelta(t, got, e.LastStable(), 1e-12)
		})
	}
}

func TestEstimateBlendsWithPrevious(t *testing.T) {
	e := New()

	first := e.Estimate(200, 180, 3.0)
	second := e.Estimate(200, 180, 3.0)

	assert.InDelta(t, 132.0, first, 1e-9)
	assert.InDelta(t, first*0.6+glucoseMax*0.4, second, 1e-9)
	assert.Greater(t, second, first)
}

func TestReset(t *testing.T) {
	e := New()

	for i := 0; i < 5; i++ {
		e.Estimate(190, 150, 1.5)
	}
	assert.NotEqual(t, initialStableValue, e.LastStable())

	e.Reset()
	assert.Equal(t, initialStableValue, e.LastStable())
	assert.InDelta(t, 100.0, e.Estimate(125, 60, 1.0), 1e-9)
}

func TestWithWindow(t *testing.T) {
	e := New(WithWindow(1))
	e.Estimate(50, 60, 1.0)
	e.Estimate(125, 60, 1.0)
	assert.Equal(t, []float64{125}, e.red)

	e = New(WithWindow(0))
	assert.Equal(t, smoothingWindow, e.window)
}

func TestPush(t *testing.T) {
	var h []int
	for i := 1; i <= 12; i++ {
		h = push(h, i, smoothingWindow)
	}
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, h)
}

func TestContributions(t *testing.T) {
	assert := assert.New(t)

	assert.InDelta(120.0, fromRed(125), 1e-9)
	assert.Equal(fromRed(redMin), fromRed(0))
	assert.Equal(fromRed(redMax), fromRed(1000))

	assert.InDelta(80.0, fromBPM(60), 1e-9)
	assert.InDelta(80.0, fromBPM(55), 1e-9)
	assert.InDelta(150.0, fromBPM(180), 1e-9)
	assert.Equal(fromBPM(bpmMax), fromBPM(250))

	assert.Equal(60, meanInt([]int{60, 61}))
}

func TestConcurrentEstimate(t *testing.T) {
	e := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				e.Estimate(125, 60, 1.0)
			}
		}()
	}
	wg.Wait()

	assert.InDelta(t, 100.0, e.LastStable(), 1e-9)
}

func TestFromSpO2(t *testing.T) {
	tests := []struct {
		description string
		spo2        float64
		mealFactor  float64
		want        float64
	}{
		{description: "low end", spo2: 90, mealFactor: 1.0, want: 120.0},
		{description: "high end", spo2: 100, mealFactor: 1.0, want: 100.0},
		{description: "spo2 clamped below", spo2: 80, mealFactor: 1.0, want: 120.0},
		{description: "spo2 clamped above", spo2: 120, mealFactor: 1.0, want: 100.0},
		{description: "breakfast", spo2: 95, mealFactor: 1.1, want: 121.0},
		{description: "result clamped high", spo2: 90, mealFactor: 2.0, want: glucoseMax},
		{description: "result clamped low", spo2: 100, mealFactor: 0.5, want: glucoseMin},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert.InDelta(t, tc.want, FromSpO2(tc.spo2, tc.mealFactor), 1e-9)
		})
	}
}

func TestFromIR(t *testing.T) {
	tests := []struct {
		description string
		vIR         float64
		mealFactor  float64
		want        float64
	}{
		{description: "zero", vIR: 0, mealFactor: 1.0, want: 70.0},
		{description: "linear", vIR: 100, mealFactor: 1.0, want: 120.0},
		{description: "negative clamped", vIR: -20, mealFactor: 1.0, want: 70.0},
		{description: "ir clamped above", vIR: 500, mealFactor: 1.0, want: 170.0},
		{description: "lunch", vIR: 100, mealFactor: 1.05, want: 126.0},
		{description: "result clamped high", vIR: 200, mealFactor: 1.1, want: glucoseMax},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert.InDelta(t, tc.want, FromIR(tc.vIR, tc.mealFactor), 1e-9)
		})
	}
}
