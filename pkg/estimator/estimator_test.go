package estimator

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromSpO2(t *testing.T) {
	tests := []struct {
		spo2 float64
		want float64
	}{
		{spo2: 100, want: 110.0},
		{spo2: 95, want: 121.0},
		{spo2: 97, want: 116.6},
		{spo2: 99, want: 112.2},
		{spo2: 0, want: 330.0},
		// Not validated, out of range in means out of range out.
		{spo2: 150, want: 0.0},
		{spo2: 97.333, want: 115.87},
	}

	for _, tc := range tests {
		t.Run(strconv.FormatFloat(tc.spo2, 'f', -1, 64), func(t *testing.T) {
			assert.InDelta(t, tc.want, FromSpO2(tc.spo2), 1e-9)
		})
	}
}

func TestFromPPG(t *testing.T) {
	tests := []struct {
		description string
		v           float64
		opts        []Option
		want        float64
	}{
		{
			description: "defaults",
			v:           1.5,
			want:        125.0,
		}, {
			description: "explicit defaults with zero correction",
			v:           1.5,
			opts:        []Option{WithCoefficients(50, 50), WithCorrection(0)},
			want:        125.0,
		}, {
			description: "correction is additive",
			v:           1.2,
			opts:        []Option{WithCorrection(0.5)},
			want:        110.5,
		}, {
			description: "negative correction",
			v:           2.0,
			opts:        []Option{WithCorrection(-3.25)},
			want:        146.75,
		}, {
			description: "custom slope and intercept",
			v:           0.85,
			opts:        []Option{WithSlope(100), WithIntercept(50)},
			want:        135.0,
		}, {
			description: "params replace everything",
			v:           1,
			opts:        []Option{WithCorrection(9), WithParams(PPGParams{Slope: 2, Intercept: 3, Correction: 4})},
			want:        9.0,
		}, {
			description: "result is rounded",
			v:           1.23456,
			want:        111.73,
		}, {
			description: "rounds the decimal value, not the scaled one",
			v:           0.615,
			opts:        []Option{WithCoefficients(1, 0)},
			want:        0.61,
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert.InDelta(t, tc.want, FromPPG(tc.v, tc.opts...), 1e-9)
		})
	}
}

func TestRound2(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0.12, Round2(0.125))
	assert.Equal(0.38, Round2(0.375))
	assert.Equal(-1.5, Round2(-1.5))
	assert.Equal(121.0, Round2(121.0000001))
	// 0.615 and 2.675 are stored just below the tie.
	assert.Equal(0.61, Round2(0.615))
	assert.Equal(2.67, Round2(2.675))
	assert.Equal(1.01, Round2(1.005+1e-12))
	assert.True(math.IsNaN(Round2(math.NaN())))

	// Every estimate has at most two decimals.
	for _, v := range []float64{0.111, 1.98765, 3.14159, 42.4242} {
		got := FromPPG(v, WithCorrection(0.333))
		assert.InDelta(got, math.Round(got*100)/100, 1e-9, "value %v", got)
		got = FromSpO2(v * 10)
		assert.InDelta(got, math.Round(got*100)/100, 1e-9, "value %v", got)
	}
}
