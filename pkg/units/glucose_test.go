package units

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGlucose(t *testing.T) {
	tests := []struct {
		in        string
		expect    Glucose
		mmol      float64
		str       string
		expectErr error
	}{
		{
			in:     "110mg/dL",
			expect: Glucose(110),
			mmol:   110 / MgDLPerMmolL,
			str:    "110.00 mg/dL",
		}, {
			in:     "110 MGDL",
			expect: Glucose(110),
			mmol:   110 / MgDLPerMmolL,
			str:    "110.00 mg/dL",
		}, {
			in:     "1mmol/L",
			expect: Glucose(MgDLPerMmolL),
			mmol:   1.0,
			str:    "18.02 mg/dL",
		}, {
			in:     " 5.5 mmol",
			expect: Glucose(5.5 * MgDLPerMmolL),
			mmol:   5.5,
			str:    "99.10 mg/dL",
		}, {
			in:        "fivemmol", // valid unit, but nonsense number
			expectErr: ErrInvalidUnit,
		}, {
			in:        "110", // no units
			expectErr: ErrInvalidUnit,
		},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert := assert.New(t)

			g, err := ParseGlucose(tc.in)

			if tc.expectErr == nil {
				assert.NoError(err)
				assert.InDelta(float64(tc.expect), float64(g), 1e-9)
				assert.Equal(tc.str, g.String())
				assert.Equal(
					fmt.Sprintf("%.6f", tc.mmol),
					fmt.Sprintf("%.6f", g.MmolL()))
				return
			}

			assert.ErrorIs(err, tc.expectErr)
			assert.Equal(Glucose(0.0), g)
		})
	}
}

func TestFormat(t *testing.T) {
	g := Glucose(MgDLPerMmolL * 6)

	assert.Equal(t, "6.00 mmol/L", g.Format("mmol/L"))
	assert.Equal(t, "6.00 mmol/L", g.Format("MMOL"))
	assert.Equal(t, "108.11 mg/dL", g.Format("mg/dL"))
	assert.Equal(t, "108.11 mg/dL", g.Format("furlongs"))
}

func TestValidUnit(t *testing.T) {
	u, ok := ValidUnit("")
	assert.True(t, ok)
	assert.Equal(t, UnitMgDL, u)

	u, ok = ValidUnit("Mmol/l")
	assert.True(t, ok)
	assert.Equal(t, UnitMmolL, u)

	_, ok = ValidUnit("g/L")
	assert.False(t, ok)
}
