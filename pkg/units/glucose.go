package units

import (
	"fmt"
	"strconv"
	"strings"
)

// MgDLPerMmolL converts glucose concentrations between mmol/L and mg/dL.
const MgDLPerMmolL = 18.0182

// Unit names accepted by Glucose.Format.
const (
	UnitMgDL  = "mg/dL"
	UnitMmolL = "mmol/L"
)

// Glucose is a blood glucose concentration stored as a float64 in mg/dL.
type Glucose float64

// ParseGlucose parses a glucose concentration.  Both a number and units are
// required, e.g. "110mg/dL" or "6.1 mmol/L".
func ParseGlucose(s string) (Glucose, error) {
	list := []struct {
		suffix string
		factor float64
	}{
		{suffix: "mg/dl", factor: 1.0},
		{suffix: "mgdl", factor: 1.0},
		{suffix: "mmol/l", factor: MgDLPerMmolL},
		{suffix: "mmol", factor: MgDLPerMmolL},
	}

	known := make([]string, 0, len(list))
	lower := strings.ToLower(strings.TrimSpace(s))

	for _, unit := range list {
		if strings.HasSuffix(lower, unit.suffix) {
			num := strings.TrimSpace(lower[:len(lower)-len(unit.suffix)])

			n, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0.0, fmt.Errorf("%w: '%s' %v", ErrInvalidUnit, num, err)
			}
			return Glucose(n * unit.factor), nil
		}
		known = append(known, unit.suffix)
	}

	return 0.0, fmt.Errorf("%w: unknown unit for '%s' valid: %s", ErrInvalidUnit, s, strings.Join(known, ", "))
}

// ValidUnit normalizes a display unit name, returning false if it is unknown.
func ValidUnit(unit string) (string, bool) {
	switch strings.ToLower(unit) {
	case "mg/dl", "mgdl", "":
		return UnitMgDL, true
	case "mmol/l", "mmol":
		return UnitMmolL, true
	}
	return "", false
}

// MgDL returns the concentration in mg/dL.
func (g Glucose) MgDL() float64 {
	return float64(g)
}

// MmolL returns the concentration in mmol/L.
func (g Glucose) MmolL() float64 {
	return float64(g) / MgDLPerMmolL
}

// Format renders the concentration in the given unit.  Unknown units fall
// back to mg/dL.
func (g Glucose) Format(unit string) string {
	if u, _ := ValidUnit(unit); u == UnitMmolL {
		return fmt.Sprintf("%.2f %s", g.MmolL(), UnitMmolL)
	}
	return g.String()
}

// String returns the concentration formatted in mg/dL.
func (g Glucose) String() string {
	return fmt.Sprintf("%.2f %s", float64(g), UnitMgDL)
}
