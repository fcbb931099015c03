package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/healthwatcher/gluco/pkg/summary"
	"github.com/healthwatcher/gluco/pkg/units"
	"github.com/healthwatcher/gluco/pkg/utils/ptr"
)

func TestFileLoad(t *testing.T) {
	tests := []struct {
		name          string
		content       *string
		wantSlope     float64
		wantIntercept float64
		wantUnit      string
		wantErr       bool
	}{
		{
			name:          "missing file",
			content:       nil,
			wantSlope:     50,
			wantIntercept: 50,
			wantUnit:      units.UnitMgDL,
		},
		{
			name:          "empty file",
			content:       ptr.To("  \n"),
			wantSlope:     50,
			wantIntercept: 50,
			wantUnit:      units.UnitMgDL,
		},
		{
			name:          "partial file",
			content:       ptr.To(`{"slope": 100, "unit": "mmol"}`),
			wantSlope:     100,
			wantIntercept: 50,
			wantUnit:      units.UnitMmolL,
		},
		{
			name:    "bad json",
			content: ptr.To(`{"slope": `),
			wantErr: true,
		},
		{
			name:    "bad unit",
			content: ptr.To(`{"unit": "g/L"}`),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0644); err != nil {
					t.Fatal(err)
				}
			}

			f, err := NewFile(path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewFile() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFile() error = %v", err)
			}

			if got := f.Slope(); got != tt.wantSlope {
				t.Errorf("Slope() = %v, want %v", got, tt.wantSlope)
			}
			if got := f.Intercept(); got != tt.wantIntercept {
				t.Errorf("Intercept() = %v, want %v", got, tt.wantIntercept)
			}
			if got := f.Unit(); got != tt.wantUnit {
				t.Errorf("Unit() = %v, want %v", got, tt.wantUnit)
			}
			if got := f.Correction(); got != 0 {
				t.Errorf("Correction() = %v, want 0", got)
			}
			if f.TargetLow() != summary.DefaultLow || f.TargetHigh() != summary.DefaultHigh {
				t.Errorf("target range = %v-%v, want defaults", f.TargetLow(), f.TargetHigh())
			}
		})
	}
}

func TestFileSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}

	f.SetCoefficients(100, 50)
	f.SetCorrection(0.5)
	if err := f.SetTargetRange(80, 160); err != nil {
		t.Fatalf("SetTargetRange() error = %v", err)
	}
	if err := f.SetUnit("mmol/l"); err != nil {
		t.Fatalf("SetUnit() error = %v", err)
	}
	if err := f.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	g, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() reload error = %v", err)
	}
	if g.Slope() != 100 || g.Intercept() != 50 || g.Correction() != 0.5 {
		t.Errorf("reloaded coefficients = %v/%v/%v", g.Slope(), g.Intercept(), g.Correction())
	}
	if g.TargetLow() != 80 || g.TargetHigh() != 160 {
		t.Errorf("reloaded range = %v-%v", g.TargetLow(), g.TargetHigh())
	}
	if g.Unit() != units.UnitMmolL {
		t.Errorf("reloaded unit = %v", g.Unit())
	}
}

func TestFileSetterValidation(t *testing.T) {
	f := NewFileFromConfig(nil, "")

	if err := f.SetTargetRange(180, 70); !errors.Is(err, summary.ErrInvalidRange) {
		t.Errorf("SetTargetRange() error = %v, want ErrInvalidRange", err)
	}
	if err := f.SetUnit("stones"); !errors.Is(err, units.ErrInvalidUnit) {
		t.Errorf("SetUnit() error = %v, want ErrInvalidUnit", err)
	}
	if f.TargetLow() != summary.DefaultLow || f.Unit() != units.UnitMgDL {
		t.Errorf("failed setters must not change config")
	}
}

func TestNewRawFileConfigFromConfig(t *testing.T) {
	if _, err := NewRawFileConfigFromConfig(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}

	raw, err := NewRawFileConfigFromConfig(NewFileFromConfig(nil, ""))
	if err != nil {
		t.Fatalf("NewRawFileConfigFromConfig() error = %v", err)
	}
	if raw.Slope == nil || *raw.Slope != 50 || raw.Unit == nil || *raw.Unit != units.UnitMgDL {
		t.Errorf("defaults not filled in: %+v", raw)
	}
}
