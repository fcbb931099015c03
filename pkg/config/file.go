package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/healthwatcher/gluco/pkg/estimator"
	"github.com/healthwatcher/gluco/pkg/summary"
	"github.com/healthwatcher/gluco/pkg/units"
	"github.com/healthwatcher/gluco/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		Slope:      ptr.To(estimator.DefaultSlope),
		Intercept:  ptr.To(estimator.DefaultIntercept),
		Correction: ptr.To(0.0),
		TargetLow:  ptr.To(summary.DefaultLow),
		TargetHigh: ptr.To(summary.DefaultHigh),
		Unit:       ptr.To(units.UnitMgDL),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

// RawFileConfig is the on-disk form. Absent keys fall back to defaults.
type RawFileConfig struct {
	Slope      *float64 `json:"slope,omitempty"`
	Intercept  *float64 `json:"intercept,omitempty"`
	Correction *float64 `json:"correction,omitempty"`
	TargetLow  *float64 `json:"targetLow,omitempty"`
	TargetHigh *float64 `json:"targetHigh,omitempty"`
	Unit       *string  `json:"unit,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	rawConfig := &RawFileConfig{
		Slope:      ptr.To(c.Slope()),
		Intercept:  ptr.To(c.Intercept()),
		Correction: ptr.To(c.Correction()),
		TargetLow:  ptr.To(c.TargetLow()),
		TargetHigh: ptr.To(c.TargetHigh()),
		Unit:       ptr.To(c.Unit()),
	}

	return rawConfig, nil
}

func valueOr[T any](v, def *T) T {
	if v != nil {
		return *v
	}
	return *def
}

func (f *File) Slope() float64 {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return valueOr(f.c.Slope, defaultFileConfig.Slope)
}

func (f *File) Intercept() float64 {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return valueOr(f.c.Intercept, defaultFileConfig.Intercept)
}

func (f *File) Correction() float64 {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return valueOr(f.c.Correction, defaultFileConfig.Correction)
}

func (f *File) TargetLow() float64 {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return valueOr(f.c.TargetLow, defaultFileConfig.TargetLow)
}

func (f *File) TargetHigh() float64 {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return valueOr(f.c.TargetHigh, defaultFileConfig.TargetHigh)
}

func (f *File) Unit() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return valueOr(f.c.Unit, defaultFileConfig.Unit)
}

func (f *File) SetCoefficients(slope, intercept float64) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Slope = &slope
	f.c.Intercept = &intercept
}

func (f *File) SetCorrection(c float64) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Correction = &c
}

func (f *File) SetTargetRange(low, high float64) error {
	if f.c == nil {
		panic("config is nil")
	}

	if low >= high {
		return fmt.Errorf("%w: low %v must be below high %v", summary.ErrInvalidRange, low, high)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.TargetLow = &low
	f.c.TargetHigh = &high

	return nil
}

func (f *File) SetUnit(unit string) error {
	if f.c == nil {
		panic("config is nil")
	}

	u, ok := units.ValidUnit(unit)
	if !ok {
		return fmt.Errorf("%w: %q, valid: %s, %s", units.ErrInvalidUnit, unit, units.UnitMgDL, units.UnitMmolL)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Unit = &u

	return nil
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// A missing file means all defaults. Keep f.c non-nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// json.Decoder cannot tell an empty file from a truncated one.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	if conf.Unit != nil {
		u, ok := units.ValidUnit(*conf.Unit)
		if !ok {
			return pkgerrors.Wrapf(units.ErrInvalidUnit, "unit %q in file %s", *conf.Unit, f.filepath)
		}
		conf.Unit = &u
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	if err := os.MkdirAll(filepath.Dir(f.filepath), 0755); err != nil {
		return pkgerrors.Wrapf(err, "failed to create directory for %s", f.filepath)
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"slope":      f.Slope(),
		"intercept":  f.Intercept(),
		"correction": f.Correction(),
		"targetLow":  f.TargetLow(),
		"targetHigh": f.TargetHigh(),
		"unit":       f.Unit(),
	}
}
