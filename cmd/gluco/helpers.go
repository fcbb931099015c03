package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/healthwatcher/gluco/pkg/calibration"
	"github.com/healthwatcher/gluco/pkg/client"
	"github.com/healthwatcher/gluco/pkg/combined"
	"github.com/healthwatcher/gluco/pkg/config"
	"github.com/healthwatcher/gluco/pkg/estimator"
	"github.com/healthwatcher/gluco/pkg/summary"
	"github.com/healthwatcher/gluco/pkg/types"
	"github.com/healthwatcher/gluco/pkg/units"
)

// backend computes estimates either in-process or through the daemon.
type backend interface {
	EstimateSpO2(spo2 float64) (float64, error)
	EstimatePPG(req types.PPGRequest) (float64, error)
	Calibrate(voltages, glucose []float64) (calibration.Result, error)
	Summarize(values []float64, low, high float64) (summary.Summary, error)
	EstimateCombined(red float64, bpm int, mealFactor float64) (float64, error)
	ResetCombined() error
	SetCoefficients(slope, intercept float64) (string, error)
}

var (
	_ backend = &client.Client{}
	_ backend = &localBackend{}
)

type localBackend struct {
	conf    config.Config
	session *combined.Estimator
}

func newLocalBackend(c config.Config) *localBackend {
	return &localBackend{
		conf:    c,
		session: combined.New(),
	}
}

func (l *localBackend) EstimateSpO2(spo2 float64) (float64, error) {
	return estimator.FromSpO2(spo2), nil
}

func (l *localBackend) EstimatePPG(req types.PPGRequest) (float64, error) {
	if req.Voltage == nil {
		return 0, fmt.Errorf("voltage is required")
	}
	params := req.Params(config.PPGDefaults(l.conf))
	return estimator.FromPPG(*req.Voltage, estimator.WithParams(params)), nil
}

func (l *localBackend) Calibrate(voltages, glucose []float64) (calibration.Result, error) {
	return calibration.Fit(voltages, glucose)
}

func (l *localBackend) Summarize(values []float64, low, high float64) (summary.Summary, error) {
	return summary.Summarize(values, low, high)
}

func (l *localBackend) EstimateCombined(red float64, bpm int, mealFactor float64) (float64, error) {
	return l.session.Estimate(red, bpm, mealFactor), nil
}

func (l *localBackend) ResetCombined() error {
	l.session.Reset()
	return nil
}

func (l *localBackend) SetCoefficients(slope, intercept float64) (string, error) {
	l.conf.SetCoefficients(slope, intercept)
	if err := l.conf.Save(); err != nil {
		return "", err
	}
	logrus.WithFields(l.conf.LogrusFields()).Debug("saved coefficients")
	return "", nil
}

var (
	bold = color.New(color.Bold).SprintFunc()
	cyan = color.New(color.FgCyan).SprintFunc()
)

func parseFloatArgs(args []string, valueName string) ([]float64, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one %s is required", valueName)
	}

	values := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %v", valueName, a, err)
		}
		values = append(values, v)
	}

	return values, nil
}

// formatInput prints a reading the way a person would type it: 95, not 95.000000.
func formatInput(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func glucoseText(g float64) string {
	return bold(units.Glucose(g).Format(displayUnit))
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

func printSummary(w io.Writer, s summary.Summary, low, high float64) {
	fmt.Fprintf(w, "\n%s\n", cyan("=== Summary ==="))
	fmt.Fprintf(w, "  Readings: %d\n", s.Count)
	fmt.Fprintf(w, "  Mean: %s (SD %s)\n", glucoseText(s.Mean), units.Glucose(s.StdDev).Format(displayUnit))
	fmt.Fprintf(w, "  Range: %s .. %s\n", glucoseText(s.Min), glucoseText(s.Max))
	fmt.Fprintf(w, "  Target %s to %s: below %s, in range %s, above %s\n",
		units.Glucose(low).Format(displayUnit), units.Glucose(high).Format(displayUnit),
		percent(s.BelowRange), percent(s.InRange), percent(s.AboveRange))
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

type estimateJSON struct {
	Input   float64 `json:"input"`
	Glucose float64 `json:"glucose"`
}

type estimatesJSON struct {
	Estimates []estimateJSON   `json:"estimates"`
	Summary   *summary.Summary `json:"summary,omitempty"`
}
