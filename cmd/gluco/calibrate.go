package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/healthwatcher/gluco/pkg/calibration"
)

type calibrationJSON struct {
	calibration.Result
	TestVoltage *float64 `json:"testVoltage,omitempty"`
	TestGlucose *float64 `json:"testGlucose,omitempty"`
	Saved       bool     `json:"saved"`
}

func NewCalibrateCommand() *cobra.Command {
	var (
		voltages    []float64
		glucose     []float64
		samplesPath string
		testVoltage float64
		save        bool
	)

	cmd := &cobra.Command{
		Use:     "calibrate",
		Short:   "Fit PPG calibration coefficients",
		GroupID: gEstimate,
		Long: `Fit PPG calibration coefficients.

Fits glucose = a * voltage + b by least squares over paired PPG voltages and reference glucose readings. Samples come either from --voltages and --glucose, or from a CSV file of "voltage,glucose" rows given with --samples. Glucose values in the CSV may carry a unit, e.g. 6.1mmol/L.

With --save the fitted a and b become the default slope and intercept used by "gluco ppg".`,
		Example: `  gluco calibrate --voltages 0.6,0.7,0.8,0.9,1.0 --glucose 110,120,130,140,150 --test-voltage 0.85
  gluco calibrate --samples readings.csv --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if samplesPath != "" {
				if len(voltages) > 0 || len(glucose) > 0 {
					return fmt.Errorf("--samples cannot be combined with --voltages or --glucose")
				}
				samples, err := calibration.ReadSamplesFile(samplesPath)
				if err != nil {
					return err
				}
				voltages, glucose = calibration.Split(samples)
			}

			res, err := api.Calibrate(voltages, glucose)
			if err != nil {
				return fmt.Errorf("failed to calibrate: %w", err)
			}

			ret := calibrationJSON{Result: res}
			if cmd.Flags().Changed("test-voltage") {
				ret.TestVoltage = &testVoltage
				g := res.Estimate(testVoltage)
				ret.TestGlucose = &g
			}

			if save {
				msg, err := api.SetCoefficients(res.Slope, res.Intercept)
				if err != nil {
					return fmt.Errorf("failed to save coefficients: %w", err)
				}
				if msg != "" {
					logrus.Infof("daemon responded: %s", msg)
				}
				ret.Saved = true
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, ret)
			}

			fmt.Fprintf(out, "Calibration results: %s\n", res)
			if ret.TestGlucose != nil {
				fmt.Fprintf(out, "Test PPG voltage = %.2f → Estimated Glucose = %s\n",
					testVoltage, glucoseText(*ret.TestGlucose))
			}
			if save {
				logrus.Infof("saved slope %.2f and intercept %.2f as PPG defaults", res.Slope, res.Intercept)
			}

			return nil
		},
	}

	f := cmd.Flags()
	f.Float64SliceVar(&voltages, "voltages", nil, "PPG voltages, comma separated")
	f.Float64SliceVar(&glucose, "glucose", nil, "reference glucose in mg/dL, comma separated")
	f.StringVar(&samplesPath, "samples", "", "CSV file of voltage,glucose rows")
	f.Float64Var(&testVoltage, "test-voltage", 0, "evaluate the fitted line at this voltage")
	f.BoolVar(&save, "save", false, "store the fitted coefficients as PPG defaults")

	return cmd
}
