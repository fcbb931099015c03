package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/healthwatcher/gluco/pkg/estimator"
	"github.com/healthwatcher/gluco/pkg/types"
	"github.com/healthwatcher/gluco/pkg/utils/ptr"
)

var (
	demoSpO2          = []float64{95, 97, 99, 100}
	demoPPG           = []float64{1.2, 1.5, 1.8, 2.0}
	demoPPGCorrection = 0.5
	demoVoltages      = []float64{0.6, 0.7, 0.8, 0.9, 1.0}
	demoGlucose       = []float64{110, 120, 130, 140, 150}
	demoTestVoltage   = 0.85
)

func NewDemoCommand() *cobra.Command {
	interactive := false

	cmd := &cobra.Command{
		Use:     "demo",
		Short:   "Run the estimator demo",
		GroupID: gAdvanced,
		Long: `Run the estimator demo.

Prints SpO2 and PPG estimates for a fixed set of readings and a calibration over a fixed sample set. With --interactive it then asks for one SpO2 reading and one PPG voltage.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if err := runSpO2Demo(out); err != nil {
				return err
			}
			if err := runPPGDemo(out); err != nil {
				return err
			}
			if err := runCalibrationDemo(out); err != nil {
				return err
			}
			if interactive {
				return runCustomInput(cmd.InOrStdin(), out)
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read one SpO2 reading and one PPG voltage from stdin")

	return cmd
}

func runSpO2Demo(out io.Writer) error {
	fmt.Fprintln(out, cyan("=== SpO₂-Based Glucose Estimation ==="))
	for _, s := range demoSpO2 {
		g, err := api.EstimateSpO2(s)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "SpO₂ = %s%% → Estimated Glucose = %s\n", formatInput(s), glucoseText(g))
	}
	return nil
}

func runPPGDemo(out io.Writer) error {
	fmt.Fprintf(out, "\n%s\n", cyan("=== PPG/Fuzzy-Based Glucose Estimation ==="))
	for _, v := range demoPPG {
		g, err := api.EstimatePPG(demoPPGRequest(v, demoPPGCorrection))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "PPG Voltage = %.2f V → Estimated Glucose = %s\n", v, glucoseText(g))
	}
	return nil
}

// demoPPGRequest pins the default coefficients so saved calibrations do not
// change the demo output.
func demoPPGRequest(v, correction float64) types.PPGRequest {
	return types.PPGRequest{
		Voltage:    ptr.To(v),
		Correction: ptr.To(correction),
		Slope:      ptr.To(estimator.DefaultSlope),
		Intercept:  ptr.To(estimator.DefaultIntercept),
	}
}

func runCalibrationDemo(out io.Writer) error {
	fmt.Fprintf(out, "\n%s\n", cyan("=== PPG Calibration Demo ==="))
	res, err := api.Calibrate(demoVoltages, demoGlucose)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Calibration results: %s\n", res)
	fmt.Fprintf(out, "Test PPG voltage = %.2f → Estimated Glucose = %s\n",
		demoTestVoltage, glucoseText(res.Estimate(demoTestVoltage)))
	return nil
}

// runCustomInput reads one SpO2 reading and one PPG voltage. Non-numeric
// input is reported to the user and is not an error.
func runCustomInput(in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "\n%s\n", cyan("=== Custom Input Demo ==="))

	scanner := bufio.NewScanner(in)
	readNumber := func(prompt string) (float64, bool, error) {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, false, err
			}
			return 0, false, io.ErrUnexpectedEOF
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(scanner.Text()), 64)
		if err != nil {
			return 0, false, nil
		}
		return v, true, nil
	}

	spo2, ok, err := readNumber("Enter SpO₂ (%): ")
	if err != nil {
		return fmt.Errorf("failed to read SpO2: %w", err)
	}
	if !ok {
		fmt.Fprintln(out, "Invalid input. Please enter numeric values.")
		return nil
	}
	voltage, ok, err := readNumber("Enter PPG voltage (V): ")
	if err != nil {
		return fmt.Errorf("failed to read PPG voltage: %w", err)
	}
	if !ok {
		fmt.Fprintln(out, "Invalid input. Please enter numeric values.")
		return nil
	}

	fromSpO2, err := api.EstimateSpO2(spo2)
	if err != nil {
		return err
	}
	fromPPG, err := api.EstimatePPG(demoPPGRequest(voltage, 0))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Estimated Glucose from SpO₂ = %s\n", glucoseText(fromSpO2))
	fmt.Fprintf(out, "Estimated Glucose from PPG = %s\n", glucoseText(fromPPG))

	return nil
}
