package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/healthwatcher/gluco/pkg/types"
	"github.com/healthwatcher/gluco/pkg/utils/ptr"
	"github.com/healthwatcher/gluco/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", version.Version, version.GitCommit)
		},
	}
}

// runBatch estimates every input, prints one line per estimate and an
// optional summary over the whole batch.
func runBatch(
	cmd *cobra.Command,
	inputs []float64,
	withSummary bool,
	estimate func(float64) (float64, error),
	line func(input, glucose float64) string,
) error {
	out := cmd.OutOrStdout()

	res := estimatesJSON{Estimates: make([]estimateJSON, 0, len(inputs))}
	values := make([]float64, 0, len(inputs))
	for _, in := range inputs {
		g, err := estimate(in)
		if err != nil {
			return err
		}
		values = append(values, g)
		res.Estimates = append(res.Estimates, estimateJSON{Input: in, Glucose: g})
		if !jsonOutput {
			fmt.Fprintln(out, line(in, g))
		}
	}

	if withSummary {
		low, high := conf.TargetLow(), conf.TargetHigh()
		s, err := api.Summarize(values, low, high)
		if err != nil {
			return fmt.Errorf("failed to summarize: %w", err)
		}
		res.Summary = &s
		if !jsonOutput {
			printSummary(out, s, low, high)
		}
	}

	if jsonOutput {
		return printJSON(out, res)
	}

	return nil
}

func NewSpO2Command() *cobra.Command {
	withSummary := false

	cmd := &cobra.Command{
		Use:     "spo2 <percent>...",
		Short:   "Estimate glucose from SpO2 readings",
		GroupID: gEstimate,
		Long: `Estimate glucose from SpO2 readings.

Each reading is a blood oxygen saturation percentage. The estimate is 330 - 2.2 * SpO2 mg/dL. Out-of-range readings are not rejected.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			readings, err := parseFloatArgs(args, "SpO2")
			if err != nil {
				return err
			}

			return runBatch(cmd, readings, withSummary, api.EstimateSpO2, func(in, g float64) string {
				return fmt.Sprintf("SpO₂ = %s%% → Estimated Glucose = %s", formatInput(in), glucoseText(g))
			})
		},
	}

	cmd.Flags().BoolVar(&withSummary, "summary", false, "print statistics over all estimates")

	return cmd
}

func NewPPGCommand() *cobra.Command {
	var (
		withSummary bool
		correction  float64
		slope       float64
		intercept   float64
	)

	cmd := &cobra.Command{
		Use:     "ppg <voltage>...",
		Short:   "Estimate glucose from PPG voltages",
		GroupID: gEstimate,
		Long: `Estimate glucose from PPG voltages.

The estimate is slope * voltage + intercept + correction mg/dL. Slope, intercept and correction default to the values in the config file, which "gluco calibrate --save" can update.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			voltages, err := parseFloatArgs(args, "voltage")
			if err != nil {
				return err
			}

			req := types.PPGRequest{}
			f := cmd.Flags()
			if f.Changed("correction") {
				req.Correction = ptr.To(correction)
			}
			if f.Changed("slope") {
				req.Slope = ptr.To(slope)
			}
			if f.Changed("intercept") {
				req.Intercept = ptr.To(intercept)
			}

			return runBatch(cmd, voltages, withSummary, func(v float64) (float64, error) {
				r := req
				r.Voltage = ptr.To(v)
				return api.EstimatePPG(r)
			}, func(in, g float64) string {
				return fmt.Sprintf("PPG Voltage = %.2f V → Estimated Glucose = %s", in, glucoseText(g))
			})
		},
	}

	f := cmd.Flags()
	f.BoolVar(&withSummary, "summary", false, "print statistics over all estimates")
	f.Float64Var(&correction, "correction", 0, "fuzzy-logic correction term (default from config)")
	f.Float64Var(&slope, "slope", 0, "calibration slope a (default from config)")
	f.Float64Var(&intercept, "intercept", 0, "calibration intercept b (default from config)")

	return cmd
}
