package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/healthwatcher/gluco/pkg/combined"
	"github.com/healthwatcher/gluco/pkg/utils/ptr"
)

type combinedJSON struct {
	Red     float64 `json:"red"`
	BPM     int     `json:"bpm"`
	Glucose float64 `json:"glucose"`
}

type mealAdjustedJSON struct {
	Readings []combinedJSON `json:"readings,omitempty"`
	FromSpO2 *float64       `json:"fromSpO2,omitempty"`
	FromIR   *float64       `json:"fromIR,omitempty"`
}

func NewCombinedCommand() *cobra.Command {
	var (
		red        []float64
		bpm        []int
		mealFactor float64
		spo2       float64
		ir         float64
	)

	cmd := &cobra.Command{
		Use:     "combined",
		Short:   "Estimate glucose from camera red level and heart rate",
		GroupID: gEstimate,
		Long: `Estimate glucose from camera red level and heart rate.

Runs a sequence of readings through the smoothed estimator and prints the estimate after every reading. Each reading pairs the average red channel value of a camera frame (0-255) with a heart rate in beats per minute. The meal factor scales every estimate; 1.0 means fasting.

The estimator state is reset before the first reading.

--spo2 and --ir print the meal-adjusted estimates from a single SpO2 reading and a raw infrared PPG level. Both clamp their input and result to a plausible range.`,
		Example: `  gluco combined --red 120,125,130 --bpm 72,75,74
  gluco combined --red 150 --bpm 90 --meal-factor 1.2
  gluco combined --spo2 96 --ir 80 --meal-factor 1.1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			res := mealAdjustedJSON{}
			if f.Changed("spo2") {
				res.FromSpO2 = ptr.To(combined.FromSpO2(spo2, mealFactor))
			}
			if f.Changed("ir") {
				res.FromIR = ptr.To(combined.FromIR(ir, mealFactor))
			}

			if len(red) == 0 && res.FromSpO2 == nil && res.FromIR == nil {
				return fmt.Errorf("at least one reading is required")
			}
			if len(red) != len(bpm) {
				return fmt.Errorf("got %d red values but %d BPM values", len(red), len(bpm))
			}

			out := cmd.OutOrStdout()
			if len(red) > 0 {
				if err := api.ResetCombined(); err != nil {
					return err
				}
			}

			for i := range red {
				g, err := api.EstimateCombined(red[i], bpm[i], mealFactor)
				if err != nil {
					return err
				}
				res.Readings = append(res.Readings, combinedJSON{Red: red[i], BPM: bpm[i], Glucose: g})
				if !jsonOutput {
					fmt.Fprintf(out, "Reading %d: red = %.2f, BPM = %d → Estimated Glucose = %s\n",
						i+1, red[i], bpm[i], glucoseText(g))
				}
			}

			if jsonOutput {
				if res.FromSpO2 == nil && res.FromIR == nil {
					return printJSON(out, res.Readings)
				}
				return printJSON(out, res)
			}
			if res.FromSpO2 != nil {
				fmt.Fprintf(out, "SpO₂ = %s%% → Meal-adjusted Glucose = %s\n", formatInput(spo2), glucoseText(*res.FromSpO2))
			}
			if res.FromIR != nil {
				fmt.Fprintf(out, "IR level = %.2f → Meal-adjusted Glucose = %s\n", ir, glucoseText(*res.FromIR))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64SliceVar(&red, "red", nil, "average red channel values, comma separated")
	f.IntSliceVar(&bpm, "bpm", nil, "heart rates in beats per minute, comma separated")
	f.Float64Var(&mealFactor, "meal-factor", 1.0, "multiplier applied to every estimate")
	f.Float64Var(&spo2, "spo2", 0, "SpO2 reading (%) for a meal-adjusted estimate")
	f.Float64Var(&ir, "ir", 0, "raw infrared PPG level (0-200) for a meal-adjusted estimate")

	return cmd
}
