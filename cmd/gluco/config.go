package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/healthwatcher/gluco/pkg/client"
	"github.com/healthwatcher/gluco/pkg/config"
	"github.com/healthwatcher/gluco/pkg/units"
)

// effectiveConfig returns the daemon's config with --remote, the local file otherwise.
func effectiveConfig() (config.Config, error) {
	c, ok := api.(*client.Client)
	if !ok {
		return conf, nil
	}
	raw, err := c.GetConfig()
	if err != nil {
		return nil, err
	}
	return config.NewFileFromConfig(raw, ""), nil
}

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Show or change the configuration",
		GroupID: gAdvanced,
		Long: `Show or change the configuration.

Without a subcommand, prints the effective configuration with defaults filled in. The subcommands edit the local config file; send SIGHUP to a running daemon to reload it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := effectiveConfig()
			if err != nil {
				return fmt.Errorf("failed to get config: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				raw, err := config.NewRawFileConfigFromConfig(c)
				if err != nil {
					return err
				}
				return printJSON(out, raw)
			}

			fmt.Fprintln(out, bold("PPG estimator:"))
			fmt.Fprintf(out, "  Slope (a): %s\n", bold(fmt.Sprintf("%.2f", c.Slope())))
			fmt.Fprintf(out, "  Intercept (b): %s\n", bold(fmt.Sprintf("%.2f", c.Intercept())))
			fmt.Fprintf(out, "  Correction: %s\n", bold(fmt.Sprintf("%.2f", c.Correction())))
			fmt.Fprintln(out)
			fmt.Fprintln(out, bold("Display:"))
			fmt.Fprintf(out, "  Target range: %s to %s\n",
				bold(units.Glucose(c.TargetLow()).Format(c.Unit())),
				bold(units.Glucose(c.TargetHigh()).Format(c.Unit())))
			fmt.Fprintf(out, "  Unit: %s\n", bold(c.Unit()))

			return nil
		},
	}

	cmd.AddCommand(
		newConfigSetCommand("correction <value>", "Set the default PPG correction term", 1,
			func(args []float64) error {
				conf.SetCorrection(args[0])
				return nil
			}),
		newConfigSetCommand("range <low> <high>", "Set the glucose target range in mg/dL", 2,
			func(args []float64) error {
				return conf.SetTargetRange(args[0], args[1])
			}),
		&cobra.Command{
			Use:   "unit <unit>",
			Short: "Set the display unit, mg/dL or mmol/L",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				if err := conf.SetUnit(args[0]); err != nil {
					return err
				}
				return saveConfig()
			},
		},
	)

	return cmd
}

func newConfigSetCommand(use, short string, nargs int, set func([]float64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(_ *cobra.Command, args []string) error {
			values, err := parseFloatArgs(args, "value")
			if err != nil {
				return err
			}
			if err := set(values); err != nil {
				return err
			}
			return saveConfig()
		},
	}
}

func saveConfig() error {
	if err := conf.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	logrus.WithFields(conf.LogrusFields()).Infof("saved config to %s", configPath)
	return nil
}
