package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/healthwatcher/gluco/pkg/client"
	"github.com/healthwatcher/gluco/pkg/events"
)

func daemonClient() *client.Client {
	if listenAddr != "" {
		return client.NewTCPClient(listenAddr)
	}
	return client.NewClient(unixSocketPath)
}

func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   "Print estimates served by the daemon as they happen",
		GroupID: gAdvanced,
		Long: `Print estimates served by the daemon as they happen.

Subscribes to the daemon event stream and prints every estimate, coefficient update, combined estimator reset and scheduled report until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ch, err := daemonClient().SubscribeEvents(ctx)
			if err != nil {
				return err
			}
			logrus.Info("watching daemon events, press Ctrl-C to stop")

			out := cmd.OutOrStdout()
			for ev := range ch {
				if jsonOutput {
					fmt.Fprintf(out, "{\"event\":%q,\"data\":%s}\n", ev.Name, ev.Data)
					continue
				}
				if err := printEvent(out, ev); err != nil {
					logrus.WithError(err).Errorf("failed to decode %s event", ev.Name)
				}
			}

			return nil
		},
	}
}

func printEvent(out io.Writer, ev events.Event) error {
	switch ev.Name {
	case events.Estimate:
		p, err := events.DecodeAs[events.EstimateEvent](ev)
		if err != nil {
			return err
		}
		var input string
		switch p.Source {
		case events.SourceSpO2:
			input = fmt.Sprintf("SpO₂ = %s%%", formatInput(p.Input))
		case events.SourcePPG:
			input = fmt.Sprintf("PPG Voltage = %.2f V", p.Input)
		default:
			input = fmt.Sprintf("red = %.2f, BPM = %d", p.Input, p.BPM)
		}
		fmt.Fprintf(out, "[%s] %s → Estimated Glucose = %s\n", timestamp(p.Ts), input, glucoseText(p.Glucose))
	case events.CoefficientsUpdated:
		p, err := events.DecodeAs[events.CoefficientsEvent](ev)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "[%s] PPG coefficients set to a = %.2f, b = %.2f\n", timestamp(p.Ts), p.Slope, p.Intercept)
	case events.Summary:
		p, err := events.DecodeAs[events.SummaryEvent](ev)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "[%s] report since %s:\n", timestamp(p.Until), timestamp(p.Since))
		printSummary(out, p.Summary, conf.TargetLow(), conf.TargetHigh())
	case events.CombinedReset:
		fmt.Fprintf(out, "[%s] combined estimator reset\n", time.Now().Format(time.Kitchen))
	default:
		logrus.WithField("event", ev.Name).Debug("ignoring unknown event")
	}
	return nil
}

func NewReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "report",
		Short:   "Summarize the estimates served by the daemon",
		GroupID: gAdvanced,
		Long: `Summarize the estimates served by the daemon.

Prints statistics over the estimates the daemon served since its last scheduled report, or since it started.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := daemonClient().GetReport()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, r)
			}

			fmt.Fprintf(out, "Estimates since %s\n", timestamp(r.Since))
			if r.Schedule != "" {
				fmt.Fprintf(out, "Next report at %s (%s)\n", timestamp(r.NextRun), r.Schedule)
			}
			if r.Summary == nil {
				fmt.Fprintln(out, "No estimates yet.")
				return nil
			}
			printSummary(out, *r.Summary, conf.TargetLow(), conf.TargetHigh())
			return nil
		},
	}
}

func timestamp(ts int64) string {
	return time.Unix(ts, 0).Format(time.Kitchen)
}
