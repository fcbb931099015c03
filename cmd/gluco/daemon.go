package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/healthwatcher/gluco/pkg/daemon"
	"github.com/healthwatcher/gluco/pkg/version"
)

var (
	// allowNonRootAccess makes the daemon socket accessible to every local user.
	allowNonRootAccess = false
	// reportSchedule is a cron expression for periodic glucose reports.
	reportSchedule = ""
)

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "daemon",
		Short:   "Run gluco daemon in the foreground",
		GroupID: gAdvanced,
		Long: `Run gluco daemon in the foreground.

The daemon serves the estimators over HTTP on a unix socket, or on a TCP address when --listen is set. Send SIGHUP to reload the config file.

With --report-schedule the daemon summarizes the estimates it served on that schedule, logs the summary and sends it to "gluco watch" subscribers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("gluco daemon starting")
			return daemon.Run(cmd.Context(), daemon.Options{
				ConfigPath:     configPath,
				UnixSocketPath: unixSocketPath,
				ListenAddr:     listenAddr,
				AllowNonRoot:   allowNonRootAccess,
				ReportSchedule: reportSchedule,
			})
		},
	}

	f := cmd.Flags()

	f.BoolVar(&allowNonRootAccess, "allow-non-root-access", false,
		"Allow non-root users to access the daemon socket.")
	f.StringVar(&reportSchedule, "report-schedule", "",
		"Cron expression for periodic glucose reports, e.g. \"@hourly\" or \"0 */15 * * * *\". Empty disables reports.")

	return cmd
}
