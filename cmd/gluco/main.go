package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/healthwatcher/gluco/pkg/client"
	"github.com/healthwatcher/gluco/pkg/config"
	"github.com/healthwatcher/gluco/pkg/units"
)

var (
	logLevel       = "info"
	unixSocketPath = filepath.Join(os.TempDir(), "gluco.sock")
	configPath     = defaultConfigPath()
	listenAddr     = ""
	remote         = false
	displayUnit    = ""
	jsonOutput     = false
)

var (
	gEstimate     = "Estimate:"
	gAdvanced     = "Advanced:"
	commandGroups = []string{
		gEstimate,
		gAdvanced,
	}
)

var (
	conf config.Config
	api  backend
)

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "gluco.json"
	}
	return filepath.Join(dir, "gluco", "config.json")
}

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

// setupBackend loads the config file and picks where estimates are computed.
func setupBackend() error {
	var err error
	conf, err = config.NewFile(configPath)
	if err != nil {
		return err
	}

	if displayUnit == "" {
		displayUnit = conf.Unit()
	}
	u, ok := units.ValidUnit(displayUnit)
	if !ok {
		return fmt.Errorf("%w: %q", units.ErrInvalidUnit, displayUnit)
	}
	displayUnit = u

	if !remote {
		api = newLocalBackend(conf)
		return nil
	}

	api = daemonClient()
	logrus.WithField("remote", true).Debug("using daemon backend")

	return nil
}

func handleCmdError(err error) {
	if errors.Is(err, client.ErrDaemonNotRunning) {
		fmt.Fprintln(os.Stderr, "\nError: gluco daemon is not running")
		fmt.Fprintln(os.Stderr, "Start it with 'gluco daemon', or drop '--remote' to compute locally.")
	} else if errors.Is(err, client.ErrPermissionDenied) {
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Try running the command again as the daemon's user")
		fmt.Fprintln(os.Stderr, "  - Or restart the daemon with the '--allow-non-root-access' flag")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gluco",
		Short: "gluco estimates blood glucose from SpO2 and PPG readings",
		Long: `gluco estimates blood glucose from SpO2 and PPG readings.

Estimates are heuristic and are not suitable for medical use.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := setupLogger(); err != nil {
				return err
			}
			return setupBackend()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", defaultConfigPath(), "config file path")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", filepath.Join(os.TempDir(), "gluco.sock"), "gluco daemon unix socket path")
	globalFlags.StringVar(&listenAddr, "listen", "", "daemon TCP address (host:port), used instead of the unix socket when set")
	globalFlags.BoolVar(&remote, "remote", false, "send requests to the gluco daemon instead of computing locally")
	globalFlags.StringVar(&displayUnit, "unit", "", "display unit, mg/dL or mmol/L (default from config)")
	globalFlags.BoolVar(&jsonOutput, "json", false, "print machine-readable JSON (glucose always in mg/dL)")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewVersionCommand(),
		NewSpO2Command(),
		NewPPGCommand(),
		NewCalibrateCommand(),
		NewCombinedCommand(),
		NewDemoCommand(),
		NewDaemonCommand(),
		NewWatchCommand(),
		NewReportCommand(),
		NewConfigCommand(),
	)

	return cmd
}
