package main

import (
	"errors"
	"fmt"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/battmeter/pkg/client"
	"github.com/charlie0129/battmeter/pkg/gui"
)

var (
	logLevel       = "info"
	unixSocketPath = "/var/run/battmeter.sock"
	configPath     = "/etc/battmeter.json"
)

var (
	gMeter        = "Meter:"
	gDemo         = "Demo:"
	gAdvanced     = "Advanced:"
	gInstallation = "Installation:"
	commandGroups = []string{
		gMeter,
		gDemo,
		gAdvanced,
		gInstallation,
	}
)

var apiClient = client.NewClient(unixSocketPath)

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

func handleCmdError(err error) {
	if errors.Is(err, client.ErrDaemonNotRunning) {
		fmt.Fprintln(os.Stderr, "\nError: battmeter daemon is not running")
		fmt.Fprintln(os.Stderr, "Is the daemon running? Have you installed it?")
	} else if errors.Is(err, client.ErrPermissionDenied) {
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Try running the command again with 'sudo'")
		fmt.Fprintln(os.Stderr, "  - Or reinstall the daemon with the '--allow-non-root-access' flag to grant permissions to your user")
	}
}

func main() {
	// Rendering a few frames per second needs little.
	if os.Getenv("GOMAXPROCS") == "" {
		runtime.GOMAXPROCS(2)
	}

	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "battmeter",
		Short: "battmeter draws the battery level as an icon",
		Long: `battmeter draws the battery level as an icon.

It renders a portrait or landscape battery icon, or a ring, from the battery state of this machine. Run the daemon to serve the live icon to the tray and other clients, or render single frames locally.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			err := setupLogger()
			if err != nil {
				return err
			}

			// the socket flag is only known after parsing
			apiClient = client.NewClient(unixSocketPath)

			if cmd.Annotations[annotationNeedsDaemon] == "" {
				return nil
			}
			if clientVersion, daemonVersion, err := getVersion(); err == nil {
				if daemonVersion != clientVersion {
					logrus.WithFields(logrus.Fields{
						"clientVersion": clientVersion,
						"daemonVersion": daemonVersion,
					}).Warn("Version mismatch between client and daemon. Restart the daemon after upgrading so both are the same version.")
				}
			} else if errors.Is(err, client.ErrNotFound) {
				logrus.Error("battmeter daemon is too old to report its version. Restart the daemon after upgrading.")
			}

			return nil
		},
	}

	if os.Getenv("BATTMETER_RUN_TRAY") != "" || path.Base(os.Args[0]) == "battmeter-tray" {
		cmd.Run = func(_ *cobra.Command, _ []string) {
			gui.Run(client.NewClient(unixSocketPath))
		}
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "battmeter daemon unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewDaemonCommand(),
		NewVersionCommand(),
		NewStatusCommand(),
		NewRenderCommand(),
		NewPreviewCommand(),
		NewStyleCommand(),
		NewColorsCommand(),
		NewLevelsCommand(),
		NewSizeCommand(),
		NewCircleDotsCommand(),
		NewPollScheduleCommand(),
		NewShowPercentCommand(),
		NewCutOutTextCommand(),
		NewChargeAnimationCommand(),
		NewPowerSaveCommand(),
		NewShow100PercentCommand(),
		NewDemoCommand(),
		NewLevelTestCommand(),
		NewInstallCommand(),
		NewUninstallCommand(),
		gui.NewTrayCommand(&unixSocketPath, gMeter),
	)

	return cmd
}
