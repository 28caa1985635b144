package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battmeter/pkg/version"
)

// annotationNeedsDaemon marks commands that talk to the daemon, so the
// version check only runs for them.
const annotationNeedsDaemon = "battmeter/needs-daemon"

func needsDaemon(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationNeedsDaemon] = "true"
	return cmd
}

func getVersion() (string, string, error) {
	daemonVersion, err := apiClient.GetVersion()
	if err != nil {
		return version.Version, "", err
	}
	return version.Version, daemonVersion, nil
}

func parseIntArg(args []string, valueName string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("invalid number of arguments")
	}

	value, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", valueName, err)
	}

	return value, nil
}

func logResponse(ret string) {
	if ret != "" {
		logrus.Infof("daemon responded: %s", ret)
	}
}

func newEnableDisableCommand(
	use, short, long string,
	set func(bool) (string, error),
) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Long:    long,
		GroupID: gAdvanced,
	}

	for _, enable := range []bool{true, false} {
		verb, title := "enable", "Enable "
		if !enable {
			verb, title = "disable", "Disable "
		}
		cmd.AddCommand(needsDaemon(&cobra.Command{
			Use:   verb,
			Short: title + use,
			RunE: func(_ *cobra.Command, _ []string) error {
				ret, err := set(enable)
				if err != nil {
					return fmt.Errorf("failed to %s %s: %w", verb, use, err)
				}
				logResponse(ret)
				logrus.Infof("successfully %sd %s", verb, use)
				return nil
			},
		}))
	}

	return cmd
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
