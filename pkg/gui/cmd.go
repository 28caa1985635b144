package gui

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battmeter/pkg/client"
	"github.com/charlie0129/battmeter/pkg/version"
)

// NewTrayCommand returns the tray command. unixSocketPath is read when the
// command runs, after flags are parsed.
func NewTrayCommand(unixSocketPath *string, groupID string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tray",
		Short:   "Show the live battery meter in the status bar",
		GroupID: groupID,
		Long: `Show the live battery meter in the status bar.

The icon is the frame rendered by the battmeter daemon, so the daemon must be running. The tray reconnects by itself if the daemon restarts.`,
		Run: func(_ *cobra.Command, _ []string) {
			logrus.WithField("version", version.Version).WithField("gitCommit", version.GitCommit).Info("battmeter tray")
			Run(client.NewClient(*unixSocketPath))
		},
	}

	return cmd
}
