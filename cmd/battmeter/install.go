package main

import (
	"fmt"
	"os"
	"runtime"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battmeter/pkg/config"
	daemonutils "github.com/charlie0129/battmeter/pkg/utils/daemon"
)

func requireDarwin() error {
	if runtime.GOOS != "darwin" {
		return fmt.Errorf("installing the daemon needs launchd, which is only available on macOS; run \"battmeter daemon\" from your own service manager instead")
	}
	return nil
}

// NewInstallCommand .
func NewInstallCommand() *cobra.Command {
	allowNonRootAccess := false

	cmd := &cobra.Command{
		Use:     "install",
		Short:   "Install battmeter daemon (system-wide)",
		GroupID: gInstallation,
		Long: `Install battmeter daemon to launchd (system-wide).

This makes the daemon run in the background and automatically start on boot. You must run this command as root.

By default, only root user is allowed to access the daemon. If you want to allow non-root users, i.e., you, to change the meter without sudo, use the --allow-non-root-access flag.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireDarwin(); err != nil {
				return err
			}

			conf, err := config.NewFile(configPath)
			if err != nil {
				return err
			}

			conf.SetAllowNonRootAccess(allowNonRootAccess)
			if allowNonRootAccess {
				logrus.Info("non-root users are allowed to access the battmeter daemon.")
			} else {
				logrus.Info("only root user is allowed to access the battmeter daemon.")
			}

			// the daemon reads the config when it starts
			err = conf.Save()
			if err != nil {
				return pkgerrors.Wrapf(err, "failed to save config")
			}

			err = daemonutils.Install(configPath, unixSocketPath)
			if err != nil {
				// check if current user is root
				if os.Geteuid() != 0 {
					logrus.Errorf("you must run this command as root")
				}
				return fmt.Errorf("failed to install daemon: %v. Are you root?", err)
			}

			logrus.Infof("installation succeeded")

			exePath, _ := os.Executable()

			cmd.Printf("`launchd' will use current binary (%s) at startup so please make sure you do not move this binary. Once this binary is moved or deleted, you will need to run ``battmeter install'' again.\n", exePath)

			return nil
		},
	}

	cmd.Flags().BoolVar(&allowNonRootAccess, "allow-non-root-access", false, "Allow non-root users to access battmeter daemon.")

	return cmd
}

// NewUninstallCommand .
func NewUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall",
		Short:   "Uninstall battmeter daemon (system-wide)",
		GroupID: gInstallation,
		Long: `Uninstall battmeter daemon from launchd (system-wide).

This stops the daemon and removes it from launchd.

You must run this command as root.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireDarwin(); err != nil {
				return err
			}

			err := daemonutils.Uninstall()
			if err != nil {
				// check if current user is root
				if os.Geteuid() != 0 {
					logrus.Errorf("you must run this command as root")
				}
				return fmt.Errorf("failed to uninstall daemon: %v", err)
			}

			fmt.Println("successfully uninstalled")

			cmd.Printf("Your config is kept in %s, in case you want to use `battmeter' again. If you want a complete uninstall, you can remove both config file and battmeter itself manually.\n", configPath)

			return nil
		},
	}
}
