package daemon

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// Uninstall stops the daemon and removes its launchd job.
func Uninstall() error {
	logrus.Infof("stopping battmeter daemon")

	err := exec.Command(
		"/bin/launchctl",
		"unload",
		plistPath,
	).Run()
	if err != nil {
		return fmt.Errorf("failed to unload %s: %w. Are you root?", plistPath, err)
	}

	logrus.Infof("removing launch daemon")

	// if the file doesn't exist, we don't need to remove it
	_, err = os.Stat(plistPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", plistPath, err)
	}

	err = os.Remove(plistPath)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w. Are you root?", plistPath, err)
	}

	return nil
}
