package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Install registers the current executable with launchd so the daemon
// starts on boot, then starts it.
func Install(configPath, socketPath string) error {
	// Get the path to the current executable
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get the path to the current executable: %w", err)
	}
	exePath, err = filepath.Abs(exePath)
	if err != nil {
		return fmt.Errorf("failed to get the absolute path to the current executable: %w", err)
	}

	err = os.Chmod(exePath, 0755)
	if err != nil {
		return fmt.Errorf("failed to chmod the current executable to 0755: %w", err)
	}

	logrus.Infof("current executable path: %s", exePath)

	tmpl := Plist(exePath, configPath, socketPath)

	logrus.Infof("writing launch daemon to /Library/LaunchDaemons")

	// mkdir -p
	err = os.MkdirAll("/Library/LaunchDaemons", 0755)
	if err != nil {
		return fmt.Errorf("failed to create /Library/LaunchDaemons: %w", err)
	}

	// an existing job is overwritten, but launchd keeps running the old one
	_, err = os.Stat(plistPath)
	if err == nil {
		logrus.Warnf("%s already exists, uninstall first if the daemon does not pick up the change", plistPath)
	}

	err = os.WriteFile(plistPath, []byte(tmpl), 0644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", plistPath, err)
	}

	// chown root:wheel
	err = os.Chown(plistPath, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to chown %s: %w", plistPath, err)
	}

	logrus.Infof("starting battmeter daemon")

	err = exec.Command(
		"/bin/launchctl",
		"load",
		plistPath,
	).Run()
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", plistPath, err)
	}

	return nil
}
