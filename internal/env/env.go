// Package env locates depend's per-user directories.
package env

import (
	"os"
	"path/filepath"
)

const appName = "depend"

// ConfigDir returns depend's per-user configuration directory:
// $XDG_CONFIG_HOME/depend on Linux, the platform equivalent elsewhere.
func ConfigDir() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, appName), nil
}

// ConfigFile returns the path of the per-user config file. The file need
// not exist.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
