// Package xdg resolves XDG Base Directory paths for chartviz.
// Configuration lives under the config dir; rendered charts default to the
// data dir. Each directory is created with private permissions (0700) on demand.
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "chartviz"

func resolve(envVar string, fallback ...string) (string, error) {
	base := os.Getenv(envVar)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}

// ConfigDir returns the XDG config directory for chartviz.
// It falls back to ~/.config/chartviz when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for chartviz.
// It falls back to ~/.local/state/chartviz when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return resolve("XDG_STATE_HOME", ".local", "state")
}

// DataDir returns the XDG data directory for chartviz.
// It falls back to ~/.local/share/chartviz when XDG_DATA_HOME is unset.
func DataDir() (string, error) {
	return resolve("XDG_DATA_HOME", ".local", "share")
}
