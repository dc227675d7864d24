package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GetConfigDir returns the path to the toolagent configuration directory.
// The directory is located inside the user's configuration directory
// as <UserConfigDir>/toolagent, unless overridden by TOOLAGENT_CONFIG_HOME.
func GetConfigDir() (string, error) {
	if configHome := os.Getenv("TOOLAGENT_CONFIG_HOME"); configHome != "" {
		return configHome, nil
	}
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(cfg, "toolagent"), nil
}

// ExpandUserPath resolves a leading '~' to the home directory of the current user.
func ExpandUserPath(p string) (string, error) {
	if p == "" || p[0] != '~' {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	if p == "~" {
		return home, nil
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:]), nil
	}
	// Don't attempt to expand ~user paths.
	return p, nil
}
