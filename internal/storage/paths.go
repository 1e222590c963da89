// Package storage persists finished matches and their aggregate statistics.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName    = "chessduel"
	dataDirEnv = "CHESSDUEL_DATA_DIR" // Overrides the platform directory
)

// GetDataDir returns the application data directory, creating it if needed.
// CHESSDUEL_DATA_DIR wins; otherwise macOS and Windows use the user config
// directory and other systems $XDG_DATA_HOME or ~/.local/share.
func GetDataDir() (string, error) {
	dir := os.Getenv(dataDirEnv)
	if dir == "" {
		base, err := platformDataDir()
		if err != nil {
			return "", fmt.Errorf("storage: locate data dir: %w", err)
		}
		dir = filepath.Join(base, appName)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("storage: create %s: %w", dir, err)
	}
	return dir, nil
}

func platformDataDir() (string, error) {
	switch runtime.GOOS {
	case "darwin", "windows":
		return os.UserConfigDir()
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return xdg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}

// GetDatabaseDir returns the match database directory inside the data directory.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "matches"), nil
}
