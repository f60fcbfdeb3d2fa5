// Package storage keeps the terminal client's settings and saved games on disk.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "starchess"

// baseDir is where per-user application data lives: XDG_DATA_HOME or
// ~/.local/share on Unix, the user config dir (Application Support,
// %AppData%) on macOS and Windows.
func baseDir() (string, error) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		return os.UserConfigDir()
	}
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}

// GetDatabaseDir creates and returns the badger directory. dataDir, usually
// STARCHESS_DATA_DIR, replaces the per-user location when set.
func GetDatabaseDir(dataDir string) (string, error) {
	if dataDir == "" {
		base, err := baseDir()
		if err != nil {
			return "", fmt.Errorf("locate data dir: %w", err)
		}
		dataDir = filepath.Join(base, appName)
	}
	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return "", err
	}
	return dbDir, nil
}
