// Package workspace defines the on-disk layout under ~/.chatlens.
package workspace

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.chatlens.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".chatlens")
}

// Resolve determines the active data directory using precedence:
// 1. flagOverride (--data-dir flag)
// 2. configured data_dir
// 3. ~/.chatlens
func Resolve(flagOverride, configured string) string {
	if flagOverride != "" {
		return flagOverride
	}
	if configured != "" {
		return configured
	}
	return BaseDir()
}

// DBPath returns the chatlens.db path inside dir.
func DBPath(dir string) string {
	return filepath.Join(dir, "chatlens.db")
}

// LogDir returns the log directory inside dir.
func LogDir(dir string) string {
	return filepath.Join(dir, "logs")
}

// LogPath returns the daemon log file path inside dir.
func LogPath(dir string) string {
	return filepath.Join(LogDir(dir), "chatlensd.log")
}

// IgnoreDir returns the directory for user-supplied ignore-list overrides.
func IgnoreDir(dir string) string {
	return filepath.Join(dir, "ignore")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDirs creates the workspace directory tree with owner-only
// permissions.
func EnsureDirs(dir string) error {
	for _, d := range []string{dir, LogDir(dir), IgnoreDir(dir)} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
