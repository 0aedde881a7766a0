package profile

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.bpp.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".bpp")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// LogDir returns the log directory shared by all tools.
func LogDir() string {
	return filepath.Join(BaseDir(), "logs")
}

// LogPath returns the log file for a tool, e.g. bpptui.log.
func LogPath(tool string) string {
	return filepath.Join(LogDir(), tool+".log")
}

// EnsureDir creates the base directory tree with proper permissions.
func EnsureDir() error {
	for _, d := range []string{BaseDir(), LogDir()} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
