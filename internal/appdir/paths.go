package appdir

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.macrod.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".macrod")
}

// DBPath returns the offline cache database path.
func DBPath() string {
	return filepath.Join(BaseDir(), "macrod.db")
}

// LockPath returns the daemon lock file path.
func LockPath() string {
	return filepath.Join(BaseDir(), "LOCK")
}

// LogDir returns the log directory.
func LogDir() string {
	return filepath.Join(BaseDir(), "logs")
}

// LogPath returns the daemon log file path.
func LogPath() string {
	return filepath.Join(LogDir(), "macrod.log")
}

// ConfigPath returns the config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDir creates the application directory tree with proper permissions.
func EnsureDir() error {
	dirs := []string{
		BaseDir(),
		LogDir(),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
