package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "snaptile"

// StateDir returns the directory for snaptile logs. Priority:
// 1) XDG_STATE_HOME/snaptile (if set)
// 2) %LocalAppData%\snaptile on Windows, ~/.local/state/snaptile elsewhere
// 3) <temp>/snaptile-state-<uid> (created)
func StateDir() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return ensure(filepath.Join(stateHome, appName))
	}

	if runtime.GOOS == "windows" {
		if local := os.Getenv("LocalAppData"); local != "" {
			return ensure(filepath.Join(local, appName))
		}
	} else if home, err := os.UserHomeDir(); err == nil && home != "" {
		return ensure(filepath.Join(home, ".local", "state", appName))
	}

	return ensure(filepath.Join(os.TempDir(), fmt.Sprintf("%s-state-%d", appName, os.Getuid())))
}

// ConfigDir returns the directory holding config.yaml. It is not created.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// ConfigPath returns the default config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LogPath returns the default log file path.
func LogPath() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".log"), nil
}

func ensure(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create state dir: %w", err)
	}
	return dir, nil
}
