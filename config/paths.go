package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	appDirName = "tally"

	// homeEnv relocates both the config and data directories.
	homeEnv = "TALLY_HOME"
)

func getConfigDir() string {
	if home := os.Getenv(homeEnv); home != "" {
		return home
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appDirName)
}

// getDataDir returns where the sqlite database lives: XDG_DATA_HOME on
// Linux, Application Support on macOS and LocalAppData on Windows.
func getDataDir() string {
	if home := os.Getenv(homeEnv); home != "" {
		return home
	}

	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName)
		}
		return filepath.Join(home, ".local", "share", appDirName)
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appDirName)
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, appDirName)
		}
		return filepath.Join(home, "AppData", "Local", appDirName)
	default:
		return getConfigDir()
	}
}
