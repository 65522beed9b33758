package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "solmon"

// userDir resolves a per-user base directory and appends appName. On
// Windows it reads winEnv, falling back to %USERPROFILE%\winFallback...;
// elsewhere it reads xdgEnv, falling back to ~/xdgFallback....
func userDir(winEnv string, winFallback []string, xdgEnv string, xdgFallback []string) (string, error) {
	env, fallback := xdgEnv, xdgFallback
	if runtime.GOOS == "windows" {
		env, fallback = winEnv, winFallback
	}
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}

	var home string
	if runtime.GOOS == "windows" {
		home = os.Getenv("USERPROFILE")
	} else {
		h, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		home = h
	}
	parts := append([]string{home}, fallback...)
	return filepath.Join(append(parts, appName)...), nil
}

// GetConfigDir returns $XDG_CONFIG_HOME/solmon (default ~/.config/solmon),
// or %APPDATA%\solmon on Windows.
func GetConfigDir() (string, error) {
	return userDir("APPDATA", []string{"AppData", "Roaming"}, "XDG_CONFIG_HOME", []string{".config"})
}

// GetDataDir returns $XDG_DATA_HOME/solmon (default ~/.local/share/solmon),
// or %LOCALAPPDATA%\solmon on Windows.
func GetDataDir() (string, error) {
	return userDir("LOCALAPPDATA", []string{"AppData", "Local"}, "XDG_DATA_HOME", []string{".local", "share"})
}

func inConfigDir(name string) (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// GetConfigPath returns the path to the main TOML config file.
func GetConfigPath() (string, error) {
	return inConfigDir("config.toml")
}

// GetLayoutPath returns the path to the chart layout file.
func GetLayoutPath() (string, error) {
	return inConfigDir("charts.toml")
}

// GetCredentialStorePath returns the path to the encrypted credential store.
func GetCredentialStorePath() (string, error) {
	return inConfigDir("credentials.enc")
}

// GetLogPath returns the log file path. The TUI owns the terminal, so
// logs go to the data directory instead of stdout.
func GetLogPath() (string, error) {
	dir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".log"), nil
}

// EnsureDirs creates the config and data directories.
func EnsureDirs() error {
	for _, fn := range []func() (string, error){GetConfigDir, GetDataDir} {
		dir, err := fn()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	return nil
}
