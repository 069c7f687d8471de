package config

import (
	"os"
	"path/filepath"
	"strings"
)

// GetConfigDir returns ~/.config/primordia, or $XDG_CONFIG_HOME/primordia
// when that is set.
func GetConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "primordia")
	}
	return filepath.Join(GetHomeDir(), ".config", "primordia")
}

func GetSettingsFilePath() string {
	return filepath.Join(GetConfigDir(), "settings.toml")
}

func GetHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return string(filepath.Separator)
	}
	return home
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = GetHomeDir() + path[1:]
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// EnsureDir creates path with user-only access.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0700)
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDataDirPermissions creates the data directory, or tightens an
// existing one to 0700. It holds the credential files.
func EnsureDataDirPermissions(dataDir string) error {
	info, err := os.Stat(dataDir)
	switch {
	case os.IsNotExist(err):
		return EnsureDir(dataDir)
	case err != nil:
		return err
	case info.Mode().Perm() != 0700:
		return os.Chmod(dataDir, 0700)
	}
	return nil
}
