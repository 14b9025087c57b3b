package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// GetConfigDir returns the platform-specific configuration directory
// Linux/Mac: ~/.config/pecha
// Windows: C:\Users\username\.config\pecha
func GetConfigDir() string {
	if runtime.GOOS == "windows" {
		userProfile := os.Getenv("USERPROFILE")
		return filepath.Join(userProfile, ".config", "pecha")
	}

	home := os.Getenv("HOME")
	return filepath.Join(home, ".config", "pecha")
}

// GetDefaultDataDir returns the platform-specific default data directory
// Linux/Mac: ~/.local/share/pecha
// Windows: C:\Users\username\AppData\Local\pecha
func GetDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			localAppData = filepath.Join(userProfile, "AppData", "Local")
		}
		return filepath.Join(localAppData, "pecha")
	}

	home := os.Getenv("HOME")
	return filepath.Join(home, ".local", "share", "pecha")
}

// GetCacheDir returns the platform-specific cache directory.
// Temporary files (speech output, editor buffers) live here, never in the
// data directory, so they are not picked up by cloud sync.
func GetCacheDir() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			localAppData = filepath.Join(userProfile, "AppData", "Local")
		}
		return filepath.Join(localAppData, "pecha")
	}

	home := os.Getenv("HOME")
	return filepath.Join(home, ".cache", "pecha")
}

// GetSettingsFilePath returns the path to settings.toml
func GetSettingsFilePath() string {
	return filepath.Join(GetConfigDir(), "settings.toml")
}

// GetHomeDir returns the user's home directory across platforms
func GetHomeDir() string {
	if runtime.GOOS == "windows" {
		home := os.Getenv("USERPROFILE")
		if home == "" {
			home = os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
		}
		if home == "" {
			home = "C:\\"
		}
		return home
	}
	home := os.Getenv("HOME")
	if home == "" {
		home = "/"
	}
	return home
}

// ExpandPath expands ~ and environment variables in a path
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home := GetHomeDir()
		path = filepath.Join(home, path[2:])
	}

	path = os.ExpandEnv(path)

	return filepath.Clean(path)
}

// EnsureDir creates a directory if it doesn't exist (0700 - user-only access)
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0700)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// NormalizeDataDirectory normalizes a data directory path by ensuring it ends
// with /pecha or uses an existing pecha/ subfolder if present
func NormalizeDataDirectory(input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("data directory path cannot be empty")
	}

	expanded := ExpandPath(input)

	if filepath.Base(expanded) == "pecha" {
		return expanded, nil
	}

	pechaPath := filepath.Join(expanded, "pecha")
	if _, err := os.Stat(pechaPath); err == nil {
		return pechaPath, nil
	}

	// No pecha/ subfolder yet - it will be created later
	return pechaPath, nil
}

// GetTempDir returns the path to the secure temp directory.
// Always the cache directory, never the data directory.
func GetTempDir() string {
	return filepath.Join(GetCacheDir(), "tmp")
}

// GetSpeechFilePath returns the path where synthesized speech audio is written
func GetSpeechFilePath() string {
	return filepath.Join(GetTempDir(), "speech.wav")
}

// EnsureDataDirPermissions ensures data directory has 0700 permissions
func EnsureDataDirPermissions(dataDir string) error {
	info, err := os.Stat(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(dataDir, 0700)
		}
		return err
	}

	currentPerms := info.Mode().Perm()
	if currentPerms != 0700 {
		return os.Chmod(dataDir, 0700)
	}
	return nil
}

// CleanupTempDir removes the temp directory if it exists
func CleanupTempDir() error {
	tmpDir := GetTempDir()
	if _, err := os.Stat(tmpDir); err == nil {
		return os.RemoveAll(tmpDir)
	}
	return nil
}

// CreateTempDir creates the secure temp directory with 0700 permissions
func CreateTempDir() error {
	return os.MkdirAll(GetTempDir(), 0700)
}
