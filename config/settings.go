package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// userConfigPath returns the path to the user config inside the data directory
func userConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "pecha.toml")
}

// LoadSystemConfig reads settings.toml from the config directory.
// A missing file yields the default data directory, not an error.
func LoadSystemConfig() (*SystemConfig, error) {
	cfg := &SystemConfig{DataDirectory: "~/.local/share/pecha"}

	path := GetSettingsFilePath()
	if !FileExists(path) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// SaveSystemConfig writes settings.toml to the config directory
func SaveSystemConfig(cfg *SystemConfig) error {
	if err := EnsureDir(GetConfigDir()); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(GetSettingsFilePath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open settings file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return nil
}

// LoadUserConfig reads pecha.toml from the data directory. A missing or
// unreadable file falls back to defaults so a damaged config never blocks
// startup; parse errors on an existing file are surfaced.
func LoadUserConfig(dataDir string) (*UserConfig, error) {
	cfg := &UserConfig{
		DefaultProvider: "ollama",
		Security:        SecurityConfig{Method: SecurityPlainText},
	}

	path := userConfigPath(dataDir)
	if !FileExists(path) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Security.Method == "" {
		cfg.Security.Method = SecurityPlainText
	}
	return cfg, nil
}

// SaveUserConfig writes pecha.toml into the data directory (0600 - contains
// provider endpoints and the security method).
func SaveUserConfig(dataDir string, cfg *UserConfig) error {
	if err := EnsureDir(dataDir); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	f, err := os.OpenFile(userConfigPath(dataDir), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open user config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode user config: %w", err)
	}
	return nil
}

// UserConfigFromConfig converts a runtime Config back into the on-disk form.
func UserConfigFromConfig(c *Config) *UserConfig {
	method := SecurityPlainText
	if c.CredentialStore != nil {
		method = c.CredentialStore.GetMethod()
	}
	return &UserConfig{
		DefaultProvider:     c.DefaultProvider,
		DefaultSystemPrompt: c.DefaultSystemPrompt,
		Security:            SecurityConfig{Method: method},
		Assistant:           c.Assistant,
		Providers:           c.Providers,
	}
}
