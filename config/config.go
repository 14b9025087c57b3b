package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

// AssistantConfig holds generation-side tunables. The continuation markers and
// the reply budget are deliberately plain config values: the generator is
// prompted to emit the continue marker when it runs out of room, and the
// accumulator chains follow-up calls until the done marker or the budget.
type AssistantConfig struct {
	ContinueMarker string `toml:"continue_marker"`
	DoneMarker     string `toml:"done_marker"`
	ContinuePrompt string `toml:"continue_prompt"`
	MaxReplyChars  int    `toml:"max_reply_chars"`
}

type ProviderEntry struct {
	ID           string `toml:"id"`
	Enabled      bool   `toml:"enabled"`
	BaseURL      string `toml:"base_url"`
	DefaultModel string `toml:"default_model"`
}

type UserConfig struct {
	DefaultProvider     string          `toml:"default_provider"`
	DefaultSystemPrompt string          `toml:"default_system_prompt,omitempty"`
	Security            SecurityConfig  `toml:"security"`
	Assistant           AssistantConfig `toml:"assistant"`
	Providers           []ProviderEntry `toml:"providers"`
}

type SecurityConfig struct {
	Method SecurityMethod `toml:"method"`
}

type Config struct {
	DataDirectory       string
	DefaultProvider     string
	DefaultSystemPrompt string
	Assistant           AssistantConfig
	Providers           []ProviderEntry
	CredentialStore     *CredentialStore
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// ProviderEntryByID returns the config entry for a provider, or nil.
func (c *Config) ProviderEntryByID(id string) *ProviderEntry {
	for i := range c.Providers {
		if c.Providers[i].ID == id {
			return &c.Providers[i]
		}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("PECHA_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if provider := os.Getenv("PECHA_PROVIDER"); provider != "" {
		c.DefaultProvider = provider
	}
	if model := os.Getenv("PECHA_MODEL"); model != "" {
		if entry := c.ProviderEntryByID(c.DefaultProvider); entry != nil {
			entry.DefaultModel = model
		}
	}
}

func CheckDebug() bool {
	debug := os.Getenv("PECHA_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - the log may contain conversation fragments
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	Debug = true
	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (PECHA_DEBUG=%s) ===", os.Getenv("PECHA_DEBUG"))
}

// Debugf writes to the debug log when it is enabled. A no-op otherwise, so
// error paths can log unconditionally without caring whether PECHA_DEBUG is
// set or the log file failed to open.
func Debugf(format string, args ...any) {
	if DebugLog != nil {
		DebugLog.Printf(format, args...)
	}
}

func HasAllEnvVars() bool {
	return os.Getenv("PECHA_DATA_DIR") != "" &&
		os.Getenv("PECHA_PROVIDER") != "" &&
		os.Getenv("PECHA_MODEL") != ""
}

func HasAnyEnvVar() bool {
	return os.Getenv("PECHA_DATA_DIR") != "" ||
		os.Getenv("PECHA_PROVIDER") != "" ||
		os.Getenv("PECHA_MODEL") != ""
}

func GetMissingEnvVar() string {
	if os.Getenv("PECHA_DATA_DIR") == "" {
		return "PECHA_DATA_DIR"
	}
	if os.Getenv("PECHA_PROVIDER") == "" {
		return "PECHA_PROVIDER"
	}
	if os.Getenv("PECHA_MODEL") == "" {
		return "PECHA_MODEL"
	}
	return ""
}

// Load reads the system config (which locates the data directory), then the
// user config inside the data directory, then applies env overrides. Missing
// files fall back to defaults rather than failing: a fresh install works with
// zero configuration.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	settingsPath := GetSettingsFilePath()
	if FileExists(settingsPath) {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		if systemCfg.DataDirectory != "" {
			cfg.DataDirectory = systemCfg.DataDirectory
		}
	}

	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.mergeUserConfig(userCfg)

	// Env overrides win over the user config as well
	cfg.applyEnvOverrides()

	store := NewCredentialStore(userCfg.Security.Method)
	// An encrypted store stays locked until the UI collects the passphrase;
	// loading it here would fail before the user had a chance to enter one.
	if !store.NeedsPassphrase(dataDir) {
		if err := store.Load(dataDir); err != nil {
			return nil, fmt.Errorf("failed to load credentials: %w", err)
		}
	}
	cfg.CredentialStore = store

	return cfg, nil
}

func (c *Config) mergeUserConfig(userCfg *UserConfig) {
	if userCfg.DefaultProvider != "" {
		c.DefaultProvider = userCfg.DefaultProvider
	}
	if userCfg.DefaultSystemPrompt != "" {
		c.DefaultSystemPrompt = userCfg.DefaultSystemPrompt
	}
	if userCfg.Assistant.ContinueMarker != "" {
		c.Assistant.ContinueMarker = userCfg.Assistant.ContinueMarker
	}
	if userCfg.Assistant.DoneMarker != "" {
		c.Assistant.DoneMarker = userCfg.Assistant.DoneMarker
	}
	if userCfg.Assistant.ContinuePrompt != "" {
		c.Assistant.ContinuePrompt = userCfg.Assistant.ContinuePrompt
	}
	if userCfg.Assistant.MaxReplyChars > 0 {
		c.Assistant.MaxReplyChars = userCfg.Assistant.MaxReplyChars
	}
	if len(userCfg.Providers) > 0 {
		c.Providers = userCfg.Providers
	}
}
