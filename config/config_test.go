package config

import (
	"log"
	"strings"
	"testing"
)

func clearPechaEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PECHA_DATA_DIR", "")
	t.Setenv("PECHA_PROVIDER", "")
	t.Setenv("PECHA_MODEL", "")
	t.Setenv("PECHA_DEBUG", "")
}

func TestEnvVarValidation(t *testing.T) {
	clearPechaEnv(t)

	if HasAnyEnvVar() {
		t.Error("no env vars set, HasAnyEnvVar must be false")
	}

	t.Setenv("PECHA_DATA_DIR", "/tmp/pecha")
	if !HasAnyEnvVar() {
		t.Error("partial env must report HasAnyEnvVar")
	}
	if HasAllEnvVars() {
		t.Error("partial env must not report HasAllEnvVars")
	}
	if got := GetMissingEnvVar(); got != "PECHA_PROVIDER" {
		t.Errorf("missing var = %q, want PECHA_PROVIDER", got)
	}

	t.Setenv("PECHA_PROVIDER", "ollama")
	if got := GetMissingEnvVar(); got != "PECHA_MODEL" {
		t.Errorf("missing var = %q, want PECHA_MODEL", got)
	}

	t.Setenv("PECHA_MODEL", "llama3.1")
	if !HasAllEnvVars() {
		t.Error("all three set, HasAllEnvVars must be true")
	}
	if got := GetMissingEnvVar(); got != "" {
		t.Errorf("missing var = %q, want empty", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	clearPechaEnv(t)
	t.Setenv("PECHA_DATA_DIR", "/custom/data")
	t.Setenv("PECHA_PROVIDER", "anthropic")
	t.Setenv("PECHA_MODEL", "claude-opus-4-1")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	if cfg.DataDirectory != "/custom/data" {
		t.Errorf("DataDirectory = %q", cfg.DataDirectory)
	}
	if cfg.DefaultProvider != "anthropic" {
		t.Errorf("DefaultProvider = %q", cfg.DefaultProvider)
	}
	entry := cfg.ProviderEntryByID("anthropic")
	if entry == nil {
		t.Fatal("anthropic entry missing from defaults")
	}
	if entry.DefaultModel != "claude-opus-4-1" {
		t.Errorf("DefaultModel = %q, PECHA_MODEL must override the active provider's model", entry.DefaultModel)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultProvider != "ollama" {
		t.Errorf("DefaultProvider = %q, only the keyless provider is enabled by default", cfg.DefaultProvider)
	}
	if cfg.Assistant.ContinueMarker != DefaultContinueMarker || cfg.Assistant.DoneMarker != DefaultDoneMarker {
		t.Error("assistant markers must carry the defaults")
	}
	if cfg.Assistant.MaxReplyChars != DefaultMaxReplyChars {
		t.Errorf("MaxReplyChars = %d", cfg.Assistant.MaxReplyChars)
	}

	enabled := 0
	for _, p := range cfg.Providers {
		if p.Enabled {
			enabled++
			if p.ID != "ollama" {
				t.Errorf("provider %s enabled by default", p.ID)
			}
		}
	}
	if enabled != 1 {
		t.Errorf("%d providers enabled by default, want 1", enabled)
	}
}

func TestProviderEntryByID(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ProviderEntryByID("openai") == nil {
		t.Error("known provider not found")
	}
	if cfg.ProviderEntryByID("nope") != nil {
		t.Error("unknown provider must return nil")
	}

	// The returned pointer aliases the config so edits stick
	cfg.ProviderEntryByID("openai").DefaultModel = "gpt-5"
	if cfg.ProviderEntryByID("openai").DefaultModel != "gpt-5" {
		t.Error("entry edits must be visible through the config")
	}
}

func TestDebugfWithoutLogger(t *testing.T) {
	saved := DebugLog
	defer func() { DebugLog = saved }()

	// Default configuration: PECHA_DEBUG unset, no logger. Error paths log
	// unconditionally, so this must be a safe no-op.
	DebugLog = nil
	Debugf("write error: %v", "disk full")

	var buf strings.Builder
	DebugLog = log.New(&buf, "", 0)
	Debugf("write error: %v", "disk full")
	if got := buf.String(); !strings.Contains(got, "write error: disk full") {
		t.Errorf("log output = %q", got)
	}
}

func TestMergeUserConfigPartial(t *testing.T) {
	cfg := DefaultConfig()
	cfg.mergeUserConfig(&UserConfig{
		DefaultProvider: "openai",
		Assistant:       AssistantConfig{MaxReplyChars: 1234},
	})

	if cfg.DefaultProvider != "openai" {
		t.Errorf("DefaultProvider = %q", cfg.DefaultProvider)
	}
	if cfg.Assistant.MaxReplyChars != 1234 {
		t.Errorf("MaxReplyChars = %d", cfg.Assistant.MaxReplyChars)
	}
	// Unset fields keep their defaults
	if cfg.Assistant.ContinueMarker != DefaultContinueMarker {
		t.Errorf("ContinueMarker = %q, must keep the default", cfg.Assistant.ContinueMarker)
	}
	if len(cfg.Providers) != len(DefaultProviders()) {
		t.Error("empty provider list must not clobber the defaults")
	}
}
