package provider

import (
	"pecha/config"
	"pecha/model"
)

// InitializeProviders creates all provider instances for the application.
//
// It walks the enabled provider entries in config, pulls API keys from the
// credential store, and builds each provider through the factory. A provider
// that fails to initialize is logged and skipped, never fatal: the app still
// starts with whatever backends are usable, possibly none.
//
// The returned map is keyed by provider ID ("ollama", "openai", "anthropic").
func InitializeProviders(cfg *config.Config) map[string]model.Provider {
	providers := make(map[string]model.Provider)

	for _, entry := range cfg.Providers {
		if !entry.Enabled {
			continue
		}

		apiKey := ""
		if cfg.CredentialStore != nil {
			apiKey = cfg.CredentialStore.Get(entry.ID)
		}

		p, err := NewProvider(Config{
			Type:    MapProviderIDToType(entry.ID),
			BaseURL: entry.BaseURL,
			APIKey:  apiKey,
			Model:   entry.DefaultModel,
		})
		if err != nil {
			config.Debugf("[Provider] failed to initialize %s: %v", entry.ID, err)
			continue
		}

		providers[entry.ID] = p
		config.Debugf("[Provider] initialized %s", entry.ID)
	}

	return providers
}
