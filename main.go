package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pecha/config"
	"pecha/storage"
	"pecha/ui"
)

const (
	Version = "v0.1.0"
	License = "Apache-2.0"
)

func main() {
	// Validate environment variables first
	if config.HasAnyEnvVar() && !config.HasAllEnvVars() {
		missingVar := config.GetMissingEnvVar()
		errorMsg := fmt.Sprintf("Missing environment variable: %s\n\n"+
			"When using environment variables, all 3 must be set:\n"+
			"  • PECHA_DATA_DIR\n"+
			"  • PECHA_PROVIDER\n"+
			"  • PECHA_MODEL\n\n"+
			"Set the missing variable(s) before launching pecha.",
			missingVar)

		errorModal := ui.NewErrorModal("Configuration Error", errorMsg)
		p := tea.NewProgram(
			errorModal,
			tea.WithAltScreen(),
		)

		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	// Clean up old tmp dir in cache directory (crash recovery)
	if err := config.CleanupTempDir(); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("Warning: failed to cleanup old temp directory: %v", err)
	}

	// Create secure temp directory in cache (never synced to cloud)
	if err := config.CreateTempDir(); err != nil {
		fmt.Printf("Failed to create secure temp directory: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := config.CleanupTempDir(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to cleanup temp directory on exit: %v", err)
		}
	}()

	sessionStorage, err := storage.NewSessionStorage(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to initialize session storage: %v\n", err)
		os.Exit(1)
	}

	archive, err := storage.NewArchive(cfg.DataDir())
	if err != nil {
		// Cross-session search degrades to off; everything else still works
		if config.DebugLog != nil {
			config.DebugLog.Printf("Warning: search archive unavailable: %v", err)
		}
		archive = nil
	}
	defer func() {
		if archive != nil {
			if err := archive.Close(); err != nil && config.DebugLog != nil {
				config.DebugLog.Printf("Warning: failed to close archive: %v", err)
			}
		}
	}()

	lastSession := sessionStorage.LoadLastSession()

	p := tea.NewProgram(
		ui.NewAppView(cfg, sessionStorage, archive, lastSession, Version),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running pecha: %v\n", err)
		os.Exit(1)
	}
}
