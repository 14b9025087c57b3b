package model

import (
	"pecha/config"
	"pecha/storage"
	"pecha/stream"
)

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config         *config.Config
	Provider       Provider
	Providers      map[string]Provider
	SessionStorage *storage.SessionStorage
	Archive        *storage.Archive

	// Application data
	Turns          []Turn
	CurrentSession *storage.Session
	Workspace      *storage.Workspace

	// Streaming state: the session handle owns the single in-flight
	// accumulation; StreamTurnID names the assistant turn receiving it.
	Stream       *stream.Session
	StreamTurnID string
	feed         *StreamFeed

	// Runtime state (not UI)
	SessionDirty       bool
	NeedsInitialRender bool
	Quitting           bool

	Version string
}

// NewModel creates a new Model with the given configuration
func NewModel(cfg *config.Config, provider Provider, sessionStorage *storage.SessionStorage, archive *storage.Archive, lastSession *storage.Session, version string) *Model {
	var turns []Turn
	needsRender := false
	if lastSession != nil {
		turns = TurnsFromStorage(lastSession.Turns)
		needsRender = len(turns) > 0
	}

	return &Model{
		Config:             cfg,
		Provider:           provider,
		SessionStorage:     sessionStorage,
		Archive:            archive,
		Turns:              turns,
		CurrentSession:     lastSession,
		Workspace:          storage.LoadWorkspace(cfg.DataDir()),
		Stream:             stream.NewSession(),
		NeedsInitialRender: needsRender,
		Version:            version,
	}
}

// SwitchProvider makes the named provider active, if initialized
func (m *Model) SwitchProvider(id string) bool {
	p, ok := m.Providers[id]
	if !ok || p == nil {
		return false
	}
	m.Provider = p
	return true
}

// SystemPrompt returns the effective system prompt for the current session,
// with pinned project memory appended.
func (m *Model) SystemPrompt() string {
	prompt := m.Config.DefaultSystemPrompt
	if m.CurrentSession != nil && m.CurrentSession.SystemPrompt != "" {
		prompt = m.CurrentSession.SystemPrompt
	}
	return prompt + m.MemoryPromptSection()
}

// TurnsFromStorage converts persisted turns into runtime turns. Any turn that
// was mid-stream when the session was saved comes back finalized: partial
// text is kept but nothing is streaming anymore.
func TurnsFromStorage(stored []storage.Turn) []Turn {
	turns := make([]Turn, 0, len(stored))
	for _, st := range stored {
		turns = append(turns, Turn{
			ID:        st.ID,
			Role:      st.Role,
			Text:      st.Text,
			Rendered:  st.Rendered,
			Timestamp: st.Timestamp,
			History:   st.History,
			Reactions: st.Reactions,
			Grounding: citationsFromStorage(st.Grounding),
		})
	}
	return turns
}

// TurnsToStorage converts runtime turns into their persisted form. System
// turns (inline notices) are not persisted.
func TurnsToStorage(turns []Turn) []storage.Turn {
	stored := make([]storage.Turn, 0, len(turns))
	for _, t := range turns {
		if t.Role != RoleUser && t.Role != RoleAssistant {
			continue
		}
		stored = append(stored, storage.Turn{
			ID:        t.ID,
			Role:      t.Role,
			Text:      t.Text,
			Rendered:  t.Rendered,
			Timestamp: t.Timestamp,
			History:   t.History,
			Reactions: t.Reactions,
			Grounding: citationsToStorage(t.Grounding),
		})
	}
	return stored
}

func citationsFromStorage(stored []storage.Citation) []Citation {
	if len(stored) == 0 {
		return nil
	}
	cites := make([]Citation, len(stored))
	for i, c := range stored {
		cites[i] = Citation{URI: c.URI, Title: c.Title}
	}
	return cites
}

func citationsToStorage(cites []Citation) []storage.Citation {
	if len(cites) == 0 {
		return nil
	}
	stored := make([]storage.Citation, len(cites))
	for i, c := range cites {
		stored[i] = storage.Citation{URI: c.URI, Title: c.Title}
	}
	return stored
}
