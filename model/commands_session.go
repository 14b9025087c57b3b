package model

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"pecha/config"
	"pecha/storage"
)

// FetchSessionList loads session metadata for the session manager
func (m *Model) FetchSessionList() tea.Cmd {
	storageRef := m.SessionStorage
	return func() tea.Msg {
		sessions, err := storageRef.List()
		return SessionsListMsg{Sessions: sessions, Err: err}
	}
}

// LoadSession loads a session by ID
func (m *Model) LoadSession(id string) tea.Cmd {
	storageRef := m.SessionStorage
	return func() tea.Msg {
		session, err := storageRef.Load(id)
		return SessionLoadedMsg{Session: session, Err: err}
	}
}

// ApplyLoadedSession installs a loaded session as the active conversation
func (m *Model) ApplyLoadedSession(session *storage.Session) {
	m.CurrentSession = session
	m.Turns = TurnsFromStorage(session.Turns)
	m.SessionDirty = false
	m.NeedsInitialRender = len(m.Turns) > 0
	if p, ok := m.Providers[session.Provider]; ok && p != nil {
		m.Provider = p
		if session.Model != "" {
			p.SetModel(session.Model)
		}
	}
	if err := m.SessionStorage.SaveCurrentSessionID(session.ID); err != nil {
		config.Debugf("failed to record current session: %v", err)
	}
}

// SaveCurrentSession persists the active conversation and reindexes it for
// cross-session search. Creates the session record on first save, naming it
// after the first user turn.
func (m *Model) SaveCurrentSession() tea.Cmd {
	if len(TurnsToStorage(m.Turns)) == 0 {
		return nil
	}
	m.syncSessionRecord()

	session := m.CurrentSession
	storageRef := m.SessionStorage
	archive := m.Archive
	return func() tea.Msg {
		if err := storageRef.Save(session); err != nil {
			return SessionSavedMsg{Err: err}
		}
		if err := storageRef.SaveCurrentSessionID(session.ID); err != nil {
			config.Debugf("failed to record current session: %v", err)
		}
		if archive != nil {
			if err := archive.IndexSession(session); err != nil {
				config.Debugf("failed to index session %s: %v", session.ID, err)
			}
		}
		return SessionSavedMsg{}
	}
}

// AutoSaveSession saves silently after a turn completes. Unlike an explicit
// save it does nothing for an empty transcript and reports errors only to the
// debug log.
func (m *Model) AutoSaveSession() tea.Cmd {
	cmd := m.SaveCurrentSession()
	if cmd == nil {
		return nil
	}
	m.SessionDirty = false
	return func() tea.Msg {
		msg := cmd()
		if saved, ok := msg.(SessionSavedMsg); ok && saved.Err != nil {
			config.Debugf("autosave failed: %v", saved.Err)
		}
		return msg
	}
}

// syncSessionRecord mirrors runtime state into the session record, creating
// it if this conversation has never been saved.
func (m *Model) syncSessionRecord() {
	now := time.Now()
	if m.CurrentSession == nil {
		m.CurrentSession = &storage.Session{
			ID:        uuid.New().String(),
			CreatedAt: now,
		}
	}
	s := m.CurrentSession
	s.Turns = TurnsToStorage(m.Turns)
	s.UpdatedAt = now
	s.Provider = m.providerID()
	if m.Provider != nil {
		s.Model = m.Provider.GetModel()
	}
	if s.Name == "" {
		for _, t := range s.Turns {
			if t.Role == RoleUser {
				s.Name = storage.GenerateSessionName(t.Text)
				break
			}
		}
	}
}

func (m *Model) providerID() string {
	for id, p := range m.Providers {
		if p == m.Provider {
			return id
		}
	}
	return m.Config.DefaultProvider
}

// RenameSessionCmd renames a stored session
func (m *Model) RenameSessionCmd(id, newName string) tea.Cmd {
	storageRef := m.SessionStorage
	if m.CurrentSession != nil && m.CurrentSession.ID == id {
		m.CurrentSession.Name = newName
	}
	return func() tea.Msg {
		if err := storageRef.RenameSession(id, newName); err != nil {
			return SessionSavedMsg{Err: err}
		}
		sessions, err := storageRef.List()
		return SessionsListMsg{Sessions: sessions, Err: err}
	}
}

// DeleteSessionCmd deletes a stored session and its search index entries
func (m *Model) DeleteSessionCmd(id string) tea.Cmd {
	storageRef := m.SessionStorage
	archive := m.Archive
	return func() tea.Msg {
		if err := storageRef.Delete(id); err != nil {
			return SessionDeletedMsg{ID: id, Err: err}
		}
		if archive != nil {
			if err := archive.RemoveSession(id); err != nil {
				config.Debugf("failed to unindex session %s: %v", id, err)
			}
		}
		return SessionDeletedMsg{ID: id}
	}
}

// ExportSessionCmd writes the active conversation as indented JSON to path
func (m *Model) ExportSessionCmd(path string) tea.Cmd {
	m.syncSessionRecord()
	session := m.CurrentSession
	return func() tea.Msg {
		expanded := config.ExpandPath(path)
		data, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			return SessionExportedMsg{Err: err}
		}
		if err := os.WriteFile(expanded, data, 0600); err != nil {
			return SessionExportedMsg{Err: err}
		}
		return SessionExportedMsg{Path: expanded}
	}
}

// ImportSessionCmd reads an exported session file and stores it under a fresh
// ID so an import never clobbers an existing session.
func (m *Model) ImportSessionCmd(path string) tea.Cmd {
	storageRef := m.SessionStorage
	archive := m.Archive
	return func() tea.Msg {
		data, err := os.ReadFile(config.ExpandPath(path))
		if err != nil {
			return SessionImportedMsg{Err: err}
		}
		var session storage.Session
		if err := json.Unmarshal(data, &session); err != nil {
			return SessionImportedMsg{Err: fmt.Errorf("not a session export: %w", err)}
		}
		session.ID = uuid.New().String()
		session.UpdatedAt = time.Now()
		if session.Name == "" {
			session.Name = "Imported session"
		}
		if err := storageRef.Save(&session); err != nil {
			return SessionImportedMsg{Err: err}
		}
		if archive != nil {
			if err := archive.IndexSession(&session); err != nil {
				config.Debugf("failed to index imported session: %v", err)
			}
		}
		return SessionImportedMsg{Session: &session}
	}
}

// ResetConversation abandons the active conversation: cancels any in-flight
// reply and starts an empty transcript under a new session record.
func (m *Model) ResetConversation() {
	m.CancelStream()
	m.Turns = nil
	m.CurrentSession = nil
	m.SessionDirty = false
	if err := m.SessionStorage.SaveCurrentSessionID(""); err != nil {
		config.Debugf("failed to clear current session: %v", err)
	}
}

// SearchArchive searches all stored sessions by substring
func (m *Model) SearchArchive(query string) tea.Cmd {
	archive := m.Archive
	return func() tea.Msg {
		if archive == nil {
			return GlobalSearchResultsMsg{Query: query}
		}
		matches, err := archive.Search(query)
		return GlobalSearchResultsMsg{Query: query, Matches: matches, Err: err}
	}
}

// FetchModels lists models from the active provider
func (m *Model) FetchModels() tea.Cmd {
	prov := m.Provider
	return func() tea.Msg {
		ctx, cancel := contextWithListTimeout()
		defer cancel()
		models, err := prov.ListModels(ctx)
		return ModelsListMsg{Models: models, Err: err}
	}
}

// PersistWorkspace saves panel geometry, font scale and project memory
func (m *Model) PersistWorkspace() tea.Cmd {
	dataDir := m.Config.DataDir()
	ws := m.Workspace
	return func() tea.Msg {
		return WorkspaceSavedMsg{Err: storage.SaveWorkspace(dataDir, ws)}
	}
}
