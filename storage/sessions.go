package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Citation is a persisted source reference attached to an assistant turn.
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// Turn represents one persisted conversational turn.
type Turn struct {
	ID        string         `json:"id"`
	Role      string         `json:"role"`
	Text      string         `json:"text"`
	Rendered  string         `json:"rendered,omitempty"` // Cached markdown rendering
	Timestamp time.Time      `json:"timestamp"`
	History   []string       `json:"history,omitempty"`   // Superseded text versions, oldest first
	Reactions map[string]int `json:"reactions,omitempty"` // label -> count
	Grounding []Citation     `json:"grounding,omitempty"`
}

// Session represents a chat session
type Session struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Provider     string    `json:"provider,omitempty"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Turns        []Turn    `json:"turns"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
}

// SessionMetadata is a lightweight version of Session for listing
type SessionMetadata struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Provider     string    `json:"provider,omitempty"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	TurnCount    int       `json:"turn_count"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
}

// SessionStorage handles session persistence as one JSON file per session
type SessionStorage struct {
	sessionsDir string
	dataDir     string
}

// NewSessionStorage creates a new session storage
func NewSessionStorage(dataDir string) (*SessionStorage, error) {
	sessionsDir := filepath.Join(dataDir, "sessions")

	// 0700 - sessions contain conversation history
	if err := os.MkdirAll(sessionsDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	return &SessionStorage{
		sessionsDir: sessionsDir,
		dataDir:     dataDir,
	}, nil
}

// Save saves a session to disk
func (s *SessionStorage) Save(session *Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	session.UpdatedAt = time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.UpdatedAt
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	path := filepath.Join(s.sessionsDir, session.ID+".json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load loads a session from disk
func (s *SessionStorage) Load(id string) (*Session, error) {
	path := filepath.Join(s.sessionsDir, id+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Delete removes a session file
func (s *SessionStorage) Delete(id string) error {
	path := filepath.Join(s.sessionsDir, id+".json")
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// RenameSession changes a session's display name
func (s *SessionStorage) RenameSession(id, newName string) error {
	session, err := s.Load(id)
	if err != nil {
		return err
	}
	session.Name = newName
	return s.Save(session)
}

// List returns metadata for all sessions, sorted by update time (newest first).
// Corrupted session files are skipped rather than failing the whole listing.
func (s *SessionStorage) List() ([]SessionMetadata, error) {
	entries, err := os.ReadDir(s.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessions []SessionMetadata

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.sessionsDir, entry.Name()))
		if err != nil {
			continue // Skip unreadable files
		}

		var session Session
		if err := json.Unmarshal(data, &session); err != nil {
			continue // Skip corrupted files
		}

		sessions = append(sessions, SessionMetadata{
			ID:           session.ID,
			Name:         session.Name,
			Provider:     session.Provider,
			Model:        session.Model,
			CreatedAt:    session.CreatedAt,
			UpdatedAt:    session.UpdatedAt,
			TurnCount:    len(session.Turns),
			SystemPrompt: session.SystemPrompt,
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	return sessions, nil
}

// SaveCurrentSessionID records which session to reopen on next launch
func (s *SessionStorage) SaveCurrentSessionID(id string) error {
	path := filepath.Join(s.dataDir, "current_session")
	return os.WriteFile(path, []byte(id), 0600)
}

// LoadCurrentSessionID returns the last active session ID, or "" if none
func (s *SessionStorage) LoadCurrentSessionID() string {
	data, err := os.ReadFile(filepath.Join(s.dataDir, "current_session"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// LoadLastSession loads the session recorded as current, or the most recently
// updated one. Returns nil (no error) when nothing usable exists - a corrupt
// or missing session never blocks startup.
func (s *SessionStorage) LoadLastSession() *Session {
	if id := s.LoadCurrentSessionID(); id != "" {
		if session, err := s.Load(id); err == nil {
			return session
		}
	}

	sessions, err := s.List()
	if err != nil || len(sessions) == 0 {
		return nil
	}
	session, err := s.Load(sessions[0].ID)
	if err != nil {
		return nil
	}
	return session
}

// GenerateSessionName derives a session name from the first user message
func GenerateSessionName(firstUserMessage string) string {
	name := strings.TrimSpace(firstUserMessage)
	if name == "" {
		return "New Session"
	}

	name = strings.ReplaceAll(name, "\n", " ")
	runes := []rune(name)
	if len(runes) > 40 {
		name = string(runes[:40]) + "..."
	}
	return name
}
