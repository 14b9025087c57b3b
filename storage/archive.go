package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ArchiveMatch is one cross-session search hit.
type ArchiveMatch struct {
	SessionID   string
	SessionName string
	TurnID      string
	TurnIndex   int
	Role        string
	Text        string
	Preview     string
	Timestamp   time.Time
}

// Archive is a sqlite copy of every saved turn, kept so global search does not
// have to re-read and re-parse every session file on each keystroke.
type Archive struct {
	db *sql.DB
}

// NewArchive opens (or creates) the archive database in the data directory
func NewArchive(dataDir string) (*Archive, error) {
	dbPath := filepath.Join(dataDir, "archive.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping archive database: %w", err)
	}

	a := &Archive{db: db}
	if err := a.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize archive database: %w", err)
	}
	return a, nil
}

func (a *Archive) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS turns (
		session_id   TEXT NOT NULL,
		session_name TEXT NOT NULL,
		turn_id      TEXT NOT NULL,
		turn_index   INTEGER NOT NULL,
		role         TEXT NOT NULL,
		text         TEXT NOT NULL,
		created_at   DATETIME NOT NULL,
		PRIMARY KEY (session_id, turn_id)
	);
	CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id);
	`

	_, err := a.db.Exec(schema)
	return err
}

// IndexSession replaces the archived turns for a session with its current
// contents. System turns (inline errors, notices) are not archived.
func (a *Archive) IndexSession(session *Session) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin archive transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM turns WHERE session_id = ?`, session.ID); err != nil {
		return fmt.Errorf("failed to clear archived session: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO turns
		(session_id, session_name, turn_id, turn_index, role, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare archive insert: %w", err)
	}
	defer stmt.Close()

	for i, turn := range session.Turns {
		if turn.Role != "user" && turn.Role != "assistant" {
			continue
		}
		if _, err := stmt.Exec(session.ID, session.Name, turn.ID, i, turn.Role, turn.Text, turn.Timestamp); err != nil {
			return fmt.Errorf("failed to archive turn: %w", err)
		}
	}

	return tx.Commit()
}

// RemoveSession drops a deleted session from the archive
func (a *Archive) RemoveSession(sessionID string) error {
	_, err := a.db.Exec(`DELETE FROM turns WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to remove archived session: %w", err)
	}
	return nil
}

// Search finds turns across all sessions whose text contains the query,
// case-insensitively. Results come back in session order, then turn order.
func (a *Archive) Search(query string) ([]ArchiveMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []ArchiveMatch{}, nil
	}

	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := a.db.Query(`SELECT session_id, session_name, turn_id, turn_index, role, text, created_at
		FROM turns
		WHERE lower(text) LIKE ?
		ORDER BY session_name, turn_index`, pattern)
	if err != nil {
		return nil, fmt.Errorf("archive search failed: %w", err)
	}
	defer rows.Close()

	var matches []ArchiveMatch
	for rows.Next() {
		var m ArchiveMatch
		if err := rows.Scan(&m.SessionID, &m.SessionName, &m.TurnID, &m.TurnIndex, &m.Role, &m.Text, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("archive scan failed: %w", err)
		}
		m.Preview = previewText(m.Text, 100)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Close closes the archive database
func (a *Archive) Close() error {
	return a.db.Close()
}

// previewText shortens text for list display, on a rune boundary
func previewText(text string, max int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
