package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *SessionStorage {
	t.Helper()
	s, err := NewSessionStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewSessionStorage failed: %v", err)
	}
	return s
}

func sampleSession(name string) *Session {
	return &Session{
		Name:     name,
		Provider: "anthropic",
		Model:    "claude-sonnet-4-5",
		Turns: []Turn{
			{ID: "t1", Role: "user", Text: "What does this verse mean?", Timestamp: time.Now()},
			{ID: "t2", Role: "assistant", Text: "It speaks of impermanence.", Timestamp: time.Now(),
				Reactions: map[string]int{"👍": 1},
				History:   []string{"earlier draft"},
				Grounding: []Citation{{URI: "https://example.org/verse", Title: "Verse 12"}},
			},
		},
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	s := newTestStorage(t)

	session := sampleSession("roundtrip")
	if err := s.Save(session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if session.ID == "" {
		t.Fatal("Save must assign an ID")
	}

	loaded, err := s.Load(session.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Name != "roundtrip" || loaded.Provider != "anthropic" {
		t.Errorf("loaded = %+v", loaded)
	}
	if len(loaded.Turns) != 2 {
		t.Fatalf("loaded %d turns, want 2", len(loaded.Turns))
	}
	if loaded.Turns[1].Reactions["👍"] != 1 {
		t.Error("reactions not persisted")
	}
	if len(loaded.Turns[1].History) != 1 {
		t.Error("edit history not persisted")
	}
	if len(loaded.Turns[1].Grounding) != 1 || loaded.Turns[1].Grounding[0].URI != "https://example.org/verse" {
		t.Error("grounding citations not persisted")
	}
}

func TestListSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSessionStorage(dir)
	if err != nil {
		t.Fatalf("NewSessionStorage failed: %v", err)
	}

	good := sampleSession("good")
	if err := s.Save(good); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	corrupt := filepath.Join(dir, "sessions", "broken.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0600); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].Name != "good" {
		t.Errorf("list = %+v, corrupt file must be skipped", list)
	}
	if list[0].TurnCount != 2 {
		t.Errorf("TurnCount = %d, want 2", list[0].TurnCount)
	}
}

func TestListSortsNewestFirst(t *testing.T) {
	s := newTestStorage(t)

	older := sampleSession("older")
	if err := s.Save(older); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	newer := sampleSession("newer")
	if err := s.Save(newer); err != nil {
		t.Fatal(err)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d", len(list))
	}
	if list[0].Name != "newer" {
		t.Errorf("first entry = %s, want the most recently updated", list[0].Name)
	}
}

func TestDeleteAndRename(t *testing.T) {
	s := newTestStorage(t)

	session := sampleSession("target")
	if err := s.Save(session); err != nil {
		t.Fatal(err)
	}

	if err := s.RenameSession(session.ID, "renamed"); err != nil {
		t.Fatalf("RenameSession failed: %v", err)
	}
	loaded, err := s.Load(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "renamed" {
		t.Errorf("name = %q", loaded.Name)
	}

	if err := s.Delete(session.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Load(session.ID); err == nil {
		t.Error("Load after Delete must fail")
	}
}

func TestCurrentSessionTracking(t *testing.T) {
	s := newTestStorage(t)

	session := sampleSession("current")
	if err := s.Save(session); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveCurrentSessionID(session.ID); err != nil {
		t.Fatalf("SaveCurrentSessionID failed: %v", err)
	}

	last := s.LoadLastSession()
	if last == nil || last.ID != session.ID {
		t.Errorf("LoadLastSession = %+v, want the recorded session", last)
	}

	// A dangling current-session pointer falls back to the newest session
	if err := s.SaveCurrentSessionID("missing-id"); err != nil {
		t.Fatal(err)
	}
	last = s.LoadLastSession()
	if last == nil || last.ID != session.ID {
		t.Error("dangling pointer must fall back to the most recent session")
	}
}

func TestLoadLastSessionEmpty(t *testing.T) {
	s := newTestStorage(t)
	if got := s.LoadLastSession(); got != nil {
		t.Errorf("LoadLastSession on empty storage = %+v, want nil", got)
	}
}

func TestGenerateSessionName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "What is a pecha?", "What is a pecha?"},
		{"empty", "   ", "New Session"},
		{"newlines flattened", "line one\nline two", "line one line two"},
		{"long input truncated", "This is a very long first message that goes on and on", "This is a very long first message that g..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateSessionName(tt.in); got != tt.want {
				t.Errorf("GenerateSessionName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
