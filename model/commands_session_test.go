package model

import (
	"os"
	"path/filepath"
	"testing"

	"pecha/config"
	"pecha/storage"
	"pecha/stream"
)

// brokenStorage returns a session store whose data directory has been removed,
// so every write through it fails.
func brokenStorage(t *testing.T) *storage.SessionStorage {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	store, err := storage.NewSessionStorage(dir)
	if err != nil {
		t.Fatalf("NewSessionStorage: %v", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	return store
}

func TestResetConversationSurvivesPersistFailure(t *testing.T) {
	saved := config.DebugLog
	config.DebugLog = nil
	defer func() { config.DebugLog = saved }()

	m := &Model{
		Config:         config.DefaultConfig(),
		SessionStorage: brokenStorage(t),
		Stream:         stream.NewSession(),
		Turns:          []Turn{NewUserTurn("hello")},
		CurrentSession: &storage.Session{ID: "s1"},
	}

	// Clearing the current-session pointer fails on the removed directory;
	// the reset must still complete with the debug log disabled.
	m.ResetConversation()

	if m.Turns != nil {
		t.Errorf("Turns = %v, want nil after reset", m.Turns)
	}
	if m.CurrentSession != nil {
		t.Error("CurrentSession must be cleared after reset")
	}
}

func TestAutoSaveReportsErrorWithoutDebugLog(t *testing.T) {
	saved := config.DebugLog
	config.DebugLog = nil
	defer func() { config.DebugLog = saved }()

	m := &Model{
		Config:         config.DefaultConfig(),
		SessionStorage: brokenStorage(t),
		Stream:         stream.NewSession(),
		Turns:          []Turn{NewUserTurn("a question")},
	}

	cmd := m.AutoSaveSession()
	if cmd == nil {
		t.Fatal("non-empty transcript must produce a save command")
	}

	msg := cmd()
	savedMsg, ok := msg.(SessionSavedMsg)
	if !ok {
		t.Fatalf("msg = %T, want SessionSavedMsg", msg)
	}
	if savedMsg.Err == nil {
		t.Error("save into a removed directory must report an error")
	}
}
