package storage

import (
	"fmt"
	"testing"
	"time"
)

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := NewArchive(t.TempDir())
	if err != nil {
		t.Fatalf("NewArchive failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func archivedSession(id, name string, texts ...string) *Session {
	s := &Session{ID: id, Name: name}
	for i, text := range texts {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		s.Turns = append(s.Turns, Turn{
			ID:        fmt.Sprintf("t%d", i),
			Role:      role,
			Text:      text,
			Timestamp: time.Now(),
		})
	}
	return s
}

func TestArchiveSearchAcrossSessions(t *testing.T) {
	a := newTestArchive(t)

	if err := a.IndexSession(archivedSession("s1", "Lamp discussion",
		"what does the lamp mean", "the lamp stands for wisdom")); err != nil {
		t.Fatalf("IndexSession failed: %v", err)
	}
	if err := a.IndexSession(archivedSession("s2", "Translation help",
		"translate this verse", "the verse speaks of a lamp in darkness")); err != nil {
		t.Fatalf("IndexSession failed: %v", err)
	}

	matches, err := a.Search("LAMP")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3 (case-insensitive, across sessions)", len(matches))
	}

	// Session order, then turn order
	if matches[0].SessionID != "s1" || matches[0].TurnIndex != 0 {
		t.Errorf("first match = %+v", matches[0])
	}
	if matches[2].SessionID != "s2" {
		t.Errorf("last match = %+v", matches[2])
	}
	for _, m := range matches {
		if m.Preview == "" {
			t.Errorf("match %s has no preview", m.TurnID)
		}
	}
}

func TestArchiveReindexReplaces(t *testing.T) {
	a := newTestArchive(t)

	if err := a.IndexSession(archivedSession("s1", "Before", "old text about lamps")); err != nil {
		t.Fatal(err)
	}
	if err := a.IndexSession(archivedSession("s1", "After", "new text about verses")); err != nil {
		t.Fatal(err)
	}

	matches, err := a.Search("lamps")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("stale turns survived reindex: %+v", matches)
	}

	matches, err = a.Search("verses")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].SessionName != "After" {
		t.Errorf("matches = %+v", matches)
	}
}

func TestArchiveRemoveSession(t *testing.T) {
	a := newTestArchive(t)

	if err := a.IndexSession(archivedSession("s1", "Doomed", "findable text")); err != nil {
		t.Fatal(err)
	}
	if err := a.RemoveSession("s1"); err != nil {
		t.Fatalf("RemoveSession failed: %v", err)
	}

	matches, err := a.Search("findable")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("removed session still searchable: %+v", matches)
	}
}

func TestArchiveSkipsSystemTurns(t *testing.T) {
	a := newTestArchive(t)

	s := &Session{ID: "s1", Name: "With notice"}
	s.Turns = []Turn{
		{ID: "t0", Role: "user", Text: "a question", Timestamp: time.Now()},
		{ID: "t1", Role: "system", Text: "Error: searchable failure text", Timestamp: time.Now()},
	}
	if err := a.IndexSession(s); err != nil {
		t.Fatal(err)
	}

	matches, err := a.Search("searchable failure")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("system notices must not be archived: %+v", matches)
	}
}

func TestArchiveEmptyQuery(t *testing.T) {
	a := newTestArchive(t)
	matches, err := a.Search("   ")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("blank query returned %d matches", len(matches))
	}
}
