package model

import (
	"testing"
)

func TestEditUserTurnTruncatesAndRecords(t *testing.T) {
	turns := []Turn{
		NewUserTurn("first question"),
		{ID: "a1", Role: RoleAssistant, Text: "first answer"},
		NewUserTurn("second question"),
		{ID: "a2", Role: RoleAssistant, Text: "second answer"},
	}

	result, assistantID, ok := EditUserTurn(turns, 2, "second question, rephrased")
	if !ok {
		t.Fatal("editing a user turn must succeed")
	}

	// Edited turn + a fresh assistant turn; everything after is gone
	if len(result) != 4 {
		t.Fatalf("len(result) = %d, want 4", len(result))
	}
	if result[2].Text != "second question, rephrased" {
		t.Errorf("edited text = %q", result[2].Text)
	}
	if len(result[2].History) != 1 || result[2].History[0] != "second question" {
		t.Errorf("history = %v, want the superseded text", result[2].History)
	}

	last := result[3]
	if last.ID != assistantID {
		t.Errorf("assistant ID mismatch: %s vs %s", last.ID, assistantID)
	}
	if last.Role != RoleAssistant || !last.IsStreaming || last.Text != "" {
		t.Errorf("new assistant turn = %+v, want empty streaming turn", last)
	}
}

func TestEditUserTurnRejectsNonUserTargets(t *testing.T) {
	turns := []Turn{
		NewUserTurn("q"),
		{ID: "a1", Role: RoleAssistant, Text: "a"},
	}

	tests := []struct {
		name string
		k    int
	}{
		{"assistant turn", 1},
		{"negative index", -1},
		{"out of range", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, ok := EditUserTurn(turns, tt.k, "new")
			if ok {
				t.Error("edit must be rejected")
			}
			if len(result) != len(turns) {
				t.Error("rejected edit must leave turns unchanged")
			}
		})
	}
}

func TestSupersedeSkipsUnchangedText(t *testing.T) {
	turn := NewUserTurn("same")
	turn.Supersede("same")
	if len(turn.History) != 0 {
		t.Errorf("history = %v, unchanged text must not be recorded", turn.History)
	}

	turn.Supersede("different")
	turn.Supersede("third")
	if len(turn.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(turn.History))
	}
	// Oldest first, current value never present
	if turn.History[0] != "same" || turn.History[1] != "different" {
		t.Errorf("history = %v", turn.History)
	}
}

func TestReactCounts(t *testing.T) {
	var turn Turn
	turn.React("👍")
	turn.React("👍")
	turn.React("⭐")
	turn.React("")

	if turn.Reactions["👍"] != 2 {
		t.Errorf("👍 count = %d, want 2", turn.Reactions["👍"])
	}
	if turn.Reactions["⭐"] != 1 {
		t.Errorf("⭐ count = %d, want 1", turn.Reactions["⭐"])
	}
	if len(turn.Reactions) != 2 {
		t.Errorf("reactions = %v, empty labels must be ignored", turn.Reactions)
	}
}

func TestTurnIndexByID(t *testing.T) {
	turns := []Turn{
		{ID: "one"},
		{ID: "two"},
	}
	if got := TurnIndexByID(turns, "two"); got != 1 {
		t.Errorf("index = %d, want 1", got)
	}
	if got := TurnIndexByID(turns, "missing"); got != -1 {
		t.Errorf("index = %d, want -1", got)
	}
}

func TestTurnsToStorageDropsSystemNotices(t *testing.T) {
	turns := []Turn{
		NewUserTurn("q"),
		NewSystemTurn("Error: connection reset"),
		{ID: "a1", Role: RoleAssistant, Text: "a"},
	}
	stored := TurnsToStorage(turns)
	if len(stored) != 2 {
		t.Fatalf("stored %d turns, want 2", len(stored))
	}
	for _, st := range stored {
		if st.Role != RoleUser && st.Role != RoleAssistant {
			t.Errorf("persisted a %s turn", st.Role)
		}
	}
}
