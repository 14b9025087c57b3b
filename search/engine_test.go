package search

import (
	"reflect"
	"testing"
)

func conversation() []Turn {
	return []Turn{
		{ID: "1", Role: RoleUser, Text: "What does the lamp symbolize in this verse?"},
		{ID: "2", Role: RoleAssistant, Text: "The butter lamp stands for wisdom dispelling ignorance."},
		{ID: "3", Role: RoleUser, Text: "Translate the second line please"},
		{ID: "4", Role: RoleAssistant, Text: "It reads: clarity arises when the mind settles."},
		{ID: "5", Role: RoleUser, Text: "Thanks"},
		{ID: "6", Role: RoleAssistant, Text: "Happy to help."},
	}
}

func ids(turns []Turn) []string {
	out := make([]string, len(turns))
	for i, t := range turns {
		out[i] = t.ID
	}
	return out
}

func TestMatchesExact(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  bool
	}{
		{"case insensitive", "The Butter Lamp", "butter lamp", true},
		{"substring", "wisdom dispelling ignorance", "dispel", true},
		{"no match", "clarity arises", "lamp", false},
		{"query whitespace trimmed", "clarity arises", "  clarity  ", true},
		{"empty query never matches", "anything", "", false},
		{"whitespace query never matches", "anything", "   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesExact(tt.text, tt.query); got != tt.want {
				t.Errorf("MatchesExact(%q, %q) = %v, want %v", tt.text, tt.query, got, tt.want)
			}
		})
	}
}

func TestMatchesTokensOrderIndependent(t *testing.T) {
	text := "The butter lamp stands for wisdom"

	if !MatchesTokens(text, Tokens("wisdom lamp")) {
		t.Error("tokens in reverse text order must still match")
	}
	if !MatchesTokens(text, Tokens("LAMP Wisdom")) {
		t.Error("token matching must be case insensitive")
	}
	if MatchesTokens(text, Tokens("lamp candle")) {
		t.Error("all tokens must be present (AND semantics)")
	}
	if MatchesTokens(text, nil) {
		t.Error("no tokens must not match")
	}
}

func TestFilterContextExpansion(t *testing.T) {
	turns := conversation()

	tests := []struct {
		name  string
		query string
		fuzzy bool
		want  []string
	}{
		{
			// Assistant match pulls in the user turn that prompted it
			name:  "assistant match includes prompting user turn",
			query: "wisdom",
			want:  []string{"1", "2"},
		},
		{
			// User match pulls in the assistant reply that followed
			name:  "user match includes following reply",
			query: "translate",
			want:  []string{"3", "4"},
		},
		{
			name:  "empty query returns everything",
			query: "   ",
			want:  []string{"1", "2", "3", "4", "5", "6"},
		},
		{
			name:  "no hits",
			query: "mandala",
			want:  nil,
		},
		{
			name:  "fuzzy tokens across a turn",
			query: "mind clarity",
			fuzzy: true,
			want:  []string{"3", "4"},
		},
		{
			// Two adjacent matches must not duplicate the shared context turn
			name:  "overlapping context deduplicated",
			query: "the",
			want:  []string{"1", "2", "3", "4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(turns, tt.query, tt.fuzzy)
			var gotIDs []string
			if len(got) > 0 {
				gotIDs = ids(got)
			}
			if !reflect.DeepEqual(gotIDs, tt.want) {
				t.Errorf("Filter(%q) = %v, want %v", tt.query, gotIDs, tt.want)
			}
		})
	}
}

func TestFilterIndicesMirrorsFilter(t *testing.T) {
	turns := conversation()
	got := FilterIndices(turns, "translate", false)
	want := []int{2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterIndices = %v, want %v", got, want)
	}
}

func TestCursorClamps(t *testing.T) {
	c := NewCursor(3)

	if c.Index() != 0 {
		t.Errorf("fresh cursor index = %d, want 0", c.Index())
	}
	if c.Prev(); c.Index() != 0 {
		t.Error("Prev at the first match must clamp")
	}

	c.Next()
	c.Next()
	if c.Index() != 2 {
		t.Errorf("index = %d, want 2", c.Index())
	}
	if c.Next(); c.Index() != 2 {
		t.Error("Next at the last match must clamp")
	}

	c.Reset(1)
	if c.Index() != 0 {
		t.Error("Reset must return to the first match")
	}
}

func TestCursorEmpty(t *testing.T) {
	c := NewCursor(0)
	c.Next()
	c.Prev()
	if c.Index() != 0 {
		t.Errorf("empty cursor index = %d, want 0", c.Index())
	}
}
