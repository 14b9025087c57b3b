package search

import (
	"strings"
	"testing"
)

func joinSpans(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestHighlightSpansReassemble(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		tokens []string
	}{
		{"single token", "the butter lamp burns", []string{"lamp"}},
		{"multiple tokens", "wisdom dispels ignorance", []string{"wisdom", "ignorance"}},
		{"case insensitive", "The Lamp and the lamp", []string{"lamp"}},
		{"no tokens", "plain text", nil},
		{"no match", "plain text", []string{"zebra"}},
		{"metacharacters quoted", "what is (this)? a+b", []string{"(this)?", "a+b"}},
		{"empty text", "", []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := Highlight(tt.text, tt.tokens)
			if got := joinSpans(spans); got != tt.text {
				t.Errorf("spans reassemble to %q, want %q", got, tt.text)
			}
		})
	}
}

func TestHighlightMarksMatches(t *testing.T) {
	spans := Highlight("The Lamp and the lamp", []string{"lamp"})

	var matched []string
	for _, s := range spans {
		if s.Match {
			matched = append(matched, s.Text)
		}
	}
	if len(matched) != 2 {
		t.Fatalf("matched spans = %v, want 2", matched)
	}
	if matched[0] != "Lamp" || matched[1] != "lamp" {
		t.Errorf("matched = %v, case of the original text must be preserved", matched)
	}
}

func TestHighlightMetacharactersAreLiteral(t *testing.T) {
	// A ".*" query must not match everything
	spans := Highlight("abc .* def", []string{".*"})

	var matched []string
	for _, s := range spans {
		if s.Match {
			matched = append(matched, s.Text)
		}
	}
	if len(matched) != 1 || matched[0] != ".*" {
		t.Errorf("matched = %v, want the literal .* only", matched)
	}
}

func TestHighlightEmptyTokensIgnored(t *testing.T) {
	spans := Highlight("some text", []string{"", ""})
	if len(spans) != 1 || spans[0].Match {
		t.Errorf("spans = %v, want a single non-match span", spans)
	}
}
