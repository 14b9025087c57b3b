// Package search implements the in-conversation match engine: exact and
// token filtering over turns, one-hop context expansion, and clamped
// navigation between matches.
package search

import "strings"

// Roles a turn can carry, mirrored from the model package to keep this engine
// free of UI and model dependencies.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is the minimal view of a conversational turn the engine needs.
type Turn struct {
	ID   string
	Role string
	Text string
}

// Tokens splits a query on whitespace, lower-cases the pieces and discards
// empties. Used by token ("fuzzy") matching and by highlighting.
func Tokens(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// MatchesExact reports whether text contains the trimmed query as a
// case-insensitive contiguous substring.
func MatchesExact(text, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), q)
}

// MatchesTokens reports whether every token occurs somewhere in text,
// case-insensitively and in any order. This is deliberately substring-AND,
// not edit-distance matching, despite the "fuzzy" label in the UI.
func MatchesTokens(text string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	for _, tok := range tokens {
		if !strings.Contains(lower, tok) {
			return false
		}
	}
	return true
}

// matches returns the indices of turns that match the query directly.
func matches(turns []Turn, query string, fuzzy bool) []int {
	var out []int
	if fuzzy {
		tokens := Tokens(query)
		for i, t := range turns {
			if MatchesTokens(t.Text, tokens) {
				out = append(out, i)
			}
		}
		return out
	}
	for i, t := range turns {
		if MatchesExact(t.Text, query) {
			out = append(out, i)
		}
	}
	return out
}

// Filter returns the turns matching the query plus one hop of conversational
// context: a matching assistant turn pulls in the user turn that prompted it,
// a matching user turn pulls in the assistant reply that followed. The result
// preserves the original chronological order and contains no duplicates. An
// empty (or whitespace-only) query returns turns unchanged.
func Filter(turns []Turn, query string, fuzzy bool) []Turn {
	if strings.TrimSpace(query) == "" {
		return turns
	}

	include := make(map[int]bool)
	for _, i := range matches(turns, query, fuzzy) {
		include[i] = true
		switch turns[i].Role {
		case RoleAssistant:
			if i > 0 {
				include[i-1] = true
			}
		case RoleUser:
			if i+1 < len(turns) {
				include[i+1] = true
			}
		}
	}

	result := make([]Turn, 0, len(include))
	for i, t := range turns {
		if include[i] {
			result = append(result, t)
		}
	}
	return result
}

// FilterIndices is Filter returning positions into the original slice instead
// of copies; the UI uses it to scroll to matches in place.
func FilterIndices(turns []Turn, query string, fuzzy bool) []int {
	if strings.TrimSpace(query) == "" {
		out := make([]int, len(turns))
		for i := range turns {
			out[i] = i
		}
		return out
	}

	include := make(map[int]bool)
	for _, i := range matches(turns, query, fuzzy) {
		include[i] = true
		switch turns[i].Role {
		case RoleAssistant:
			if i > 0 {
				include[i-1] = true
			}
		case RoleUser:
			if i+1 < len(turns) {
				include[i+1] = true
			}
		}
	}

	out := make([]int, 0, len(include))
	for i := range turns {
		if include[i] {
			out = append(out, i)
		}
	}
	return out
}

// Cursor tracks the current match during prev/next navigation. Next clamps at
// the last match, Prev at the first; Reset (on query or mode change) returns
// to the start.
type Cursor struct {
	total int
	index int
}

// NewCursor returns a cursor over total matches, pointing at the first.
func NewCursor(total int) Cursor {
	return Cursor{total: total}
}

// Reset points the cursor at the first of total matches.
func (c *Cursor) Reset(total int) {
	c.total = total
	c.index = 0
}

// Index returns the current match position.
func (c *Cursor) Index() int {
	return c.index
}

// Next advances the cursor, clamping at the last match.
func (c *Cursor) Next() int {
	if c.index < c.total-1 {
		c.index++
	}
	return c.index
}

// Prev moves the cursor back, clamping at the first match.
func (c *Cursor) Prev() int {
	if c.index > 0 {
		c.index--
	}
	return c.index
}
