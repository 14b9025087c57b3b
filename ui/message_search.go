package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appmodel "pecha/model"
	"pecha/search"
)

// MessageSearchState drives the in-conversation search modal: a query input,
// an exact/fuzzy mode toggle, the matched turn indices (with one-hop context)
// and a clamped cursor over them.
type MessageSearchState struct {
	input  textinput.Model
	fuzzy  bool
	hits   []int // transcript indices, chronological
	cursor search.Cursor
}

func NewMessageSearchState() MessageSearchState {
	input := textinput.New()
	input.Prompt = "Search: "
	input.CharLimit = 100
	return MessageSearchState{input: input}
}

func (s *MessageSearchState) Focus() tea.Cmd {
	return s.input.Focus()
}

func (s *MessageSearchState) Blur() {
	if s.input.Focused() {
		s.input.Blur()
	}
}

func (s *MessageSearchState) Reset() {
	s.input.SetValue("")
	s.hits = nil
	s.cursor = search.NewCursor(0)
}

// Recompute re-runs the filter over the transcript. Query or mode changes
// reset the cursor to the first hit.
func (s *MessageSearchState) Recompute(turns []appmodel.Turn) {
	query := s.input.Value()
	if strings.TrimSpace(query) == "" {
		s.hits = nil
		s.cursor = search.NewCursor(0)
		return
	}
	s.hits = search.FilterIndices(searchTurns(turns), query, s.fuzzy)
	s.cursor = search.NewCursor(len(s.hits))
}

// Current returns the transcript index under the cursor, -1 when empty
func (s *MessageSearchState) Current() int {
	if len(s.hits) == 0 {
		return -1
	}
	return s.hits[s.cursor.Index()]
}

func (s *MessageSearchState) Next() { s.cursor.Next() }
func (s *MessageSearchState) Prev() { s.cursor.Prev() }

// searchTurns projects transcript turns into the search engine's view of
// them. System notices are excluded from search.
func searchTurns(turns []appmodel.Turn) []search.Turn {
	out := make([]search.Turn, 0, len(turns))
	for _, t := range turns {
		if t.Role != appmodel.RoleUser && t.Role != appmodel.RoleAssistant {
			continue
		}
		out = append(out, search.Turn{ID: t.ID, Role: t.Role, Text: t.Text})
	}
	return out
}

// searchIndexToTranscript maps an index into the searchable projection back
// to the transcript index.
func searchIndexToTranscript(turns []appmodel.Turn, searchIdx int) int {
	n := 0
	for i, t := range turns {
		if t.Role != appmodel.RoleUser && t.Role != appmodel.RoleAssistant {
			continue
		}
		if n == searchIdx {
			return i
		}
		n++
	}
	return -1
}

func (a AppView) renderMessageSearch() string {
	s := a.messageSearch

	modalWidth := a.width - 4
	if modalWidth > 100 {
		modalWidth = 100
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2)

	mode := "exact"
	if s.fuzzy {
		mode = "fuzzy"
	}
	title := TitleStyle.Render("Search Conversation") + DimStyle.Render(fmt.Sprintf("  [%s]", mode))
	searchView := s.input.View()

	resultsView := ""
	if len(s.hits) == 0 {
		if s.input.Value() == "" {
			resultsView = DimStyle.Render("Type to search this conversation...")
		} else {
			resultsView = DimStyle.Render("No matches found")
		}
	} else {
		resultsView = fmt.Sprintf("%d matching turns (with context):\n\n", len(s.hits))

		visible := (a.height - 14) / 3
		if visible < 1 {
			visible = 1
		}
		start := s.cursor.Index() - visible/2
		if start < 0 {
			start = 0
		}
		end := start + visible
		if end > len(s.hits) {
			end = len(s.hits)
		}

		searchable := searchTurns(a.dataModel.Turns)
		tokens := search.Tokens(s.input.Value())
		for i := start; i < end; i++ {
			turn := searchable[s.hits[i]]

			roleStyle := UserStyle
			if turn.Role == appmodel.RoleAssistant {
				roleStyle = AssistantStyle
			}

			preview := highlightPreview(turn.Text, tokens, modalWidth-8)
			line := fmt.Sprintf("%s\n  %s", roleStyle.Render(turn.Role), preview)
			if i == s.cursor.Index() {
				line = SelectedStyle.Render("> ") + line
			} else {
				line = "  " + line
			}
			resultsView += line + "\n\n"
		}
	}

	footer := FormatFooter("Type", "to search", "Tab", "Exact/Fuzzy", "Ctrl+N/P", "Next/Prev", "Enter", "Jump", "Esc", "Close")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		searchView,
		"",
		resultsView,
		"",
		footer,
	)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		modalStyle.Width(modalWidth).Render(content))
}

// highlightPreview renders a single-line preview with match substrings
// highlighted, truncated to width runes.
func highlightPreview(text string, tokens []string, width int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if width > 3 && len(runes) > width {
		flat = string(runes[:width-3]) + "..."
	}

	var b strings.Builder
	for _, span := range search.Highlight(flat, tokens) {
		if span.Match {
			b.WriteString(HighlightStyle.Render(span.Text))
		} else {
			b.WriteString(span.Text)
		}
	}
	return b.String()
}

// handleMessageSearchKeys drives the in-conversation search modal
func (a AppView) handleMessageSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		a.showMessageSearch = false
		a.messageSearch.Blur()
		return a, nil

	case "tab":
		a.messageSearch.fuzzy = !a.messageSearch.fuzzy
		a.messageSearch.Recompute(a.dataModel.Turns)
		return a, nil

	case "ctrl+n", "down":
		a.messageSearch.Next()
		return a, nil

	case "ctrl+p", "up":
		a.messageSearch.Prev()
		return a, nil

	case "enter":
		searchIdx := a.messageSearch.Current()
		if searchIdx < 0 {
			return a, nil
		}
		transcriptIdx := searchIndexToTranscript(a.dataModel.Turns, searchIdx)
		if transcriptIdx < 0 {
			return a, nil
		}
		a.showMessageSearch = false
		a.messageSearch.Blur()
		return a.jumpToTurn(transcriptIdx)
	}

	before := a.messageSearch.input.Value()
	a.messageSearch.input, cmd = a.messageSearch.input.Update(msg)
	if a.messageSearch.input.Value() != before {
		a.messageSearch.Recompute(a.dataModel.Turns)
	}
	return a, cmd
}
