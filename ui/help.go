package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type helpEntry struct {
	key  string
	desc string
}

var helpSections = []struct {
	title   string
	entries []helpEntry
}{
	{
		title: "Conversation",
		entries: []helpEntry{
			{"Enter", "Send message"},
			{"Alt+Enter", "Insert newline"},
			{"Esc", "Cancel streaming reply / close panel"},
			{"Alt+C", "Continue a reply stopped at the length budget"},
			{"Alt+Y", "Copy last reply"},
			{"Alt+N", "New conversation"},
			{"PgUp/PgDn", "Scroll transcript"},
		},
	},
	{
		title: "Turn selection (Alt+V)",
		entries: []helpEntry{
			{"j/k", "Select previous/next turn"},
			{"e", "Edit your message and regenerate"},
			{"r or 1/2/3", "React to the turn"},
			{"h", "View earlier versions"},
			{"y", "Copy turn text"},
			{"s", "Speak the reply aloud"},
			{"x", "Explain the selected text"},
			{"t", "Translate the selected text"},
		},
	},
	{
		title: "Sessions & models",
		entries: []helpEntry{
			{"Alt+S", "Session manager"},
			{"Alt+M", "Model selector"},
			{"Alt+F", "Search this conversation"},
			{"Alt+G", "Search all sessions"},
		},
	},
	{
		title: "Workspace",
		entries: []helpEntry{
			{"Alt+P", "Project memory panel"},
			{"Alt+Arrows", "Move the lookup panel"},
			{"Alt+Shift+Arrows", "Resize the lookup panel"},
			{"Alt+= / Alt+-", "Grow / shrink text scale"},
			{"Alt+H", "This help"},
			{"Alt+Q", "Save and quit"},
		},
	},
}

// renderHelpModal renders the two-column keybinding reference
func renderHelpModal(width, height int) string {
	keyStyle := lipgloss.NewStyle().Foreground(warningColor).Bold(true)

	renderSection := func(s struct {
		title   string
		entries []helpEntry
	}) string {
		var b strings.Builder
		b.WriteString(TitleStyle.Render(s.title))
		b.WriteString("\n")
		for _, e := range s.entries {
			b.WriteString(keyStyle.Render(runewidth.FillRight(e.key, 18)))
			b.WriteString(e.desc)
			b.WriteString("\n")
		}
		return b.String()
	}

	left := renderSection(helpSections[0]) + "\n" + renderSection(helpSections[2])
	right := renderSection(helpSections[1]) + "\n" + renderSection(helpSections[3])

	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().MarginRight(4).Render(left),
		right,
	)

	footer := FormatFooter("Esc", "Close")
	return renderModalBox("pecha keybindings", columns, footer, min(width-6, 110), width, height)
}
