package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/mattn/go-runewidth"

	"pecha/storage"
)

// renderGlobalSearch renders the cross-session search modal: a live query
// input over a scrolling window of archive matches.
func renderGlobalSearch(input textinput.Model, results []storage.ArchiveMatch, selectedIdx, scrollIdx, width, height int) string {
	var body strings.Builder

	body.WriteString(input.View())
	body.WriteString("\n\n")

	query := strings.TrimSpace(input.Value())
	switch {
	case query == "":
		body.WriteString(DimStyle.Render("Type to search every saved conversation."))
	case len(results) == 0:
		body.WriteString(DimStyle.Render("No matches."))
	default:
		visible := height - 12
		if visible < 3 {
			visible = 3
		}
		if scrollIdx > len(results)-1 {
			scrollIdx = len(results) - 1
		}
		if scrollIdx < 0 {
			scrollIdx = 0
		}
		end := scrollIdx + visible
		if end > len(results) {
			end = len(results)
		}

		body.WriteString(DimStyle.Render(fmt.Sprintf("%d match(es)", len(results))))
		body.WriteString("\n")

		if scrollIdx > 0 {
			body.WriteString(DimStyle.Render(fmt.Sprintf("  ↑ %d more above", scrollIdx)))
			body.WriteString("\n")
		}

		nameWidth := min(width-60, 28)
		if nameWidth < 12 {
			nameWidth = 12
		}
		previewWidth := width - nameWidth - 22
		if previewWidth < 20 {
			previewWidth = 20
		}

		for i := scrollIdx; i < end; i++ {
			m := results[i]

			name := runewidth.FillRight(runewidth.Truncate(m.SessionName, nameWidth, "…"), nameWidth)
			role := "A"
			if m.Role == "user" {
				role = "U"
			}
			preview := runewidth.Truncate(strings.ReplaceAll(m.Preview, "\n", " "), previewWidth, "…")

			line := fmt.Sprintf("%s %s %s", UserStyle.Render(name), DimStyle.Render(role), preview)
			if i == selectedIdx {
				body.WriteString(SelectedStyle.Render("> ") + line)
			} else {
				body.WriteString("  " + line)
			}
			body.WriteString("\n")
		}

		if end < len(results) {
			body.WriteString(DimStyle.Render(fmt.Sprintf("  ↓ %d more below", len(results)-end)))
			body.WriteString("\n")
		}
	}

	footer := FormatFooter(
		"↑/↓", "Navigate",
		"Enter", "Open at match",
		"Esc", "Close",
	)
	return renderModalBox("Search all sessions", body.String(), footer, min(width-6, 100), width, height)
}
