package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// renderSessionManager renders the stored-session list with its
// rename/export/import/filter sub-modes.
func (a AppView) renderSessionManager() string {
	var body strings.Builder

	if a.confirmDeleteSession != nil {
		body.WriteString(fmt.Sprintf("Delete session %q and its search index?\n\n", a.confirmDeleteSession.Name))
		body.WriteString(FormatFooter("y", "Delete", "any other key", "Keep"))
		return renderModalBox("Delete session", body.String(), "", 56, a.width, a.height)
	}

	if a.sessionExportMode {
		body.WriteString("Write the current conversation as JSON.\n\n")
		body.WriteString(a.sessionExportInput.View())
		footer := FormatFooter("Enter", "Export", "Esc", "Cancel")
		return renderModalBox("Export session", body.String(), footer, 60, a.width, a.height)
	}

	if a.sessionImportMode {
		body.WriteString("Read a previously exported session file.\nThe import is stored as a new session.\n\n")
		body.WriteString(a.sessionImportInput.View())
		footer := FormatFooter("Enter", "Import", "Esc", "Cancel")
		return renderModalBox("Import session", body.String(), footer, 60, a.width, a.height)
	}

	if a.sessionRenameMode {
		body.WriteString(a.sessionRenameInput.View())
		footer := FormatFooter("Enter", "Rename", "Esc", "Cancel")
		return renderModalBox("Rename session", body.String(), footer, 56, a.width, a.height)
	}

	list := a.getSessionList()

	if a.sessionFilterMode {
		body.WriteString(a.sessionFilterInput.View())
		body.WriteString("\n\n")
	}

	if a.sessionExportSuccess != "" {
		body.WriteString(SelectedStyle.Render(fmt.Sprintf("Exported to %s", a.sessionExportSuccess)))
		body.WriteString("\n\n")
	}

	if len(list) == 0 {
		if a.sessionFilterMode && a.sessionFilterInput.Value() != "" {
			body.WriteString(DimStyle.Render("No sessions match the filter."))
		} else {
			body.WriteString(DimStyle.Render("No saved sessions yet."))
		}
	} else {
		visible := a.height - 14
		if visible < 3 {
			visible = 3
		}
		start := 0
		if a.selectedSessionIdx >= visible {
			start = a.selectedSessionIdx - visible + 1
		}
		end := start + visible
		if end > len(list) {
			end = len(list)
		}

		if start > 0 {
			body.WriteString(DimStyle.Render(fmt.Sprintf("  ↑ %d more above", start)))
			body.WriteString("\n")
		}

		currentID := ""
		if a.dataModel.CurrentSession != nil {
			currentID = a.dataModel.CurrentSession.ID
		}

		nameWidth := min(a.width-40, 40)
		if nameWidth < 16 {
			nameWidth = 16
		}

		for i := start; i < end; i++ {
			s := list[i]

			marker := "  "
			if s.ID == currentID {
				marker = UserStyle.Render("* ")
			}

			name := runewidth.Truncate(s.Name, nameWidth, "…")
			line := fmt.Sprintf("%s%s", marker, runewidth.FillRight(name, nameWidth))
			meta := DimStyle.Render(fmt.Sprintf("  %3d turns  %s  %s",
				s.TurnCount, s.Model, s.UpdatedAt.Format("2006-01-02 15:04")))

			if i == a.selectedSessionIdx {
				body.WriteString(SelectedStyle.Render("> ") + SelectedStyle.Render(line) + meta)
			} else {
				body.WriteString("  " + line + meta)
			}
			body.WriteString("\n")
		}

		if end < len(list) {
			body.WriteString(DimStyle.Render(fmt.Sprintf("  ↓ %d more below", len(list)-end)))
			body.WriteString("\n")
		}
	}

	footer := FormatFooter(
		"j/k", "Navigate",
		"Enter", "Open",
		"n", "Rename",
		"d", "Delete",
		"x", "Export",
		"i", "Import",
		"/", "Filter",
		"Esc", "Close",
	)
	return renderModalBox("Sessions", body.String(), footer, min(a.width-6, 96), a.width, a.height)
}
