package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/mattn/go-runewidth"

	appmodel "pecha/model"
)

// renderModelSelector renders the model picker. When more than one provider
// is configured, each entry shows which backend serves it.
func renderModelSelector(list []appmodel.ModelInfo, selectedIdx int, current string, filterMode bool, filterInput textinput.Model, multiProvider bool, width, height int) string {
	var body strings.Builder

	if filterMode {
		body.WriteString(filterInput.View())
		body.WriteString("\n\n")
	}

	if len(list) == 0 {
		if filterMode && filterInput.Value() != "" {
			body.WriteString(DimStyle.Render("No models match the filter."))
		} else {
			body.WriteString(DimStyle.Render("No models available. Is the provider reachable?"))
		}
	} else {
		visible := height - 14
		if visible < 3 {
			visible = 3
		}
		start := 0
		if selectedIdx >= visible {
			start = selectedIdx - visible + 1
		}
		end := start + visible
		if end > len(list) {
			end = len(list)
		}

		if start > 0 {
			body.WriteString(DimStyle.Render(fmt.Sprintf("  ↑ %d more above", start)))
			body.WriteString("\n")
		}

		nameWidth := min(width-30, 44)
		if nameWidth < 20 {
			nameWidth = 20
		}

		for i := start; i < end; i++ {
			m := list[i]

			marker := "  "
			if m.InternalName == current || m.Name == current {
				marker = UserStyle.Render("* ")
			}

			name := runewidth.FillRight(runewidth.Truncate(m.Name, nameWidth, "…"), nameWidth)

			var meta []string
			if multiProvider && m.Provider != "" {
				meta = append(meta, m.Provider)
			}
			if m.Size > 0 {
				meta = append(meta, formatModelSize(m.Size))
			}
			metaText := ""
			if len(meta) > 0 {
				metaText = DimStyle.Render("  " + strings.Join(meta, "  "))
			}

			if i == selectedIdx {
				body.WriteString(SelectedStyle.Render("> "+marker+name) + metaText)
			} else {
				body.WriteString("  " + marker + name + metaText)
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
		"Enter", "Select",
		"/", "Filter",
		"Esc", "Close",
	)
	return renderModalBox("Models", body.String(), footer, min(width-6, 80), width, height)
}

func formatModelSize(bytes int64) string {
	const gb = 1024 * 1024 * 1024
	const mb = 1024 * 1024
	if bytes >= gb {
		return fmt.Sprintf("%.1f GB", float64(bytes)/gb)
	}
	return fmt.Sprintf("%d MB", bytes/mb)
}
