package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"pecha/storage"
)

// LookupPanelState holds the result of a one-shot explain/translate lookup
type LookupPanelState struct {
	Kind    string // "explain" or "translate"
	Query   string
	Result  string
	Err     string
	Pending bool
}

func (a AppView) lookupPanelGeometry() (x, y, w, h int) {
	g, ok := a.dataModel.Workspace.Panels[storage.PanelLookup]
	if !ok || g.Width == 0 {
		w = min(56, a.width-4)
		h = 14
		x = a.width - w - 2
		y = 14
	} else {
		x, y, w, h = g.X, g.Y, g.Width, g.Height
	}
	return clampPanelGeometry(x, y, w, h, a.width, a.height-6)
}

func (a *AppView) saveLookupPanelGeometry(x, y, w, h int) tea.Cmd {
	if a.dataModel.Workspace.Panels == nil {
		a.dataModel.Workspace.Panels = make(map[string]storage.PanelGeometry)
	}
	a.dataModel.Workspace.Panels[storage.PanelLookup] = storage.PanelGeometry{X: x, Y: y, Width: w, Height: h}
	return a.dataModel.PersistWorkspace()
}

// handleLookupPanelKeys moves (alt+arrows) and resizes (alt+shift+arrows) the
// panel while it is open. Returns false for keys it does not consume.
func (a *AppView) handleLookupPanelKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	x, y, w, h := a.lookupPanelGeometry()

	switch msg.String() {
	case "alt+up":
		y--
	case "alt+down":
		y++
	case "alt+left":
		x--
	case "alt+right":
		x++
	case "alt+shift+up":
		h--
	case "alt+shift+down":
		h++
	case "alt+shift+left":
		w--
	case "alt+shift+right":
		w++
	default:
		return false, nil
	}

	x, y, w, h = clampPanelGeometry(x, y, w, h, a.width, a.height-6)
	return true, a.saveLookupPanelGeometry(x, y, w, h)
}

// overlayLookupPanel draws the explain/translate result over the transcript
func (a AppView) overlayLookupPanel(view string) string {
	x, y, w, h := a.lookupPanelGeometry()
	p := a.lookupPanel

	innerW := w - 4
	var lines []string

	title := "Lookup"
	switch p.Kind {
	case "explain":
		title = "Explain"
	case "translate":
		title = "Translate"
	}
	lines = append(lines, TitleStyle.Render(title))

	if p.Query != "" {
		lines = append(lines, DimStyle.Render(runewidth.Truncate(
			fmt.Sprintf("%q", strings.ReplaceAll(p.Query, "\n", " ")), innerW, "…")))
	}
	lines = append(lines, "")

	switch {
	case p.Pending:
		lines = append(lines, a.loadingSpinner.View()+" Looking up...")
	case p.Err != "":
		lines = append(lines, lipgloss.NewStyle().Foreground(dangerColor).Render(p.Err))
	default:
		body := wrapToWidth(p.Result, innerW)
		maxRows := h - 6
		if maxRows < 1 {
			maxRows = 1
		}
		if len(body) > maxRows {
			body = append(body[:maxRows], DimStyle.Render(fmt.Sprintf("↓ %d more line(s)", len(body)-maxRows)))
		}
		lines = append(lines, body...)
	}

	lines = append(lines, "", HelpStyle.Render("Esc close"))

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(warningColor).
		Width(w - 2).
		Height(h - 2).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))

	return overlayAt(view, panel, x, y)
}
