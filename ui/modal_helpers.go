package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var modalBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(accentColor).
	Padding(1, 2)

// renderModalBox centers a bordered box on the screen. Footer is optional.
func renderModalBox(title, body, footer string, boxWidth, screenW, screenH int) string {
	if boxWidth > screenW-4 && screenW > 8 {
		boxWidth = screenW - 4
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(TitleStyle.Render(title))
		b.WriteString("\n\n")
	}
	b.WriteString(body)
	if footer != "" {
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render(footer))
	}

	box := modalBorderStyle.Width(boxWidth).Render(b.String())
	return lipgloss.Place(screenW, screenH, lipgloss.Center, lipgloss.Center, box)
}

// renderPassphraseModal prompts for the credential store passphrase
func renderPassphraseModal(input textinput.Model, errMsg string, width, height int) string {
	var body strings.Builder
	body.WriteString("Credentials are encrypted. Enter the passphrase to unlock them.\n\n")
	body.WriteString(input.View())
	if errMsg != "" {
		body.WriteString("\n\n")
		body.WriteString(lipgloss.NewStyle().Foreground(dangerColor).Render(errMsg))
	}
	footer := FormatFooter("Enter", "Unlock", "Esc", "Skip")
	return renderModalBox("Unlock credentials", body.String(), footer, 56, width, height)
}

// renderInfoModal shows a simple notification with a single dismiss action
func renderInfoModal(title, msg string, width, height int) string {
	footer := FormatFooter("Enter/Esc", "Close")
	return renderModalBox(title, msg, footer, 60, width, height)
}

// ansiLeft keeps the first cols display columns of a line, preserving ANSI
// escape sequences and terminating with a reset so panel text that follows
// starts from a clean state.
func ansiLeft(line string, cols int) string {
	var b strings.Builder
	width := 0
	inEscape := false
	sawEscape := false

	for _, r := range line {
		if inEscape {
			b.WriteRune(r)
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		if r == '\x1b' {
			inEscape = true
			sawEscape = true
			b.WriteRune(r)
			continue
		}
		rw := runewidth.RuneWidth(r)
		if width+rw > cols {
			break
		}
		width += rw
		b.WriteRune(r)
	}

	if sawEscape {
		b.WriteString("\x1b[0m")
	}
	// Pad up to the requested column so the overlay starts aligned
	if width < cols {
		b.WriteString(strings.Repeat(" ", cols-width))
	}
	return b.String()
}

// overlayAt draws panel over base starting at column x, row y. Everything to
// the right of the panel on covered rows is dropped, which keeps the splice
// ANSI-safe.
func overlayAt(base, panel string, x, y int) string {
	baseLines := strings.Split(base, "\n")
	panelLines := strings.Split(panel, "\n")

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	for len(baseLines) < y+len(panelLines) {
		baseLines = append(baseLines, "")
	}

	for i, pl := range panelLines {
		row := y + i
		baseLines[row] = ansiLeft(baseLines[row], x) + pl
	}
	return strings.Join(baseLines, "\n")
}

// clampPanelGeometry keeps a panel fully on screen
func clampPanelGeometry(x, y, w, h, screenW, screenH int) (int, int, int, int) {
	if w < 24 {
		w = 24
	}
	if h < 6 {
		h = 6
	}
	if screenW > 0 && w > screenW-2 {
		w = screenW - 2
	}
	if screenH > 0 && h > screenH-2 {
		h = screenH - 2
	}
	if screenW > 0 && x+w > screenW {
		x = screenW - w
	}
	if screenH > 0 && y+h > screenH {
		y = screenH - h
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y, w, h
}

// wrapToWidth wraps plain text at display width, breaking long words
func wrapToWidth(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		if para == "" {
			out = append(out, "")
			continue
		}
		line := ""
		lineW := 0
		for _, word := range strings.Fields(para) {
			wW := runewidth.StringWidth(word)
			if lineW > 0 && lineW+1+wW > width {
				out = append(out, line)
				line, lineW = "", 0
			}
			for wW > width {
				// A single word wider than the panel is hard-split
				cut := runewidth.Truncate(word, width, "")
				out = append(out, cut)
				word = strings.TrimPrefix(word, cut)
				wW = runewidth.StringWidth(word)
			}
			if lineW > 0 {
				line += " "
				lineW++
			}
			line += word
			lineW += wW
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
