package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	colorText    = lipgloss.Color("#cdd6f4")
	colorBorder  = lipgloss.Color("#6c7086")
	colorActive  = lipgloss.Color("#89b4fa")
	colorFocused = lipgloss.Color("#a6e3a1")
)

// Pane draws a rounded box with the title embedded in the top border.
// Focused marks the pane receiving keys. Body, when set, is rendered into the
// inner box instead of Content.
type Pane struct {
	Title    string
	Height   int
	Content  string
	Body     Widget
	Selected bool
	Focused  bool
}

func (p Pane) Render(width, height int) string {
	if width <= 0 {
		return ""
	}
	h := p.Height
	if h <= 0 {
		h = height
	}
	if height > 0 && h > height {
		h = height
	}
	h = max(h, 3)
	width = max(width, 5)

	border := colorBorder
	if p.Selected {
		border = colorActive
	}
	if p.Focused {
		border = colorFocused
	}
	borderStyle := lipgloss.NewStyle().Foreground(border)
	titleStyle := lipgloss.NewStyle().Foreground(colorText).Bold(true)

	titlePrefix := ""
	if p.Focused {
		titlePrefix = "● "
	} else if p.Selected {
		titlePrefix = "▶ "
	}

	innerWidth := width - 2
	contentWidth := innerWidth - 2

	title := strings.TrimSpace(titlePrefix + p.Title)
	titleText := " " + title + " "
	if ansi.StringWidth(titleText) > innerWidth {
		titleText = " " + ansi.Truncate(title, max(1, innerWidth-2), "") + " "
	}
	dashes := max(0, innerWidth-ansi.StringWidth(titleText))
	leftDash := min(1, dashes)
	rightDash := dashes - leftDash

	v := borderStyle.Render("│")
	rows := make([]string, 0, h)
	rows = append(rows, borderStyle.Render("╭"+strings.Repeat("─", leftDash))+
		titleStyle.Render(titleText)+
		borderStyle.Render(strings.Repeat("─", rightDash)+"╮"))

	text := p.Content
	if p.Body != nil {
		text = p.Body.Render(contentWidth, h-2)
	}
	content := splitLines(text)
	for i := 0; i < h-2; i++ {
		line := ""
		if i < len(content) {
			line = content[i]
		}
		rows = append(rows, v+" "+padRight(line, contentWidth)+" "+v)
	}
	rows = append(rows, borderStyle.Render("╰"+strings.Repeat("─", innerWidth)+"╯"))
	return joinLines(rows)
}

func splitLines(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
