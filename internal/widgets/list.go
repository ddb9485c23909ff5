package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	cursorStyle = lipgloss.NewStyle().Foreground(colorFocused).Bold(true)
	detailStyle = lipgloss.NewStyle().Foreground(colorBorder)
)

// ListItem is one selectable row.
type ListItem struct {
	Label  string
	Detail string
}

// List renders items with a cursor marker and scrolls so the cursor row is
// always visible. Message replaces the rows when set.
type List struct {
	Items   []ListItem
	Cursor  int
	Active  bool
	Message string
}

func (l List) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if l.Message != "" {
		return padRight(l.Message, width)
	}
	if len(l.Items) == 0 {
		return ""
	}
	cursor := min(max(l.Cursor, 0), len(l.Items)-1)
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := min(len(l.Items), start+height)
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		item := l.Items[i]
		line := "  " + item.Label
		if l.Active && i == cursor {
			line = cursorStyle.Render("> " + item.Label)
		}
		if item.Detail != "" {
			line += " " + detailStyle.Render(item.Detail)
		}
		rows = append(rows, padRight(line, width))
	}
	return strings.Join(rows, "\n")
}
