package formatter

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(title) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// Date formats a timestamp the way the board shows it: day/month/year.
// The zero time renders as a dash.
func Date(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Local().Format("02/01/2006 15:04")
}

// Field renders a "label: value" line for detail panes.
func Field(label, value string) string {
	if strings.TrimSpace(value) == "" {
		value = Dim("—")
	}
	return Dim(label+":") + " " + value
}
