package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderTable renders headers and rows as aligned columns. Widths are
// measured after styling, so cells may carry ANSI colors.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	const gap = "  "

	widths := make([]int, len(headers))
	measure := func(cells []string) {
		for i := 0; i < len(widths) && i < len(cells); i++ {
			widths[i] = max(widths[i], lipgloss.Width(cells[i]))
		}
	}
	measure(headers)
	for _, r := range rows {
		measure(r)
	}

	line := func(cells []string, style func(string) string) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := w - lipgloss.Width(cell)
			if style != nil {
				cell = style(cell)
			}
			if i < len(widths)-1 {
				cell += strings.Repeat(" ", max(pad, 0))
			}
			parts[i] = cell
		}
		return strings.Join(parts, gap)
	}

	var b strings.Builder
	b.WriteString(line(headers, func(s string) string { return StyleHeader.Render(s) }))
	b.WriteByte('\n')
	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = StyleDim.Render(strings.Repeat("─", w))
	}
	b.WriteString(strings.Join(seps, gap))
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(line(r, nil))
		b.WriteByte('\n')
	}
	return b.String()
}
