// Package components provides reusable TUI building blocks for the dashboard.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"apitop/internal/tui/theme"
)

// LayoutRow splits totalWidth into n columns with a gap between each,
// distributing the remainder to the leftmost columns.
func LayoutRow(totalWidth, n, gap int) []int {
	if n <= 0 {
		return nil
	}
	avail := totalWidth - gap*(n-1)
	if avail < n {
		avail = n
	}
	base := avail / n
	rem := avail % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < rem {
			widths[i]++
		}
	}
	return widths
}

// MetricCard renders a bordered KPI card with a label, a large value, and an
// optional detail line below the value.
func MetricCard(label, value, detail string, width int, accent lipgloss.Color) string {
	t := theme.Active

	inner := width - 4 // border + padding
	if inner < 1 {
		inner = 1
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(inner)
	valueStyle := lipgloss.NewStyle().
		Foreground(accent).
		Background(t.Surface).
		Bold(true).
		Width(inner)
	detailStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface).
		Width(inner)

	var b strings.Builder
	b.WriteString(labelStyle.Render(truncate(label, inner)))
	b.WriteString("\n")
	b.WriteString(valueStyle.Render(truncate(value, inner)))
	if detail != "" {
		b.WriteString("\n")
		b.WriteString(detailStyle.Render(truncate(detail, inner)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		BorderBackground(t.Background).
		Background(t.Surface).
		Padding(0, 1).
		Width(width - 2).
		Render(b.String())
}

// MetricCardRow lays out KPI cards side by side.
func MetricCardRow(cards ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// ContentCard renders a bordered panel with a title header and free-form body.
func ContentCard(title, body string, width int) string {
	t := theme.Active

	inner := width - 4
	if inner < 1 {
		inner = 1
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true).
		Width(inner)

	content := titleStyle.Render(truncate(title, inner))
	if body != "" {
		bodyStyle := lipgloss.NewStyle().
			Foreground(t.TextPrimary).
			Background(t.Surface).
			Width(inner)
		content += "\n" + bodyStyle.Render(body)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		BorderBackground(t.Background).
		Background(t.Surface).
		Padding(0, 1).
		Width(width - 2).
		Render(content)
}

// CardInnerWidth returns the usable content width inside a card of the given
// outer width.
func CardInnerWidth(width int) int {
	inner := width - 4
	if inner < 1 {
		inner = 1
	}
	return inner
}

func truncate(s string, max int) string {
	if max < 1 {
		return ""
	}
	if lipgloss.Width(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
