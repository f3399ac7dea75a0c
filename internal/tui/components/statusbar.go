package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"apitop/internal/tui/theme"
)

// StatusBar renders the bottom bar: connection state on the left, key hints
// on the right, padded to width.
func StatusBar(left, right string, width int, alert bool) string {
	t := theme.Active

	leftColor := t.Green
	if alert {
		leftColor = t.Red
	}
	leftStyle := lipgloss.NewStyle().
		Foreground(leftColor).
		Background(t.Surface).
		Padding(0, 1)
	rightStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface).
		Padding(0, 1)

	l := leftStyle.Render(left)
	r := rightStyle.Render(right)

	gap := width - lipgloss.Width(l) - lipgloss.Width(r)
	if gap < 1 {
		gap = 1
	}
	fill := lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", gap))
	return l + fill + r
}
