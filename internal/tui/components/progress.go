package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"apitop/internal/tui/theme"
)

// ProgressBar renders a horizontal bar filled proportionally to value/max.
func ProgressBar(value, max float64, width int, color lipgloss.Color) string {
	t := theme.Active
	if width < 1 {
		width = 1
	}

	frac := 0.0
	if max > 0 {
		frac = value / max
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	filled := int(frac*float64(width) + 0.5)
	if filled > width {
		filled = width
	}

	fillStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)

	return fillStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", width-filled))
}

// ColorForRate maps an error-rate percentage onto green/orange/red thresholds.
func ColorForRate(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 10:
		return t.Red
	case pct >= 5:
		return t.Orange
	default:
		return t.Green
	}
}
