package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"apitop/internal/tui/theme"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a single-line block-character sparkline,
// keeping the most recent values when there are more than width.
func Sparkline(values []float64, width int, color lipgloss.Color) string {
	if width < 1 || len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	max := values[0]
	for _, v := range values {
		if v > max {
			max = v
		}
	}

	var b strings.Builder
	for _, v := range values {
		idx := 0
		if max > 0 {
			idx = int(v / max * float64(len(sparkRunes)-1))
		}
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkRunes) {
			idx = len(sparkRunes) - 1
		}
		b.WriteRune(sparkRunes[idx])
	}

	return lipgloss.NewStyle().
		Foreground(color).
		Background(theme.Active.Surface).
		Render(b.String())
}

// BarChart renders values as a vertical bar chart of the given height with a
// y-axis scale on the left and the most recent value highlighted.
func BarChart(values []float64, labels []string, width, height int, color lipgloss.Color) string {
	t := theme.Active
	if height < 2 {
		height = 2
	}
	if width < 8 || len(values) == 0 {
		return lipgloss.NewStyle().
			Foreground(t.TextDim).
			Background(t.Surface).
			Render("no data")
	}

	max := values[0]
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		max = 1
	}

	axisWidth := len(formatChartLabel(max)) + 1
	plotWidth := width - axisWidth
	if plotWidth < 1 {
		plotWidth = 1
	}
	if len(values) > plotWidth {
		off := len(values) - plotWidth
		values = values[off:]
		if len(labels) > off {
			labels = labels[off:]
		}
	}

	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	lastStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blankStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)

	step := chartTickStep(height)
	lines := make([]string, height)
	for row := 0; row < height; row++ {
		// row 0 is the top of the chart
		level := height - row
		var line strings.Builder

		tick := ""
		if row%step == 0 {
			tick = formatChartLabel(max * float64(level) / float64(height))
		}
		line.WriteString(axisStyle.Render(fmt.Sprintf("%*s ", axisWidth-1, tick)))

		for i, v := range values {
			filled := int(v/max*float64(height) + 0.5)
			ch := " "
			style := blankStyle
			if filled >= level {
				ch = "█"
				style = barStyle
				if i == len(values)-1 {
					style = lastStyle
				}
			} else if level == 1 {
				ch = "·"
			}
			line.WriteString(style.Render(ch))
		}
		lines[row] = line.String()
	}

	out := strings.Join(lines, "\n")
	if len(labels) > 0 {
		first := labels[0]
		last := labels[len(labels)-1]
		gap := plotWidth - len(first) - len(last)
		if gap < 1 {
			gap = 1
		}
		labelLine := strings.Repeat(" ", axisWidth) + first + strings.Repeat(" ", gap) + last
		out += "\n" + axisStyle.Render(labelLine)
	}
	return out
}

// chartTickStep picks how many rows apart y-axis labels should be.
func chartTickStep(height int) int {
	switch {
	case height <= 4:
		return 1
	case height <= 8:
		return 2
	default:
		return 3
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	case v >= 10:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}
