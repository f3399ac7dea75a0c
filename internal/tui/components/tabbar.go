package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"apitop/internal/tui/theme"
)

// Tabs are the dashboard views in display order.
var Tabs = []string{"Overview", "Users", "Incidents", "Settings"}

// RenderTabBar renders the tab strip with the active tab highlighted. Each
// tab shows its 1-based index as the hotkey.
func RenderTabBar(active, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Accent).
		Bold(true).
		Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Padding(0, 1)

	parts := make([]string, 0, len(Tabs))
	for i, name := range Tabs {
		label := fmt.Sprintf("%d %s", i+1, name)
		if i == active {
			parts = append(parts, activeStyle.Render(label))
		} else {
			parts = append(parts, inactiveStyle.Render(label))
		}
	}

	bar := strings.Join(parts, lipgloss.NewStyle().Background(t.Background).Render(" "))
	if w := lipgloss.Width(bar); w < width {
		bar += lipgloss.NewStyle().Background(t.Background).Render(strings.Repeat(" ", width-w))
	}
	return bar
}

// TabAtX returns the index of the tab occupying column x in the rendered tab
// bar, or -1 if x falls in a gap or past the last tab. Used for mouse clicks.
func TabAtX(x int) int {
	pos := 0
	for i, name := range Tabs {
		w := len(fmt.Sprintf("%d %s", i+1, name)) + 2 // padding
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1 // separator
	}
	return -1
}
