package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"apitop/internal/model"
	"apitop/internal/tui/components"
	"apitop/internal/tui/theme"
)

func (a *App) viewIncidents() string {
	t := theme.Active
	var b strings.Builder

	if a.state.Unreachable {
		b.WriteString(a.unreachableBanner() + "\n")
	}

	if len(a.state.Anomalies) == 0 {
		body := lipgloss.NewStyle().
			Foreground(t.Green).
			Bold(true).
			Render("✓ All systems nominal.")
		b.WriteString(components.ContentCard("Incidents", body, a.width))
		return b.String()
	}

	critStyle := lipgloss.NewStyle().Foreground(t.Red).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange)
	msgStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	var body strings.Builder
	for _, an := range a.state.Anomalies {
		badge := warnStyle.Render("▲ WARN")
		if an.Severity == model.SeverityCritical {
			badge = critStyle.Render("✖ CRIT")
		}
		body.WriteString(fmt.Sprintf("%s  %s\n", badge, msgStyle.Render(an.Message)))
	}

	critN := 0
	for _, an := range a.state.Anomalies {
		if an.Severity == model.SeverityCritical {
			critN++
		}
	}
	title := fmt.Sprintf("Incidents · %d active (%d critical)", len(a.state.Anomalies), critN)
	b.WriteString(components.ContentCard(title, strings.TrimRight(body.String(), "\n"), a.width))
	return b.String()
}
