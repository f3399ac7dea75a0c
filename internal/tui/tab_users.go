package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"apitop/internal/cli"
	"apitop/internal/tui/components"
	"apitop/internal/tui/theme"
)

func (a *App) viewUsers() string {
	t := theme.Active
	var b strings.Builder

	if a.state.Unreachable {
		b.WriteString(a.unreachableBanner() + "\n")
	}

	snap := a.state.Current
	if snap == nil {
		return b.String()
	}

	half := components.LayoutRow(a.width, 2, 1)

	// Latency percentile panel.
	latMax := snap.P99LatencyMs
	if latMax <= 0 {
		latMax = 1
	}
	barWidth := components.CardInnerWidth(half[0]) - 22
	if barWidth < 8 {
		barWidth = 8
	}
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	var lat strings.Builder
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"p50", snap.P50LatencyMs},
		{"p95", snap.P95LatencyMs},
		{"p99", snap.P99LatencyMs},
	} {
		lat.WriteString(fmt.Sprintf("%s %s %s\n",
			labelStyle.Render(fmt.Sprintf("%-4s", p.name)),
			components.ProgressBar(p.value, latMax, barWidth, t.Accent),
			valStyle.Render(cli.FormatLatency(p.value))))
	}
	left := components.ContentCard("Latency Percentiles", strings.TrimRight(lat.String(), "\n"), half[0])

	// Per-user request distribution, heaviest first.
	var right string
	if len(snap.PerUserRequests) == 0 {
		right = components.ContentCard("Requests by User",
			lipgloss.NewStyle().Foreground(t.TextDim).Render("No active user data in window."), half[1])
	} else {
		type userCount struct {
			user  string
			count int64
		}
		users := make([]userCount, 0, len(snap.PerUserRequests))
		var max int64
		for u, c := range snap.PerUserRequests {
			users = append(users, userCount{u, c})
			if c > max {
				max = c
			}
		}
		sort.Slice(users, func(i, j int) bool {
			if users[i].count != users[j].count {
				return users[i].count > users[j].count
			}
			return users[i].user < users[j].user
		})

		uBarWidth := components.CardInnerWidth(half[1]) - 26
		if uBarWidth < 8 {
			uBarWidth = 8
		}
		var body strings.Builder
		for _, u := range users {
			body.WriteString(fmt.Sprintf("%s %s %s\n",
				labelStyle.Render(fmt.Sprintf("%-14s", truncateUser(u.user, 14))),
				components.ProgressBar(float64(u.count), float64(max), uBarWidth, t.Cyan),
				valStyle.Render(cli.FormatNumber(u.count))))
		}
		right = components.ContentCard("Requests by User", strings.TrimRight(body.String(), "\n"), half[1])
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	return b.String()
}

func truncateUser(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
