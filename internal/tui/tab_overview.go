package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"apitop/internal/cli"
	"apitop/internal/model"
	"apitop/internal/tui/components"
	"apitop/internal/tui/theme"
)

const (
	tabOverview = iota
	tabUsers
	tabIncidents
	tabSettings
)

func (a *App) viewOverview() string {
	t := theme.Active
	var b strings.Builder

	if a.state.Unreachable {
		b.WriteString(a.unreachableBanner() + "\n")
	}

	snap := a.state.Current
	if snap == nil {
		b.WriteString("\n" + lipgloss.NewStyle().
			Foreground(t.TextMuted).
			Render("  No metrics received yet."))
		return b.String()
	}

	widths := components.LayoutRow(a.width, 4, 1)

	criticals := 0
	for _, an := range a.state.Anomalies {
		if an.Severity == model.SeverityCritical {
			criticals++
		}
	}
	errColor := components.ColorForRate(snap.ErrorRate * 100)
	anomalyDetail := "no anomalies"
	if n := len(a.state.Anomalies); n > 0 {
		anomalyDetail = fmt.Sprintf("%d anomalies (%d critical)", n, criticals)
	}

	cards := components.MetricCardRow(
		components.MetricCard("Throughput", cli.FormatRPM(snap.RequestsPerMin), "requests per minute", widths[0], t.Blue),
		components.MetricCard("Error Rate", cli.FormatErrorRate(snap.ErrorRate), anomalyDetail, widths[1], errColor),
		components.MetricCard("P95 Latency", cli.FormatLatency(snap.P95LatencyMs), fmt.Sprintf("p50 %s · p99 %s", cli.FormatLatency(snap.P50LatencyMs), cli.FormatLatency(snap.P99LatencyMs)), widths[2], t.Accent),
		components.MetricCard("Est. Cost", cli.FormatCost(snap.EstimatedCostUSD), "window total", widths[3], t.Yellow),
	)
	b.WriteString(cards + "\n")

	half := components.LayoutRow(a.width, 2, 1)
	chartHeight := a.height - lipgloss.Height(cards) - 8
	if chartHeight < 4 {
		chartHeight = 4
	}
	if chartHeight > 10 {
		chartHeight = 10
	}

	throughput := make([]float64, len(a.state.History))
	errRates := make([]float64, len(a.state.History))
	var timeLabels []string
	for i, rec := range a.state.History {
		throughput[i] = rec.Throughput
		errRates[i] = rec.ErrorRatePercent
	}
	if n := len(a.state.History); n > 0 {
		timeLabels = make([]string, n)
		for i, rec := range a.state.History {
			timeLabels[i] = rec.Time.Format("15:04:05")
		}
	}

	inner := components.CardInnerWidth(half[0])
	left := components.ContentCard("Throughput (RPM)",
		components.BarChart(throughput, timeLabels, inner, chartHeight, t.Blue), half[0])
	right := components.ContentCard("Error Rate (%)",
		components.BarChart(errRates, timeLabels, components.CardInnerWidth(half[1]), chartHeight, t.Orange), half[1])
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n")

	trend := components.Sparkline(throughput, a.width-14, t.Blue)
	if trend != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render("  trend ") + trend)
	}
	return b.String()
}

func (a *App) unreachableBanner() string {
	t := theme.Active
	msg := "Backend unreachable"
	if a.state.LastErr != nil {
		msg = fmt.Sprintf("Backend unreachable: %v", a.state.LastErr)
	}
	if !a.state.LastUpdate.IsZero() {
		msg += fmt.Sprintf(" · showing data from %s", a.state.LastUpdate.Format("15:04:05"))
	}
	return lipgloss.NewStyle().
		Foreground(t.Red).
		Background(t.Surface).
		Bold(true).
		Padding(0, 1).
		Width(a.width).
		Render(msg)
}
