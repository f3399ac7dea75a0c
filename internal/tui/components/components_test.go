package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"apitop/internal/tui/theme"
)

func TestLayoutRow(t *testing.T) {
	tests := []struct {
		name  string
		total int
		n     int
		gap   int
		want  []int
	}{
		{"even split", 40, 4, 0, []int{10, 10, 10, 10}},
		{"remainder to leftmost", 41, 4, 0, []int{11, 10, 10, 10}},
		{"with gaps", 43, 4, 1, []int{10, 10, 10, 10}},
		{"zero columns", 40, 0, 1, nil},
		{"tiny width", 2, 4, 1, []int{1, 1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LayoutRow(tt.total, tt.n, tt.gap)
			if len(got) != len(tt.want) {
				t.Fatalf("LayoutRow(%d,%d,%d) = %v, want %v", tt.total, tt.n, tt.gap, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("LayoutRow(%d,%d,%d)[%d] = %d, want %d", tt.total, tt.n, tt.gap, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTabAtX(t *testing.T) {
	// First tab "1 Overview" renders with one cell of padding each side.
	if got := TabAtX(0); got != 0 {
		t.Errorf("TabAtX(0) = %d, want 0", got)
	}
	if got := TabAtX(5); got != 0 {
		t.Errorf("TabAtX(5) = %d, want 0", got)
	}
	// Far past the last tab.
	if got := TabAtX(500); got != -1 {
		t.Errorf("TabAtX(500) = %d, want -1", got)
	}
	// Every tab must be reachable at some column.
	seen := make(map[int]bool)
	for x := 0; x < 100; x++ {
		if idx := TabAtX(x); idx >= 0 {
			seen[idx] = true
		}
	}
	for i := range Tabs {
		if !seen[i] {
			t.Errorf("tab %d (%s) not reachable by any column", i, Tabs[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 10, theme.Active.Blue); got != "" {
		t.Errorf("Sparkline(nil) = %q, want empty", got)
	}
	if got := Sparkline([]float64{1, 2, 3}, 0, theme.Active.Blue); got != "" {
		t.Errorf("Sparkline with zero width = %q, want empty", got)
	}

	got := Sparkline([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 4, theme.Active.Blue)
	if w := lipgloss.Width(got); w != 4 {
		t.Errorf("Sparkline width = %d, want 4 (keeps most recent values)", w)
	}
}

func TestProgressBar(t *testing.T) {
	full := ProgressBar(10, 10, 8, theme.Active.Green)
	if !strings.Contains(full, strings.Repeat("█", 8)) {
		t.Errorf("full bar should be all filled: %q", full)
	}
	empty := ProgressBar(0, 10, 8, theme.Active.Green)
	if !strings.Contains(empty, strings.Repeat("░", 8)) {
		t.Errorf("empty bar should be all unfilled: %q", empty)
	}
	// Overshoot clamps rather than overflowing the width.
	over := ProgressBar(25, 10, 8, theme.Active.Green)
	if w := lipgloss.Width(over); w != 8 {
		t.Errorf("overfilled bar width = %d, want 8", w)
	}
	// Zero max does not divide by zero.
	zero := ProgressBar(5, 0, 8, theme.Active.Green)
	if w := lipgloss.Width(zero); w != 8 {
		t.Errorf("zero-max bar width = %d, want 8", w)
	}
}

func TestColorForRate(t *testing.T) {
	tests := []struct {
		pct  float64
		want lipgloss.Color
	}{
		{0, theme.Active.Green},
		{4.9, theme.Active.Green},
		{5, theme.Active.Orange},
		{9.9, theme.Active.Orange},
		{10, theme.Active.Red},
		{50, theme.Active.Red},
	}
	for _, tt := range tests {
		if got := ColorForRate(tt.pct); got != tt.want {
			t.Errorf("ColorForRate(%v) = %v, want %v", tt.pct, got, tt.want)
		}
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.5, "0.5"},
		{9.9, "9.9"},
		{42, "42"},
		{1500, "1.5k"},
		{2_400_000, "2.4M"},
	}
	for _, tt := range tests {
		if got := formatChartLabel(tt.in); got != tt.want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBarChartNoData(t *testing.T) {
	got := BarChart(nil, nil, 40, 6, theme.Active.Blue)
	if !strings.Contains(got, "no data") {
		t.Errorf("BarChart with no values = %q, want placeholder", got)
	}
}
