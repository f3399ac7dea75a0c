// Package cli provides formatting and rendering utilities for terminal
// output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatRPM formats a throughput value in requests per minute.
func FormatRPM(v float64) string {
	return fmt.Sprintf("%.0f RPM", v)
}

// FormatErrorRate formats a 0-1 error rate as a percentage.
// e.g., 0.042 -> "4.2%"
func FormatErrorRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// FormatLatency formats a millisecond latency value.
func FormatLatency(ms float64) string {
	if ms >= 10_000 {
		return fmt.Sprintf("%.1fs", ms/1000)
	}
	return fmt.Sprintf("%.0f ms", ms)
}

// FormatCost formats a USD cost value. Small values keep four decimal
// places so per-window API costs stay visible.
func FormatCost(cost float64) string {
	if cost >= 100 {
		return fmt.Sprintf("$%.0f", cost)
	}
	if cost >= 1 {
		return fmt.Sprintf("$%.2f", cost)
	}
	return fmt.Sprintf("$%.4f", cost)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
