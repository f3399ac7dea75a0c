package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEmpty(t *testing.T) {
	assert.Empty(t, Classify(nil))
	assert.Empty(t, Classify([]string{}))
}

func TestClassifySeverities(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Severity
	}{
		{"critical uppercase", "CRITICAL: disk full", SeverityCritical},
		{"critical lowercase", "critical error", SeverityCritical},
		{"critical mixed case", "Critical latency regression", SeverityCritical},
		{"critical embedded", "error rate is now critical: 40%", SeverityCritical},
		{"warning", "latency spike", SeverityWarning},
		{"warning unrelated", "p99 above baseline", SeverityWarning},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify([]string{tc.in})
			assert.Len(t, got, 1)
			assert.Equal(t, tc.in, got[0].Message)
			assert.Equal(t, tc.want, got[0].Severity)
		})
	}
}

func TestClassifyPreservesOrder(t *testing.T) {
	in := []string{"CRITICAL: error rate 40%", "latency above baseline"}
	got := Classify(in)

	assert.Len(t, got, 2)
	assert.Equal(t, SeverityCritical, got[0].Severity)
	assert.Equal(t, SeverityWarning, got[1].Severity)
	assert.Equal(t, in[0], got[0].Message)
	assert.Equal(t, in[1], got[1].Message)
}

func TestNewHistoryRecordScalesErrorRate(t *testing.T) {
	at := time.Date(2025, 11, 3, 14, 30, 0, 0, time.UTC)
	snap := &MetricsSnapshot{RequestsPerMin: 42, ErrorRate: 0.05}
	rec := NewHistoryRecord(snap, at)

	assert.Equal(t, at, rec.Time)
	assert.Equal(t, 42.0, rec.Throughput)
	assert.InDelta(t, 5.0, rec.ErrorRatePercent, 1e-9)
}
