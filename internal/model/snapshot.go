// Package model defines the core data types for the apitop monitor.
package model

import "time"

// MetricsSnapshot is one aggregate metrics payload fetched from the
// backend. All fields are optional in the wire format; absent fields
// decode to their zero value. A snapshot is immutable after fetch.
type MetricsSnapshot struct {
	RequestsPerMin   float64          `json:"requests_per_min"`
	ErrorRate        float64          `json:"error_rate"` // fraction in [0,1]
	P50LatencyMs     float64          `json:"p50_latency"`
	P95LatencyMs     float64          `json:"p95_latency"`
	P99LatencyMs     float64          `json:"p99_latency"`
	EstimatedCostUSD float64          `json:"estimated_cost_usd"`
	PerUserRequests  map[string]int64 `json:"per_user_requests"`
	Anomalies        []string         `json:"anomalies"`
}

// HistoryRecord is the per-poll trend sample derived from a snapshot.
type HistoryRecord struct {
	Time             time.Time
	Throughput       float64
	ErrorRatePercent float64
}

// NewHistoryRecord derives the trend sample for a snapshot fetched at t.
func NewHistoryRecord(s *MetricsSnapshot, t time.Time) HistoryRecord {
	return HistoryRecord{
		Time:             t,
		Throughput:       s.RequestsPerMin,
		ErrorRatePercent: s.ErrorRate * 100,
	}
}

// LogEvent is a single synthetic log record posted to the backend
// ingestion endpoint by the burst generator.
type LogEvent struct {
	Timestamp  string `json:"timestamp"` // ISO-8601 UTC
	UserID     string `json:"user_id"`
	LatencyMs  int    `json:"latency_ms"`
	TokensUsed int    `json:"tokens_used"`
	IsError    bool   `json:"is_error"`
}
