// Package telemetry exposes apitop's own Prometheus metrics for the
// headless serve mode.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"apitop/internal/model"
	"apitop/internal/poll"
)

var (
	// PollsTotal counts completed refresh cycles by outcome.
	PollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apitop_polls_total",
			Help: "Total number of refresh cycles by outcome",
		},
		[]string{"outcome"},
	)

	// CoalescedTotal counts triggers dropped by the single-flight guard.
	CoalescedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "apitop_polls_coalesced_total",
			Help: "Total number of poll triggers coalesced while a cycle was in flight",
		},
	)

	// BackendThroughput mirrors the last fetched requests_per_min.
	BackendThroughput = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "apitop_backend_requests_per_min",
			Help: "Backend throughput from the latest snapshot",
		},
	)

	// BackendErrorRate mirrors the last fetched error_rate.
	BackendErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "apitop_backend_error_rate",
			Help: "Backend error rate (0-1) from the latest snapshot",
		},
	)

	// BackendLatency mirrors the last fetched latency percentiles.
	BackendLatency = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "apitop_backend_latency_ms",
			Help: "Backend latency percentiles from the latest snapshot",
		},
		[]string{"quantile"},
	)

	// BackendAnomalies reports currently flagged anomalies by severity.
	BackendAnomalies = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "apitop_backend_anomalies",
			Help: "Anomalies in the latest snapshot by severity",
		},
		[]string{"severity"},
	)

	// BackendUnreachable is 1 while the last cycle failed.
	BackendUnreachable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "apitop_backend_unreachable",
			Help: "1 if the most recent refresh cycle failed, else 0",
		},
	)
)

// outcomeLabel maps a poll outcome to its metric label.
func outcomeLabel(out poll.Outcome) string {
	switch out {
	case poll.OutcomeUpdated:
		return "updated"
	case poll.OutcomeStale:
		return "stale"
	default:
		return "skipped"
	}
}

// RecordCycle updates all gauges and counters from a finished cycle.
func RecordCycle(out poll.Outcome, st poll.State) {
	if out == poll.OutcomeSkipped {
		CoalescedTotal.Inc()
		return
	}
	PollsTotal.WithLabelValues(outcomeLabel(out)).Inc()

	if st.Unreachable {
		BackendUnreachable.Set(1)
	} else {
		BackendUnreachable.Set(0)
	}

	if st.Current == nil {
		return
	}
	BackendThroughput.Set(st.Current.RequestsPerMin)
	BackendErrorRate.Set(st.Current.ErrorRate)
	BackendLatency.WithLabelValues("0.5").Set(st.Current.P50LatencyMs)
	BackendLatency.WithLabelValues("0.95").Set(st.Current.P95LatencyMs)
	BackendLatency.WithLabelValues("0.99").Set(st.Current.P99LatencyMs)

	var critical, warning float64
	for _, a := range st.Anomalies {
		if a.Severity == model.SeverityCritical {
			critical++
		} else {
			warning++
		}
	}
	BackendAnomalies.WithLabelValues("critical").Set(critical)
	BackendAnomalies.WithLabelValues("warning").Set(warning)
}
