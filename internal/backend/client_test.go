package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"apitop/internal/model"
)

func TestFetchMetricsFullPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/metrics" {
			t.Errorf("path = %q, want /metrics", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"requests_per_min": 120,
			"error_rate": 0.04,
			"p50_latency": 200,
			"p95_latency": 900,
			"p99_latency": 1400,
			"estimated_cost_usd": 0.0421,
			"per_user_requests": {"alice_001": 40, "bob_002": 80},
			"anomalies": ["CRITICAL: error rate 40%", "latency above baseline"]
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	snap, err := c.FetchMetrics(context.Background())
	if err != nil {
		t.Fatalf("FetchMetrics: %v", err)
	}

	if snap.RequestsPerMin != 120 {
		t.Errorf("RequestsPerMin = %v, want 120", snap.RequestsPerMin)
	}
	if snap.ErrorRate != 0.04 {
		t.Errorf("ErrorRate = %v, want 0.04", snap.ErrorRate)
	}
	if snap.P95LatencyMs != 900 {
		t.Errorf("P95LatencyMs = %v, want 900", snap.P95LatencyMs)
	}
	if snap.PerUserRequests["bob_002"] != 80 {
		t.Errorf("PerUserRequests[bob_002] = %d, want 80", snap.PerUserRequests["bob_002"])
	}
	if len(snap.Anomalies) != 2 {
		t.Fatalf("Anomalies len = %d, want 2", len(snap.Anomalies))
	}
}

func TestFetchMetricsMissingFieldsDefaultToZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	snap, err := New(srv.URL, 0).FetchMetrics(context.Background())
	if err != nil {
		t.Fatalf("FetchMetrics on empty object: %v", err)
	}
	if snap.RequestsPerMin != 0 || snap.ErrorRate != 0 || snap.EstimatedCostUSD != 0 {
		t.Errorf("numeric fields not zero: %+v", snap)
	}
	if len(snap.PerUserRequests) != 0 {
		t.Errorf("PerUserRequests = %v, want empty", snap.PerUserRequests)
	}
	if len(snap.Anomalies) != 0 {
		t.Errorf("Anomalies = %v, want empty", snap.Anomalies)
	}
}

func TestFetchMetricsMalformedBodyIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0).FetchMetrics(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v (%T), want *FetchError", err, err)
	}
	if fe.Err == nil {
		t.Error("FetchError cause is nil")
	}
}

func TestFetchMetricsConnectionRefusedIsFetchError(t *testing.T) {
	// Closed server guarantees connection refused on its old address.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, 0).FetchMetrics(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v (%T), want *FetchError", err, err)
	}
}

func TestFetchMetricsNon2xxIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0).FetchMetrics(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v (%T), want *FetchError", err, err)
	}
}

func TestFetchMetricsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	start := time.Now()
	_, err := New(srv.URL, 50*time.Millisecond).FetchMetrics(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("fetch took %v, timeout not applied", elapsed)
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v (%T), want *FetchError", err, err)
	}
}

func TestSendEventPostsJSON(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/ingest" {
			t.Errorf("path = %q, want /ingest", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	ev := model.LogEvent{
		Timestamp:  "2025-11-03T14:30:00Z",
		UserID:     "alice_001",
		LatencyMs:  350,
		TokensUsed: 800,
		IsError:    false,
	}
	if err := New(srv.URL, 0).SendEvent(context.Background(), ev); err != nil {
		t.Fatalf("SendEvent: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("ingest calls = %d, want 1", calls.Load())
	}
}

func TestSendEventFailureReturnsErrorWithoutPanic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := New(url, 0).SendEvent(context.Background(), model.LogEvent{UserID: "bob_002"})
	if err == nil {
		t.Fatal("expected error on refused connection")
	}
}
