package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apitop/internal/model"
	"apitop/internal/poll"
)

type stubFetcher struct {
	snap *model.MetricsSnapshot
	err  error
}

func (s stubFetcher) FetchMetrics(context.Context) (*model.MetricsSnapshot, error) {
	return s.snap, s.err
}

func newTestService(f poll.Fetcher) *Service {
	p := poll.New(f, time.Minute)
	return New(Config{BackendURL: "http://localhost:8000", Sensitivity: 1.5}, p, nil)
}

func TestHealthEndpoint(t *testing.T) {
	svc := newTestService(stubFetcher{snap: &model.MetricsSnapshot{}})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	svc.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok\n", rr.Body.String())
}

func TestStatusReflectsPollerState(t *testing.T) {
	svc := newTestService(stubFetcher{snap: &model.MetricsSnapshot{
		RequestsPerMin: 77,
		ErrorRate:      0.02,
	}})
	svc.poller.Poll(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	rr := httptest.NewRecorder()
	svc.Router().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var st Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.Equal(t, int64(1), st.PollCount)
	assert.False(t, st.Unreachable)
	assert.Equal(t, 1, st.HistoryLen)
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, 77.0, st.Snapshot.RequestsPerMin)
	assert.Equal(t, 1.5, st.Sensitivity)
}

func TestStatusReportsUnreachable(t *testing.T) {
	svc := newTestService(stubFetcher{err: errors.New("connection refused")})
	svc.poller.Poll(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	rr := httptest.NewRecorder()
	svc.Router().ServeHTTP(rr, req)

	var st Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.True(t, st.Unreachable)
	assert.Contains(t, st.LastError, "connection refused")
	assert.Nil(t, st.Snapshot)
}

func TestHistoryEndpoint(t *testing.T) {
	svc := newTestService(stubFetcher{snap: &model.MetricsSnapshot{
		RequestsPerMin: 10,
		ErrorRate:      0.01,
	}})
	svc.poller.Poll(context.Background())
	svc.poller.Poll(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	rr := httptest.NewRecorder()
	svc.Router().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var entries []historyEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, 10.0, entries[0].Throughput)
	assert.InDelta(t, 1.0, entries[0].ErrorRatePercent, 1e-9)
}

func TestHistoryEndpointEmpty(t *testing.T) {
	svc := newTestService(stubFetcher{snap: &model.MetricsSnapshot{}})

	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	rr := httptest.NewRecorder()
	svc.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestIncidentsEndpoint(t *testing.T) {
	svc := newTestService(stubFetcher{snap: &model.MetricsSnapshot{
		Anomalies: []string{"CRITICAL: error rate 40%", "latency above baseline"},
	}})
	svc.poller.Poll(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/v1/incidents", nil)
	rr := httptest.NewRecorder()
	svc.Router().ServeHTTP(rr, req)

	var incidents []incidentEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &incidents))
	require.Len(t, incidents, 2)
	assert.Equal(t, "critical", incidents[0].Severity)
	assert.Equal(t, "warning", incidents[1].Severity)
}

func TestPublishEventRingBuffer(t *testing.T) {
	svc := newTestService(stubFetcher{snap: &model.MetricsSnapshot{}})
	svc.cfg.EventsBuffer = 2

	svc.publishEvent(Event{Type: "snapshot"})
	svc.publishEvent(Event{Type: "snapshot"})
	svc.publishEvent(Event{Type: "unreachable"})

	svc.mu.Lock()
	defer svc.mu.Unlock()
	require.Len(t, svc.events, 2)
	assert.Equal(t, int64(2), svc.events[0].ID)
	assert.Equal(t, int64(3), svc.events[1].ID)
	assert.Equal(t, "unreachable", svc.events[1].Type)
}

func TestOnCycleSkippedPublishesNothing(t *testing.T) {
	svc := newTestService(stubFetcher{snap: &model.MetricsSnapshot{}})

	svc.onCycle(poll.OutcomeSkipped, poll.State{})

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Empty(t, svc.events)
}
