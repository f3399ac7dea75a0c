// Package monitor provides the headless long-running monitor service:
// the poller plus an HTTP/SSE API over its state.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"apitop/internal/model"
	"apitop/internal/poll"
	"apitop/internal/telemetry"
)

// Config controls the service runtime behavior.
type Config struct {
	BackendURL   string
	Interval     time.Duration
	Addr         string
	Sensitivity  float64
	EventsBuffer int
}

// Event is emitted on every non-skipped refresh cycle.
type Event struct {
	ID          int64                  `json:"id"`
	Type        string                 `json:"type"` // "snapshot" or "unreachable"
	Timestamp   time.Time              `json:"timestamp"`
	Snapshot    *model.MetricsSnapshot `json:"snapshot,omitempty"`
	Error       string                 `json:"error,omitempty"`
	Unreachable bool                   `json:"unreachable"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time              `json:"started_at"`
	BackendURL      string                 `json:"backend_url"`
	PollIntervalSec int                    `json:"poll_interval_sec"`
	Sensitivity     float64                `json:"sensitivity"`
	PollCount       int64                  `json:"poll_count"`
	Coalesced       int64                  `json:"coalesced"`
	LastUpdateAt    time.Time              `json:"last_update_at"`
	Unreachable     bool                   `json:"unreachable"`
	LastError       string                 `json:"last_error,omitempty"`
	Snapshot        *model.MetricsSnapshot `json:"snapshot,omitempty"`
	HistoryLen      int                    `json:"history_len"`
	EventCount      int                    `json:"event_count"`
	SubscriberCount int                    `json:"subscriber_count"`
}

// historyEntry is the wire form of a trend sample.
type historyEntry struct {
	Time             time.Time `json:"time"`
	Throughput       float64   `json:"throughput"`
	ErrorRatePercent float64   `json:"error_rate_percent"`
}

// incidentEntry is the wire form of a classified anomaly.
type incidentEntry struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Service runs the poller and serves its state over HTTP.
type Service struct {
	cfg    Config
	poller *poll.Poller
	log    *zap.Logger

	mu          sync.Mutex
	startedAt   time.Time
	nextEventID int64
	events      []Event
	nextSubID   int
	subs        map[int]chan Event
}

// New returns a new monitor service with the provided config.
func New(cfg Config, poller *poll.Poller, log *zap.Logger) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8790"
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cfg:       cfg,
		poller:    poller,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Router builds the HTTP API.
func (s *Service) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/v1/history", s.handleHistory).Methods(http.MethodGet)
	r.HandleFunc("/v1/incidents", s.handleIncidents).Methods(http.MethodGet)
	r.HandleFunc("/v1/stream", s.handleStream).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.Use(s.loggingMiddleware)
	return r
}

// Run starts the HTTP server and the polling loop until ctx is
// canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	pollCtx, cancelPoll := context.WithCancel(ctx)
	defer cancelPoll()
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		s.poller.Run(pollCtx, s.onCycle)
	}()

	s.log.Info("monitor listening",
		zap.String("addr", s.cfg.Addr),
		zap.String("backend", s.cfg.BackendURL),
		zap.Duration("interval", s.poller.Interval()),
	)

	select {
	case <-ctx.Done():
		cancelPoll()
		<-pollDone
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("monitor http server: %w", err)
	}
}

// onCycle records telemetry and publishes an event for each finished
// cycle.
func (s *Service) onCycle(out poll.Outcome, st poll.State) {
	telemetry.RecordCycle(out, st)
	if out == poll.OutcomeSkipped {
		return
	}

	ev := Event{Timestamp: time.Now()}
	switch out {
	case poll.OutcomeUpdated:
		ev.Type = "snapshot"
		ev.Snapshot = st.Current
	case poll.OutcomeStale:
		ev.Type = "unreachable"
		ev.Unreachable = true
		if st.LastErr != nil {
			ev.Error = st.LastErr.Error()
		}
		s.log.Warn("backend unreachable", zap.Error(st.LastErr))
	}
	s.publishEvent(ev)
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) status() Status {
	st := s.poller.State()

	s.mu.Lock()
	eventCount := len(s.events)
	subCount := len(s.subs)
	startedAt := s.startedAt
	s.mu.Unlock()

	out := Status{
		StartedAt:       startedAt,
		BackendURL:      s.cfg.BackendURL,
		PollIntervalSec: int(s.poller.Interval().Seconds()),
		Sensitivity:     s.cfg.Sensitivity,
		PollCount:       st.PollCount,
		Coalesced:       st.Coalesced,
		LastUpdateAt:    st.LastUpdate,
		Unreachable:     st.Unreachable,
		Snapshot:        st.Current,
		HistoryLen:      len(st.History),
		EventCount:      eventCount,
		SubscriberCount: subCount,
	}
	if st.LastErr != nil {
		out.LastError = st.LastErr.Error()
	}
	return out
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.status())
}

func (s *Service) handleHistory(w http.ResponseWriter, _ *http.Request) {
	st := s.poller.State()
	out := make([]historyEntry, 0, len(st.History))
	for _, rec := range st.History {
		out = append(out, historyEntry{
			Time:             rec.Time,
			Throughput:       rec.Throughput,
			ErrorRatePercent: rec.ErrorRatePercent,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Service) handleIncidents(w http.ResponseWriter, _ *http.Request) {
	st := s.poller.State()
	out := make([]incidentEntry, 0, len(st.Anomalies))
	for _, a := range st.Anomalies {
		out = append(out, incidentEntry{Message: a.Message, Severity: a.Severity.String()})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send the settled state immediately so new clients render without
	// waiting for the next cycle.
	st := s.poller.State()
	initial := Event{
		Type:        "snapshot",
		Timestamp:   time.Now(),
		Snapshot:    st.Current,
		Unreachable: st.Unreachable,
	}
	writeSSE(w, initial)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func (s *Service) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug("request", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}
