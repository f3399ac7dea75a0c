// Package poll drives the fetch-and-update refresh cycle against the
// backend and owns the session's dashboard state: the current snapshot
// and the rolling history window.
package poll

import (
	"context"
	"sync"
	"time"

	"apitop/internal/history"
	"apitop/internal/model"
)

// DefaultInterval is the auto-refresh cadence.
const DefaultInterval = 5 * time.Second

// Fetcher is the backend dependency of the poller. *backend.Client
// satisfies it; tests substitute fakes.
type Fetcher interface {
	FetchMetrics(ctx context.Context) (*model.MetricsSnapshot, error)
}

// Outcome reports how a refresh cycle ended.
type Outcome int

const (
	// OutcomeSkipped means the trigger was coalesced because a cycle
	// was already in flight. No fetch was started.
	OutcomeSkipped Outcome = iota
	// OutcomeUpdated means the snapshot was replaced and a history
	// record appended.
	OutcomeUpdated
	// OutcomeStale means the fetch failed; prior snapshot and history
	// were left untouched.
	OutcomeStale
)

// State is a settled, read-only view of the poller for rendering.
// History and Anomalies are copies; the view never observes a
// half-applied cycle.
type State struct {
	Current     *model.MetricsSnapshot
	History     []model.HistoryRecord
	Anomalies   []model.ClassifiedAnomaly
	Unreachable bool
	LastErr     error
	LastUpdate  time.Time
	PollCount   int64
	Coalesced   int64
}

// Poller serializes refresh cycles: at most one fetch is in flight at
// any instant, and snapshot + history are updated together under one
// lock or not at all.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	now      func() time.Time

	mu         sync.Mutex
	inFlight   bool
	buf        *history.Buffer
	current    *model.MetricsSnapshot
	lastErr    error
	lastUpdate time.Time
	pollCount  int64
	coalesced  int64
}

// New creates a poller over an empty history buffer. A non-positive
// interval falls back to DefaultInterval.
func New(f Fetcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		fetcher:  f,
		interval: interval,
		now:      time.Now,
		buf:      history.New(history.DefaultCapacity),
	}
}

// Interval returns the configured refresh cadence.
func (p *Poller) Interval() time.Duration { return p.interval }

// Poll runs one fetch-and-update cycle. If a cycle is already in
// flight the trigger is coalesced and Poll returns OutcomeSkipped
// without fetching. On fetch failure the current snapshot and history
// are left exactly as they were; the error is surfaced via State for
// this cycle only.
func (p *Poller) Poll(ctx context.Context) Outcome {
	p.mu.Lock()
	if p.inFlight {
		p.coalesced++
		p.mu.Unlock()
		return OutcomeSkipped
	}
	p.inFlight = true
	p.mu.Unlock()

	// Network I/O happens outside the lock so State() stays readable
	// (with the previous cycle's settled data) while fetching.
	snap, err := p.fetcher.FetchMetrics(ctx)
	at := p.now()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false
	p.pollCount++

	if err != nil {
		p.lastErr = err
		return OutcomeStale
	}

	p.current = snap
	p.buf.Append(model.NewHistoryRecord(snap, at))
	p.lastErr = nil
	p.lastUpdate = at
	return OutcomeUpdated
}

// State returns the current settled view.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := State{
		Current:     p.current,
		History:     p.buf.Records(),
		Unreachable: p.lastErr != nil,
		LastErr:     p.lastErr,
		LastUpdate:  p.lastUpdate,
		PollCount:   p.pollCount,
		Coalesced:   p.coalesced,
	}
	if p.current != nil {
		st.Anomalies = model.Classify(p.current.Anomalies)
	}
	return st
}

// Run polls immediately, then on every interval tick until ctx is
// canceled. Used by the headless serve mode; the TUI drives Poll from
// its own tick instead.
func (p *Poller) Run(ctx context.Context, onCycle func(Outcome, State)) {
	cycle := func() {
		out := p.Poll(ctx)
		if onCycle != nil {
			onCycle(out, p.State())
		}
	}

	cycle()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cycle()
		}
	}
}
