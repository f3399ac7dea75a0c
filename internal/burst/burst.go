// Package burst injects batches of synthetic log records into the
// backend ingestion endpoint, for demos and load probing.
package burst

import (
	"context"
	"math/rand"
	"time"

	"apitop/internal/model"
)

// DefaultSize is the number of records per burst.
const DefaultSize = 30

const (
	minLatencyMs = 100
	maxLatencyMs = 1500
	minTokens    = 50
	maxTokens    = 2000
	errorProb    = 0.08
)

// userPool is the fixed set of synthetic user identifiers.
var userPool = []string{"alice_001", "bob_002", "charlie_003"}

// Sender posts a single log record. *backend.Client satisfies it.
type Sender interface {
	SendEvent(ctx context.Context, ev model.LogEvent) error
}

// Generator produces randomized synthetic log events.
type Generator struct {
	sender Sender
	rng    *rand.Rand
	now    func() time.Time
}

// New creates a generator seeded from the current time.
func New(sender Sender) *Generator {
	return &Generator{
		sender: sender,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
}

// Event builds one randomized synthetic log record.
func (g *Generator) Event() model.LogEvent {
	return model.LogEvent{
		Timestamp:  g.now().UTC().Format(time.RFC3339),
		UserID:     userPool[g.rng.Intn(len(userPool))],
		LatencyMs:  minLatencyMs + g.rng.Intn(maxLatencyMs-minLatencyMs+1),
		TokensUsed: minTokens + g.rng.Intn(maxTokens-minTokens+1),
		IsError:    g.rng.Float64() < errorProb,
	}
}

// Send fires n synthetic events at the backend, best-effort. Per-event
// failures are deliberately discarded: a burst is "sent" when every
// record has been attempted, not when delivery is confirmed. Send is
// independent of the polling cycle and shares no state with it.
func (g *Generator) Send(ctx context.Context, n int) int {
	if n <= 0 {
		n = DefaultSize
	}
	attempted := 0
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		_ = g.sender.SendEvent(ctx, g.Event()) // best-effort, errors swallowed
		attempted++
	}
	return attempted
}
