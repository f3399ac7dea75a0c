package burst

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"apitop/internal/model"
)

type captureSender struct {
	events []model.LogEvent
	err    error
}

func (c *captureSender) SendEvent(_ context.Context, ev model.LogEvent) error {
	c.events = append(c.events, ev)
	return c.err
}

func TestEventFieldsWithinBounds(t *testing.T) {
	g := New(&captureSender{})

	for i := 0; i < 200; i++ {
		ev := g.Event()

		assert.Contains(t, userPool, ev.UserID)
		assert.GreaterOrEqual(t, ev.LatencyMs, minLatencyMs)
		assert.LessOrEqual(t, ev.LatencyMs, maxLatencyMs)
		assert.GreaterOrEqual(t, ev.TokensUsed, minTokens)
		assert.LessOrEqual(t, ev.TokensUsed, maxTokens)

		ts, err := time.Parse(time.RFC3339, ev.Timestamp)
		assert.NoError(t, err, "timestamp must be RFC3339")
		assert.Equal(t, time.UTC, ts.Location())
	}
}

func TestSendAttemptsAllRecords(t *testing.T) {
	s := &captureSender{}
	g := New(s)

	got := g.Send(context.Background(), 30)

	assert.Equal(t, 30, got)
	assert.Len(t, s.events, 30)
}

func TestSendSwallowsPerEventErrors(t *testing.T) {
	s := &captureSender{err: errors.New("connection refused")}
	g := New(s)

	// Every send fails, yet the burst still attempts all records and
	// reports the attempted count.
	got := g.Send(context.Background(), 10)

	assert.Equal(t, 10, got)
	assert.Len(t, s.events, 10)
}

func TestSendDefaultSize(t *testing.T) {
	s := &captureSender{}
	got := New(s).Send(context.Background(), 0)
	assert.Equal(t, DefaultSize, got)
}

func TestSendStopsOnCanceledContext(t *testing.T) {
	s := &captureSender{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := New(s).Send(ctx, 10)
	assert.Zero(t, got)
	assert.Empty(t, s.events)
}
