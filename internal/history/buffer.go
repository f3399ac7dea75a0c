// Package history holds the bounded rolling window of trend samples
// that backs the dashboard charts.
package history

import "apitop/internal/model"

// DefaultCapacity is the number of trend samples retained, matching
// the width of the trend charts.
const DefaultCapacity = 20

// Buffer is an append-only FIFO of history records with a fixed
// capacity. It lives for the session: created empty, retained across
// refresh cycles (including failed ones), discarded at exit.
// Buffer is not safe for concurrent use; the poller serializes access.
type Buffer struct {
	capacity int
	records  []model.HistoryRecord
}

// New creates an empty buffer. Non-positive capacities fall back to
// DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		capacity: capacity,
		records:  make([]model.HistoryRecord, 0, capacity),
	}
}

// Append adds a record at the tail, evicting from the head while the
// buffer exceeds capacity.
func (b *Buffer) Append(rec model.HistoryRecord) {
	b.records = append(b.records, rec)
	if len(b.records) > b.capacity {
		over := len(b.records) - b.capacity
		b.records = append(b.records[:0], b.records[over:]...)
	}
}

// Records returns the retained records oldest-first. The returned
// slice is a copy; mutating it does not affect the buffer.
func (b *Buffer) Records() []model.HistoryRecord {
	out := make([]model.HistoryRecord, len(b.records))
	copy(out, b.records)
	return out
}

// Len returns the number of retained records.
func (b *Buffer) Len() int { return len(b.records) }

// Capacity returns the fixed capacity.
func (b *Buffer) Capacity() int { return b.capacity }
