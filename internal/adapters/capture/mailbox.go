package capture

import (
	"sync"
	"time"

	"github.com/okian/facepad/internal/domain/expression"
	"github.com/okian/facepad/pkg/metrics"
)

// Result is a published detection. Nil Shapes means no face was found.
type Result struct {
	Shapes      expression.Shapes
	TimestampMS int64
	CapturedAt  time.Time
}

// Mailbox is a single-slot, last-write-wins hand-off between the detector
// callback and the frame loop.
type Mailbox struct {
	mu           sync.Mutex
	slot         *Result
	lastConsumed int64
	consumed     bool
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Publish replaces the slot with r. A result whose timestamp is not newer
// than the current slot is rejected and Publish returns false.
func (m *Mailbox) Publish(r Result) bool {
	m.mu.Lock()
	if m.slot != nil && r.TimestampMS <= m.slot.TimestampMS {
		m.mu.Unlock()
		metrics.RecordMailboxStale()
		return false
	}
	overwrite := m.slot != nil && !m.isConsumed(m.slot)
	m.slot = &r
	m.mu.Unlock()

	metrics.RecordMailboxPublish()
	if overwrite {
		metrics.RecordMailboxOverwrite()
	}
	return true
}

// Poll returns the slot if it holds a result newer than the last one
// consumed. The second return is false when there is no new data.
func (m *Mailbox) Poll() (Result, bool) {
	m.mu.Lock()
	if m.slot == nil || m.isConsumed(m.slot) {
		m.mu.Unlock()
		return Result{}, false
	}
	r := *m.slot
	m.lastConsumed = r.TimestampMS
	m.consumed = true
	m.mu.Unlock()

	metrics.RecordMailboxConsume()
	return r, true
}

// LastConsumed returns the timestamp of the last polled result.
func (m *Mailbox) LastConsumed() (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastConsumed, m.consumed
}

// isConsumed must be called with mu held.
func (m *Mailbox) isConsumed(r *Result) bool {
	return m.consumed && r.TimestampMS <= m.lastConsumed
}
