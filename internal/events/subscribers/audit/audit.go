package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/commerce-labs/placement/internal/events"
	"github.com/commerce-labs/placement/internal/service/models/event"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is one immutable compliance record.
type Entry struct {
	OrderID     uuid.UUID
	CustomerID  uuid.UUID
	CreatedAt   time.Time
	TotalAmount decimal.Decimal
}

// Subscriber records a compliance trail entry for every created order.
// It never returns an error: a broken audit sink must not disturb the
// other subscribers or the committed order.
type Subscriber struct {
	mu      sync.Mutex
	entries []Entry
}

// NewSubscriber creates the audit subscriber.
func NewSubscriber() *Subscriber {
	return &Subscriber{}
}

func (s *Subscriber) Name() string {
	return "audit"
}

// Handle appends the entry to the trail and logs it.
func (s *Subscriber) Handle(_ context.Context, e events.Event) error {
	created, ok := e.(event.OrderCreated)
	if !ok {
		slog.Warn("Audit received unexpected event", "event_type", e.Type())

		return nil
	}

	s.mu.Lock()
	s.entries = append(s.entries, Entry{
		OrderID:     created.OrderID,
		CustomerID:  created.CustomerID,
		CreatedAt:   created.CreatedAt,
		TotalAmount: created.TotalAmount,
	})
	s.mu.Unlock()

	slog.Info("Order placed",
		"order_id", created.OrderID,
		"customer_id", created.CustomerID,
		"total_amount", created.TotalAmount,
		"created_at", created.CreatedAt,
	)

	return nil
}

// Trail returns a copy of the recorded entries.
func (s *Subscriber) Trail() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	trail := make([]Entry, len(s.entries))
	copy(trail, s.entries)

	return trail
}
