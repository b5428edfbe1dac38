package loyalty

import (
	"context"
	"fmt"
	"sync"

	"github.com/commerce-labs/placement/internal/events"
	"github.com/commerce-labs/placement/internal/service/models/event"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger credits loyalty points to a customer account.
type Ledger interface {
	AddPoints(ctx context.Context, customerID uuid.UUID, points int64) error
}

// Subscriber credits one point per full 10 units of order total.
type Subscriber struct {
	ledger Ledger
}

// NewSubscriber creates the loyalty subscriber.
func NewSubscriber(ledger Ledger) *Subscriber {
	return &Subscriber{ledger: ledger}
}

func (s *Subscriber) Name() string {
	return "loyalty"
}

// Handle computes floor(totalAmount / 10) and credits the customer.
func (s *Subscriber) Handle(ctx context.Context, e events.Event) error {
	created, ok := e.(event.OrderCreated)
	if !ok {
		return fmt.Errorf("unexpected event %s", e.Type())
	}

	points := created.TotalAmount.Div(decimal.NewFromInt(10)).IntPart()

	return s.ledger.AddPoints(ctx, created.CustomerID, points)
}

// InMemoryLedger is a synchronized in-process points ledger.
type InMemoryLedger struct {
	mu       sync.Mutex
	balances map[uuid.UUID]int64
}

// NewInMemoryLedger creates an empty ledger.
func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{
		balances: make(map[uuid.UUID]int64),
	}
}

// AddPoints credits points to the customer's balance.
func (l *InMemoryLedger) AddPoints(_ context.Context, customerID uuid.UUID, points int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[customerID] += points

	return nil
}

// Balance returns the customer's current balance.
func (l *InMemoryLedger) Balance(customerID uuid.UUID) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.balances[customerID]
}
