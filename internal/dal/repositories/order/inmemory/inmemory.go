package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/commerce-labs/placement/internal/service/models/order"
	"github.com/google/uuid"
)

// OrderRepository is a synchronized in-memory order store. Add is
// append-only; concurrent placements each insert a distinct new id.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]order.Order
}

// NewOrderRepository creates an empty in-memory order repository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[uuid.UUID]order.Order),
	}
}

// Add stores the order. Inserting an id twice is a programming error and
// is rejected rather than silently overwritten.
func (r *OrderRepository) Add(_ context.Context, o order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[o.ID]; ok {
		return fmt.Errorf("order %s already exists", o.ID)
	}
	r.orders[o.ID] = o

	return nil
}

// GetByID returns the stored order or order.ErrOrderNotFound.
func (r *OrderRepository) GetByID(_ context.Context, id uuid.UUID) (order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return order.Order{}, order.ErrOrderNotFound
	}

	return o, nil
}

// Len reports how many orders are stored.
func (r *OrderRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.orders)
}
