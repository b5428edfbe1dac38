package iorderrepo

import (
	"context"

	"github.com/commerce-labs/placement/internal/service/models/order"
	"github.com/google/uuid"
)

// IOrderRepository persists order aggregates. Add is append-only and must
// be safe for concurrent calls from independent requests. GetByID returns
// order.ErrOrderNotFound for unknown ids.
type IOrderRepository interface {
	Add(ctx context.Context, o order.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (order.Order, error)
}
