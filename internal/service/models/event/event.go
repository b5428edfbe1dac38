package event

import (
	"time"

	"github.com/commerce-labs/placement/internal/service/models/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const TypeOrderCreated = "OrderCreated"

// OrderCreated is the domain event emitted after an order has been
// persisted. It is a value snapshot of the order, not a reference to it,
// so subscribers can never observe later mutation.
type OrderCreated struct {
	OrderID     uuid.UUID       `json:"orderId"`
	CustomerID  uuid.UUID       `json:"customerId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	Lines       []order.Line    `json:"lines"`
}

// NewOrderCreated snapshots a persisted order into an event, copying the
// lines so the event does not alias the aggregate's slice.
func NewOrderCreated(o order.Order) OrderCreated {
	lines := make([]order.Line, len(o.Lines))
	copy(lines, o.Lines)

	return OrderCreated{
		OrderID:     o.ID,
		CustomerID:  o.CustomerID,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		Lines:       lines,
	}
}

func (e OrderCreated) Type() string {
	return TypeOrderCreated
}

// OrderCreatedIntegration is the external-facing projection of
// OrderCreated with the reduced field set published to the message bus.
type OrderCreatedIntegration struct {
	OrderID     uuid.UUID       `json:"orderId"`
	CustomerID  uuid.UUID       `json:"customerId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// ToIntegration projects the domain event for external consumers.
func (e OrderCreated) ToIntegration() OrderCreatedIntegration {
	return OrderCreatedIntegration{
		OrderID:     e.OrderID,
		CustomerID:  e.CustomerID,
		TotalAmount: e.TotalAmount,
	}
}
