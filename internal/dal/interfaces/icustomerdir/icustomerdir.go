package icustomerdir

import (
	"context"

	"github.com/commerce-labs/placement/internal/service/models/customer"
	"github.com/google/uuid"
)

// ICustomerDirectory answers questions about known customers. Absence is
// a normal result, never an error.
type ICustomerDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (customer.Customer, bool, error)
}
