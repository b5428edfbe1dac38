package inmemory

import (
	"context"

	"github.com/commerce-labs/placement/internal/service/models/customer"
	"github.com/google/uuid"
)

// CustomerDirectory is an in-memory customer directory seeded at startup.
// The snapshot is immutable after construction, so reads need no locking.
type CustomerDirectory struct {
	customers map[uuid.UUID]customer.Customer
}

// NewCustomerDirectory creates a directory over the given seed customers.
func NewCustomerDirectory(customers []customer.Customer) *CustomerDirectory {
	byID := make(map[uuid.UUID]customer.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}

	return &CustomerDirectory{customers: byID}
}

// Exists reports whether the customer id is known.
func (d *CustomerDirectory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := d.customers[id]

	return ok, nil
}

// GetByID returns the customer and whether it was found.
func (d *CustomerDirectory) GetByID(_ context.Context, id uuid.UUID) (customer.Customer, bool, error) {
	c, ok := d.customers[id]

	return c, ok, nil
}
