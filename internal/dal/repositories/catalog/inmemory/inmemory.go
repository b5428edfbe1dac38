package inmemory

import (
	"context"

	"github.com/commerce-labs/placement/internal/service/models/product"
	"github.com/google/uuid"
)

// ProductCatalog is an in-memory catalog seeded at startup. The snapshot
// is immutable after construction, so reads need no locking.
type ProductCatalog struct {
	products map[uuid.UUID]product.Product
}

// NewProductCatalog creates a catalog over the given seed products.
func NewProductCatalog(products []product.Product) *ProductCatalog {
	byID := make(map[uuid.UUID]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	return &ProductCatalog{products: byID}
}

// GetByIDs resolves the given ids, silently omitting unknown ones. Each
// existing product appears once even if its id is repeated in ids.
func (c *ProductCatalog) GetByIDs(_ context.Context, ids []uuid.UUID) ([]product.Product, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	result := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := c.products[id]; ok {
			result = append(result, p)
		}
	}

	return result, nil
}

// GetByID returns the product and whether it was found.
func (c *ProductCatalog) GetByID(_ context.Context, id uuid.UUID) (product.Product, bool, error) {
	p, ok := c.products[id]

	return p, ok, nil
}
