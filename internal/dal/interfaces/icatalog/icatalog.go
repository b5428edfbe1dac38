package icatalog

import (
	"context"

	"github.com/commerce-labs/placement/internal/service/models/product"
	"github.com/google/uuid"
)

// IProductCatalog resolves product ids to catalog entries. GetByIDs
// returns only the subset that exist; missing ids are silently omitted
// and callers reconcile cardinality themselves.
type IProductCatalog interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]product.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (product.Product, bool, error)
}
