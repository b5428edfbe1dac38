package product

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog entry. Owned by the catalog; read-only here.
type Product struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
}
