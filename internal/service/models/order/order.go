package order

import (
	"errors"
	"time"

	"github.com/commerce-labs/placement/internal/service/models/product"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrOrderNotFound = errors.New("order not found")

// Order is the aggregate root produced by a successful placement. It is
// built once by New and never mutated afterwards.
type Order struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  uuid.UUID       `json:"customerId"`
	Lines       []Line          `json:"lines"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Line is a snapshot of catalog data at order time. Name and price are
// copied from the resolved product so historical orders are immune to
// later catalog changes.
type Line struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// LineInput is one requested line as validated by the placement service.
type LineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// New builds an Order from validated inputs. The caller guarantees that
// every requested line resolves to a product in products; the unit price
// always comes from the catalog, never from the caller.
func New(customerID uuid.UUID, lines []LineInput, products []product.Product) Order {
	byID := make(map[uuid.UUID]product.Product, len(products))
	for _, p := range products {
		if _, ok := byID[p.ID]; !ok {
			byID[p.ID] = p
		}
	}

	orderLines := make([]Line, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		p := byID[line.ProductID]
		orderLines = append(orderLines, Line{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			UnitPrice:   p.Price,
		})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return Order{
		ID:          uuid.New(),
		CustomerID:  customerID,
		Lines:       orderLines,
		TotalAmount: total,
		CreatedAt:   time.Now().UTC(),
	}
}
