package order_test

import (
	"testing"

	"github.com/commerce-labs/placement/internal/service/models/order"
	"github.com/commerce-labs/placement/internal/service/models/product"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	customerID := uuid.New()
	keyboard := product.Product{
		ID:    uuid.New(),
		Name:  "Mechanical Keyboard",
		Price: decimal.RequireFromString("29.99"),
	}
	mouse := product.Product{
		ID:    uuid.New(),
		Name:  "Trackball Mouse",
		Price: decimal.RequireFromString("45.50"),
	}

	t.Run("should snapshot catalog name and price into lines", func(t *testing.T) {
		o := order.New(customerID,
			[]order.LineInput{
				{ProductID: keyboard.ID, Quantity: 2},
				{ProductID: mouse.ID, Quantity: 1},
			},
			[]product.Product{keyboard, mouse},
		)

		require.NotEqual(t, uuid.Nil, o.ID)
		require.Equal(t, customerID, o.CustomerID)
		require.False(t, o.CreatedAt.IsZero())
		require.Len(t, o.Lines, 2)

		require.Equal(t, keyboard.ID, o.Lines[0].ProductID)
		require.Equal(t, "Mechanical Keyboard", o.Lines[0].ProductName)
		require.Equal(t, 2, o.Lines[0].Quantity)
		require.True(t, o.Lines[0].UnitPrice.Equal(keyboard.Price))

		require.Equal(t, mouse.ID, o.Lines[1].ProductID)
		require.Equal(t, 1, o.Lines[1].Quantity)

		// 2 * 29.99 + 1 * 45.50
		require.True(t, o.TotalAmount.Equal(decimal.RequireFromString("105.48")))
	})

	t.Run("should keep one line per requested line for repeated products", func(t *testing.T) {
		o := order.New(customerID,
			[]order.LineInput{
				{ProductID: keyboard.ID, Quantity: 1},
				{ProductID: keyboard.ID, Quantity: 3},
			},
			[]product.Product{keyboard},
		)

		require.Len(t, o.Lines, 2)
		require.True(t, o.TotalAmount.Equal(decimal.RequireFromString("119.96")))
	})

	t.Run("should generate a fresh id per order", func(t *testing.T) {
		first := order.New(customerID, []order.LineInput{{ProductID: keyboard.ID, Quantity: 1}}, []product.Product{keyboard})
		second := order.New(customerID, []order.LineInput{{ProductID: keyboard.ID, Quantity: 1}}, []product.Product{keyboard})

		require.NotEqual(t, first.ID, second.ID)
	})
}
