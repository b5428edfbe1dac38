package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/commerce-labs/placement/internal/events/subscribers/audit"
	"github.com/commerce-labs/placement/internal/service/models/event"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAuditSubscriber(t *testing.T) {
	t.Run("should record one trail entry per event", func(t *testing.T) {
		sub := audit.NewSubscriber()

		orderID := uuid.New()
		customerID := uuid.New()
		createdAt := time.Now().UTC()

		err := sub.Handle(context.Background(), event.OrderCreated{
			OrderID:     orderID,
			CustomerID:  customerID,
			TotalAmount: decimal.RequireFromString("59.98"),
			CreatedAt:   createdAt,
		})

		require.NoError(t, err)

		trail := sub.Trail()
		require.Len(t, trail, 1)
		require.Equal(t, orderID, trail[0].OrderID)
		require.Equal(t, customerID, trail[0].CustomerID)
		require.Equal(t, createdAt, trail[0].CreatedAt)
		require.True(t, trail[0].TotalAmount.Equal(decimal.RequireFromString("59.98")))
	})
}
