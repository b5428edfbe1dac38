package integration_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/commerce-labs/placement/internal/dal/repositories/outbox/inmemory"
	"github.com/commerce-labs/placement/internal/events/subscribers/integration"
	"github.com/commerce-labs/placement/internal/service/models/event"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestIntegrationSubscriber(t *testing.T) {
	t.Run("should enqueue the reduced projection", func(t *testing.T) {
		outboxRepo := inmemory.NewOutboxRepository()
		sub := integration.NewSubscriber(outboxRepo)

		orderID := uuid.New()
		customerID := uuid.New()
		err := sub.Handle(context.Background(), event.OrderCreated{
			OrderID:     orderID,
			CustomerID:  customerID,
			TotalAmount: decimal.RequireFromString("59.98"),
		})
		require.NoError(t, err)

		pending, err := outboxRepo.GetPendingMessages(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		require.Equal(t, integration.QueueOrderCreated, pending[0].QueueName)
		require.Equal(t, "application/json", pending[0].ContentType)

		var projected event.OrderCreatedIntegration
		require.NoError(t, json.Unmarshal(pending[0].Payload, &projected))
		require.Equal(t, orderID, projected.OrderID)
		require.Equal(t, customerID, projected.CustomerID)
		require.True(t, projected.TotalAmount.Equal(decimal.RequireFromString("59.98")))
	})
}
