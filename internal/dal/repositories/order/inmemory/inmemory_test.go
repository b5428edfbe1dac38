package inmemory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/commerce-labs/placement/internal/dal/repositories/order/inmemory"
	"github.com/commerce-labs/placement/internal/service/models/order"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository(t *testing.T) {
	t.Run("should store and retrieve an order", func(t *testing.T) {
		repo := inmemory.NewOrderRepository()
		o := order.Order{ID: uuid.New(), CustomerID: uuid.New()}

		require.NoError(t, repo.Add(context.Background(), o))

		got, err := repo.GetByID(context.Background(), o.ID)
		require.NoError(t, err)
		require.Equal(t, o.ID, got.ID)
	})

	t.Run("should return not found for unknown ids", func(t *testing.T) {
		repo := inmemory.NewOrderRepository()

		_, err := repo.GetByID(context.Background(), uuid.New())
		require.ErrorIs(t, err, order.ErrOrderNotFound)
	})

	t.Run("should reject duplicate ids", func(t *testing.T) {
		repo := inmemory.NewOrderRepository()
		o := order.Order{ID: uuid.New()}

		require.NoError(t, repo.Add(context.Background(), o))
		require.Error(t, repo.Add(context.Background(), o))
	})

	t.Run("should tolerate concurrent adds", func(t *testing.T) {
		repo := inmemory.NewOrderRepository()

		const n = 100
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := repo.Add(context.Background(), order.Order{ID: uuid.New()})
				require.NoError(t, err)
			}()
		}
		wg.Wait()

		require.Equal(t, n, repo.Len())
	})
}
