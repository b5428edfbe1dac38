package outbox_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/commerce-labs/placement/internal/dal/repositories/outbox/inmemory"
	outboxmodel "github.com/commerce-labs/placement/internal/service/models/outbox"
	outboxworker "github.com/commerce-labs/placement/internal/worker/outbox"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mu        sync.Mutex
	err       error
	published [][]byte
}

func (p *mockPublisher) Publish(_ string, _ string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, body)
	return nil
}

func (p *mockPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func enqueue(t *testing.T, repo *inmemory.OutboxRepository) {
	t.Helper()
	now := time.Now()
	require.NoError(t, repo.Insert(context.Background(), outboxmodel.Message{
		QueueName:   "placement.order.created",
		RoutingKey:  "placement.order.created",
		Payload:     []byte(`{"orderId":"x"}`),
		ContentType: "application/json",
		MaxRetries:  5,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}))
}

func TestWorkerProcessMessages(t *testing.T) {
	t.Run("should publish and delete pending messages", func(t *testing.T) {
		repo := inmemory.NewOutboxRepository()
		publisher := &mockPublisher{}
		worker := outboxworker.NewWorker(repo, publisher)
		enqueue(t, repo)

		worker.ProcessMessages(context.Background())

		require.Equal(t, 1, publisher.count())
		require.Equal(t, 0, repo.Len())
	})

	t.Run("should schedule a retry when publishing fails", func(t *testing.T) {
		repo := inmemory.NewOutboxRepository()
		publisher := &mockPublisher{err: errors.New("broker unavailable")}
		worker := outboxworker.NewWorker(repo, publisher)
		enqueue(t, repo)

		worker.ProcessMessages(context.Background())

		require.Equal(t, 0, publisher.count())
		require.Equal(t, 1, repo.Len())

		// retry deadline moved to the future, so nothing is pending now
		pending, err := repo.GetPendingMessages(context.Background(), 10)
		require.NoError(t, err)
		require.Empty(t, pending)
	})

	t.Run("should deliver on a later attempt after a transient failure", func(t *testing.T) {
		repo := inmemory.NewOutboxRepository()
		publisher := &mockPublisher{err: errors.New("broker unavailable")}
		worker := outboxworker.NewWorker(repo, publisher)
		enqueue(t, repo)

		worker.ProcessMessages(context.Background())

		// broker comes back and the retry deadline passes
		publisher.mu.Lock()
		publisher.err = nil
		publisher.mu.Unlock()
		pending, err := repo.GetPendingMessages(context.Background(), 10)
		require.NoError(t, err)
		require.Empty(t, pending)
		require.NoError(t, repo.UpdateRetry(context.Background(), 1, 1, "broker unavailable", time.Now().Add(-time.Second)))

		worker.ProcessMessages(context.Background())

		require.Equal(t, 1, publisher.count())
		require.Equal(t, 0, repo.Len())
	})
}
