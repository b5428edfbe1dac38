package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/commerce-labs/placement/internal/service/models/outbox"
)

// OutboxRepository is a synchronized in-memory outbox used in memory
// storage mode and in tests. It mirrors the behavior of the Postgres
// outbox behind the same interface.
type OutboxRepository struct {
	mu       sync.Mutex
	nextID   int64
	messages map[int64]outbox.Message
}

// NewOutboxRepository creates an empty in-memory outbox.
func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{
		nextID:   1,
		messages: make(map[int64]outbox.Message),
	}
}

// Insert adds a new message to the outbox.
func (r *OutboxRepository) Insert(_ context.Context, msg outbox.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg.ID = r.nextID
	r.nextID++
	r.messages[msg.ID] = msg

	return nil
}

// GetPendingMessages retrieves messages that are ready for delivery,
// oldest retry deadline first.
func (r *OutboxRepository) GetPendingMessages(_ context.Context, limit int) ([]outbox.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	pending := make([]outbox.Message, 0, limit)
	for _, msg := range r.messages {
		if !msg.NextRetryAt.After(now) && msg.RetryCount < msg.MaxRetries {
			pending = append(pending, msg)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].NextRetryAt.Before(pending[j].NextRetryAt)
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}

	return pending, nil
}

// Delete removes a message after successful delivery.
func (r *OutboxRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.messages, id)

	return nil
}

// UpdateRetry updates retry count and error information.
func (r *OutboxRepository) UpdateRetry(
	_ context.Context,
	id int64,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.messages[id]
	if !ok {
		return nil
	}
	msg.RetryCount = retryCount
	msg.LastError = lastError
	msg.NextRetryAt = nextRetryAt
	msg.UpdatedAt = time.Now()
	r.messages[id] = msg

	return nil
}

// Len reports how many messages are waiting in the outbox.
func (r *OutboxRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.messages)
}
