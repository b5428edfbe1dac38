package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/commerce-labs/placement/internal/dal/interfaces/ioutboxrepo"
	"github.com/commerce-labs/placement/internal/events"
	"github.com/commerce-labs/placement/internal/service/models/event"
	"github.com/commerce-labs/placement/internal/service/models/outbox"
)

// QueueOrderCreated is the queue integration events are delivered to.
const QueueOrderCreated = "placement.order.created"

const defaultMaxRetries = 5

// Subscriber projects OrderCreated to its integration shape and enqueues
// it for the outbox worker to publish to the message bus.
type Subscriber struct {
	outboxRepo ioutboxrepo.IOutboxRepository
}

// NewSubscriber creates the integration-publish subscriber.
func NewSubscriber(outboxRepo ioutboxrepo.IOutboxRepository) *Subscriber {
	return &Subscriber{outboxRepo: outboxRepo}
}

func (s *Subscriber) Name() string {
	return "integration"
}

// Handle enqueues the reduced projection for external consumers.
func (s *Subscriber) Handle(ctx context.Context, e events.Event) error {
	created, ok := e.(event.OrderCreated)
	if !ok {
		return fmt.Errorf("unexpected event %s", e.Type())
	}

	payload, err := json.Marshal(created.ToIntegration())
	if err != nil {
		return fmt.Errorf("failed to marshal integration event: %w", err)
	}

	now := time.Now()

	return s.outboxRepo.Insert(ctx, outbox.Message{
		QueueName:   QueueOrderCreated,
		RoutingKey:  QueueOrderCreated,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  defaultMaxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	})
}
