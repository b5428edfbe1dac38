package outbox

import (
	"time"
)

// Message represents an integration event waiting to be published to
// RabbitMQ. Rows survive until the worker delivers them or exhausts
// retries.
type Message struct {
	ID          int64
	QueueName   string
	RoutingKey  string
	Payload     []byte
	ContentType string
	RetryCount  int
	MaxRetries  int
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	NextRetryAt time.Time
}
