package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/commerce-labs/placement/internal/dal/interfaces/icustomerdir"
	"github.com/commerce-labs/placement/internal/events"
	"github.com/commerce-labs/placement/internal/service/models/event"
)

// EmailSender delivers a confirmation message to a customer address.
type EmailSender interface {
	Send(ctx context.Context, to string, message string) error
}

// Subscriber sends an order confirmation to the customer on OrderCreated.
type Subscriber struct {
	directory icustomerdir.ICustomerDirectory
	sender    EmailSender
}

// NewSubscriber creates the notification subscriber.
func NewSubscriber(directory icustomerdir.ICustomerDirectory, sender EmailSender) *Subscriber {
	return &Subscriber{
		directory: directory,
		sender:    sender,
	}
}

func (s *Subscriber) Name() string {
	return "notification"
}

// Handle looks up the customer's address and sends the confirmation.
func (s *Subscriber) Handle(ctx context.Context, e events.Event) error {
	created, ok := e.(event.OrderCreated)
	if !ok {
		return fmt.Errorf("unexpected event %s", e.Type())
	}

	c, found, err := s.directory.GetByID(ctx, created.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to look up customer %s: %w", created.CustomerID, err)
	}
	if !found {
		// The order passed validation, so the directory entry vanished
		// between check and notify. Nothing to send to.
		slog.Warn("Customer not found for confirmation email", "customer_id", created.CustomerID)

		return nil
	}

	message := fmt.Sprintf("Your order %s was placed!", created.OrderID)

	return s.sender.Send(ctx, c.Email, message)
}

// LogSender is the default in-process EmailSender. It records the send
// instead of talking to a mail gateway.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to string, message string) error {
	slog.Info("Confirmation email sent", "to", to, "message", message)

	return nil
}
