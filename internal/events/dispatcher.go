package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Event is a fact about something that already happened.
type Event interface {
	Type() string
}

// Subscriber reacts to a published event. Subscribers are independent of
// each other and must not assume any delivery order.
type Subscriber interface {
	Name() string
	Handle(ctx context.Context, event Event) error
}

// Dispatcher maps an event type to the subscribers registered for it.
// Registration happens at process start; Freeze makes the registry
// immutable before traffic is served.
type Dispatcher struct {
	mu          sync.RWMutex
	frozen      bool
	subscribers map[string][]Subscriber
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		subscribers: make(map[string][]Subscriber),
	}
}

// Subscribe registers subscribers for the given event type. Panics if the
// registry has been frozen; wiring bugs should fail at startup.
func (d *Dispatcher) Subscribe(eventType string, subs ...Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frozen {
		panic("events: subscribe after dispatcher is frozen")
	}
	d.subscribers[eventType] = append(d.subscribers[eventType], subs...)
}

// Freeze seals the registry against further registration.
func (d *Dispatcher) Freeze() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frozen = true
}

// Publish delivers the event to every subscriber registered for its type.
// Subscribers run concurrently and are isolated from each other: an error
// or panic in one never prevents delivery to the rest. The returned error
// joins all subscriber failures and is informational only; the triggering
// workflow has already committed.
func (d *Dispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	subs := d.subscribers[event.Type()]
	d.mu.RUnlock()

	if len(subs) == 0 {
		return nil
	}

	var (
		wg     sync.WaitGroup
		errsMu sync.Mutex
		errs   []error
	)

	for _, sub := range subs {
		wg.Add(1)
		go func(sub Subscriber) {
			defer wg.Done()

			if err := d.deliver(ctx, sub, event); err != nil {
				slog.Error("Subscriber failed to handle event",
					"subscriber", sub.Name(),
					"event_type", event.Type(),
					"error", err,
				)

				errsMu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", sub.Name(), err))
				errsMu.Unlock()
			}
		}(sub)
	}

	wg.Wait()

	return errors.Join(errs...)
}

func (d *Dispatcher) deliver(ctx context.Context, sub Subscriber, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return sub.Handle(ctx, event)
}
