package placement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/commerce-labs/placement/internal/dal/interfaces/icatalog"
	"github.com/commerce-labs/placement/internal/dal/interfaces/icustomerdir"
	"github.com/commerce-labs/placement/internal/dal/interfaces/iorderrepo"
	"github.com/commerce-labs/placement/internal/events"
	"github.com/commerce-labs/placement/internal/service/models/event"
	"github.com/commerce-labs/placement/internal/service/models/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
)

var (
	ErrInvalidCustomer = errors.New("invalid customer")
	ErrUnknownProduct  = errors.New("some products do not exist")
	ErrEmptyOrder      = errors.New("order must contain at least one line")
	ErrPersistence     = errors.New("failed to persist order")
)

// PlaceOrderCommand is the validated inbound request to place an order.
type PlaceOrderCommand struct {
	CustomerID uuid.UUID
	Lines      []CommandLine
}

// CommandLine is one requested order line. UnitPrice is accepted on the
// wire but the catalog price is authoritative; the factory ignores it.
type CommandLine struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// eventDispatcher delivers a domain event to its subscribers.
type eventDispatcher interface {
	Publish(ctx context.Context, e events.Event) error
}

// PlacementService orchestrates the order placement workflow: validate
// against the customer directory and product catalog, build the
// aggregate, persist it, then fan out the OrderCreated event.
type PlacementService struct {
	customers  icustomerdir.ICustomerDirectory
	catalog    icatalog.IProductCatalog
	orders     iorderrepo.IOrderRepository
	dispatcher eventDispatcher
}

// option is a function that configures the PlacementService.
type option func(*PlacementService)

// MustNewPlacementService creates a new PlacementService. Panics if any
// of the four collaborators is missing; wiring bugs should fail at
// startup, not on the first request.
func MustNewPlacementService(opts ...option) *PlacementService {
	s := &PlacementService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.customers == nil || s.catalog == nil || s.orders == nil || s.dispatcher == nil {
		panic("placement: service is missing a collaborator")
	}

	return s
}

// WithCustomerDirectory sets the customer directory port.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCustomerDirectory(customers icustomerdir.ICustomerDirectory) option {
	return func(s *PlacementService) {
		s.customers = customers
	}
}

// WithProductCatalog sets the product catalog port.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductCatalog(catalog icatalog.IProductCatalog) option {
	return func(s *PlacementService) {
		s.catalog = catalog
	}
}

// WithOrderRepository sets the order repository port.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(orders iorderrepo.IOrderRepository) option {
	return func(s *PlacementService) {
		s.orders = orders
	}
}

// WithEventDispatcher sets the event dispatcher.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithEventDispatcher(dispatcher eventDispatcher) option {
	return func(s *PlacementService) {
		s.dispatcher = dispatcher
	}
}

// PlaceOrder runs the placement pipeline and returns the new order id.
// Validation failures short-circuit with a sentinel error and leave no
// trace: no repository write, no event. The event is published only
// after the order is persisted; subscriber failures are logged and never
// fail the already-committed placement.
func (s *PlacementService) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (uuid.UUID, error) {
	ctx, span := otel.Tracer("placement-svc").Start(ctx, "PlaceOrder")
	defer span.End()

	if len(cmd.Lines) == 0 {
		return uuid.Nil, ErrEmptyOrder
	}

	exists, err := s.customers.Exists(ctx, cmd.CustomerID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to check customer existence: %w", err)
	}
	if !exists {
		return uuid.Nil, ErrInvalidCustomer
	}

	// Duplicate product ids across lines must not cause a false
	// cardinality mismatch, so reconcile on distinct ids.
	ids := distinctProductIDs(cmd.Lines)
	products, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to resolve products: %w", err)
	}
	if len(products) < len(ids) {
		return uuid.Nil, ErrUnknownProduct
	}

	lines := make([]order.LineInput, len(cmd.Lines))
	for i, line := range cmd.Lines {
		lines[i] = order.LineInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
	}

	o := order.New(cmd.CustomerID, lines, products)

	if err := s.orders.Add(ctx, o); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	if err := s.dispatcher.Publish(ctx, event.NewOrderCreated(o)); err != nil {
		slog.Error("Subscriber failures after order placement", "order_id", o.ID, "error", err)
	}

	return o.ID, nil
}

// GetOrder retrieves a persisted order by id.
func (s *PlacementService) GetOrder(ctx context.Context, id uuid.UUID) (order.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func distinctProductIDs(lines []CommandLine) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}

	return ids
}
