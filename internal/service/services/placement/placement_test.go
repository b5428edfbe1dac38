package placement_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/commerce-labs/placement/internal/dal/interfaces/icustomerdir"
	"github.com/commerce-labs/placement/internal/events"
	"github.com/commerce-labs/placement/internal/service/models/customer"
	"github.com/commerce-labs/placement/internal/service/models/event"
	"github.com/commerce-labs/placement/internal/service/models/order"
	"github.com/commerce-labs/placement/internal/service/models/product"
	"github.com/commerce-labs/placement/internal/service/services/placement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var _ icustomerdir.ICustomerDirectory = &mockDirectory{}

type mockDirectory struct {
	customers map[uuid.UUID]customer.Customer
}

func (m *mockDirectory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.customers[id]
	return ok, nil
}

func (m *mockDirectory) GetByID(_ context.Context, id uuid.UUID) (customer.Customer, bool, error) {
	c, ok := m.customers[id]
	return c, ok, nil
}

type mockCatalog struct {
	products map[uuid.UUID]product.Product
}

func (m *mockCatalog) GetByIDs(_ context.Context, ids []uuid.UUID) ([]product.Product, error) {
	seen := make(map[uuid.UUID]struct{})
	var result []product.Product
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := m.products[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockCatalog) GetByID(_ context.Context, id uuid.UUID) (product.Product, bool, error) {
	p, ok := m.products[id]
	return p, ok, nil
}

type mockOrderRepo struct {
	sync.RWMutex
	store   map[uuid.UUID]order.Order
	failAdd error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{store: make(map[uuid.UUID]order.Order)}
}

func (m *mockOrderRepo) Add(_ context.Context, o order.Order) error {
	if m.failAdd != nil {
		return m.failAdd
	}
	m.Lock()
	defer m.Unlock()
	m.store[o.ID] = o
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (order.Order, error) {
	m.RLock()
	defer m.RUnlock()
	o, ok := m.store[id]
	if !ok {
		return order.Order{}, order.ErrOrderNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) Len() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.store)
}

type mockDispatcher struct {
	sync.Mutex
	events []events.Event
}

func (m *mockDispatcher) Publish(_ context.Context, e events.Event) error {
	m.Lock()
	defer m.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *mockDispatcher) GetEvents() []events.Event {
	m.Lock()
	defer m.Unlock()
	evs := make([]events.Event, len(m.events))
	copy(evs, m.events)
	return evs
}

func TestPlacementService(t *testing.T) {
	customerID := uuid.New()
	productID := uuid.New()
	keyboard := product.Product{
		ID:            productID,
		Name:          "Mechanical Keyboard",
		Price:         decimal.RequireFromString("29.99"),
		StockQuantity: 10,
	}

	setup := func(t *testing.T) (*placement.PlacementService, *mockOrderRepo, *mockDispatcher) {
		repo := newMockOrderRepo()
		dispatcher := &mockDispatcher{}
		svc := placement.MustNewPlacementService(
			placement.WithCustomerDirectory(&mockDirectory{
				customers: map[uuid.UUID]customer.Customer{
					customerID: {ID: customerID, Name: "Ada", Email: "ada@example.com"},
				},
			}),
			placement.WithProductCatalog(&mockCatalog{
				products: map[uuid.UUID]product.Product{productID: keyboard},
			}),
			placement.WithOrderRepository(repo),
			placement.WithEventDispatcher(dispatcher),
		)
		return svc, repo, dispatcher
	}

	t.Run("should place an order with catalog prices", func(t *testing.T) {
		svc, repo, dispatcher := setup(t)

		orderID, err := svc.PlaceOrder(context.Background(), placement.PlaceOrderCommand{
			CustomerID: customerID,
			Lines: []placement.CommandLine{
				// caller-supplied price is zero on purpose: the catalog is authoritative
				{ProductID: productID, Quantity: 2, UnitPrice: decimal.Zero},
			},
		})

		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, orderID)

		placed, err := repo.GetByID(context.Background(), orderID)
		require.NoError(t, err)
		require.Equal(t, customerID, placed.CustomerID)
		require.Len(t, placed.Lines, 1)
		require.Equal(t, productID, placed.Lines[0].ProductID)
		require.Equal(t, "Mechanical Keyboard", placed.Lines[0].ProductName)
		require.Equal(t, 2, placed.Lines[0].Quantity)
		require.True(t, placed.Lines[0].UnitPrice.Equal(decimal.RequireFromString("29.99")))
		require.True(t, placed.TotalAmount.Equal(decimal.RequireFromString("59.98")))

		evs := dispatcher.GetEvents()
		require.Len(t, evs, 1)
		created, ok := evs[0].(event.OrderCreated)
		require.True(t, ok)
		require.Equal(t, orderID, created.OrderID)
		require.Equal(t, customerID, created.CustomerID)
		require.True(t, created.TotalAmount.Equal(decimal.RequireFromString("59.98")))
	})

	t.Run("should fail for an unknown customer without side effects", func(t *testing.T) {
		svc, repo, dispatcher := setup(t)

		_, err := svc.PlaceOrder(context.Background(), placement.PlaceOrderCommand{
			CustomerID: uuid.New(),
			Lines: []placement.CommandLine{
				{ProductID: productID, Quantity: 1},
			},
		})

		require.ErrorIs(t, err, placement.ErrInvalidCustomer)
		require.Equal(t, 0, repo.Len())
		require.Empty(t, dispatcher.GetEvents())
	})

	t.Run("should fail for an unknown product without side effects", func(t *testing.T) {
		svc, repo, dispatcher := setup(t)

		unknown := uuid.New()
		_, err := svc.PlaceOrder(context.Background(), placement.PlaceOrderCommand{
			CustomerID: customerID,
			Lines: []placement.CommandLine{
				// two lines referencing the same unknown product must yield
				// exactly one failure, not a duplicate-handling crash
				{ProductID: unknown, Quantity: 1},
				{ProductID: unknown, Quantity: 3},
			},
		})

		require.ErrorIs(t, err, placement.ErrUnknownProduct)
		require.Equal(t, 0, repo.Len())
		require.Empty(t, dispatcher.GetEvents())
	})

	t.Run("should not fail on duplicate known product ids", func(t *testing.T) {
		svc, repo, _ := setup(t)

		orderID, err := svc.PlaceOrder(context.Background(), placement.PlaceOrderCommand{
			CustomerID: customerID,
			Lines: []placement.CommandLine{
				{ProductID: productID, Quantity: 1},
				{ProductID: productID, Quantity: 2},
			},
		})

		require.NoError(t, err)
		placed, err := repo.GetByID(context.Background(), orderID)
		require.NoError(t, err)
		require.Len(t, placed.Lines, 2)
		require.True(t, placed.TotalAmount.Equal(decimal.RequireFromString("89.97")))
	})

	t.Run("should reject an empty order", func(t *testing.T) {
		svc, repo, dispatcher := setup(t)

		_, err := svc.PlaceOrder(context.Background(), placement.PlaceOrderCommand{
			CustomerID: customerID,
		})

		require.ErrorIs(t, err, placement.ErrEmptyOrder)
		require.Equal(t, 0, repo.Len())
		require.Empty(t, dispatcher.GetEvents())
	})

	t.Run("should report persistence failure and emit no event", func(t *testing.T) {
		svc, repo, dispatcher := setup(t)
		repo.failAdd = errors.New("disk full")

		_, err := svc.PlaceOrder(context.Background(), placement.PlaceOrderCommand{
			CustomerID: customerID,
			Lines: []placement.CommandLine{
				{ProductID: productID, Quantity: 1},
			},
		})

		require.ErrorIs(t, err, placement.ErrPersistence)
		require.Empty(t, dispatcher.GetEvents())
	})

	t.Run("should return the placed order by id", func(t *testing.T) {
		svc, _, _ := setup(t)

		orderID, err := svc.PlaceOrder(context.Background(), placement.PlaceOrderCommand{
			CustomerID: customerID,
			Lines: []placement.CommandLine{
				{ProductID: productID, Quantity: 1},
			},
		})
		require.NoError(t, err)

		placed, err := svc.GetOrder(context.Background(), orderID)
		require.NoError(t, err)
		require.Equal(t, orderID, placed.ID)

		_, err = svc.GetOrder(context.Background(), uuid.New())
		require.ErrorIs(t, err, order.ErrOrderNotFound)
	})

	t.Run("should keep order placed when a subscriber faults", func(t *testing.T) {
		repo := newMockOrderRepo()
		dispatcher := events.NewDispatcher()
		healthy := &recordingSubscriber{name: "healthy"}
		faulty := &recordingSubscriber{name: "faulty", err: errors.New("ledger offline")}
		panicky := &recordingSubscriber{name: "panicky", panics: true}
		dispatcher.Subscribe(event.TypeOrderCreated, faulty, healthy, panicky)
		dispatcher.Freeze()

		svc := placement.MustNewPlacementService(
			placement.WithCustomerDirectory(&mockDirectory{
				customers: map[uuid.UUID]customer.Customer{
					customerID: {ID: customerID},
				},
			}),
			placement.WithProductCatalog(&mockCatalog{
				products: map[uuid.UUID]product.Product{productID: keyboard},
			}),
			placement.WithOrderRepository(repo),
			placement.WithEventDispatcher(dispatcher),
		)

		orderID, err := svc.PlaceOrder(context.Background(), placement.PlaceOrderCommand{
			CustomerID: customerID,
			Lines: []placement.CommandLine{
				{ProductID: productID, Quantity: 1},
			},
		})

		require.NoError(t, err)
		require.Equal(t, 1, repo.Len())
		require.Equal(t, 1, healthy.calls())
		require.Equal(t, 1, faulty.calls())
		require.Equal(t, 1, panicky.calls())
		_, err = repo.GetByID(context.Background(), orderID)
		require.NoError(t, err)
	})
}

type recordingSubscriber struct {
	mu     sync.Mutex
	name   string
	err    error
	panics bool
	count  int
}

func (s *recordingSubscriber) Name() string { return s.name }

func (s *recordingSubscriber) Handle(_ context.Context, _ events.Event) error {
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	if s.panics {
		panic("subscriber exploded")
	}
	return s.err
}

func (s *recordingSubscriber) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
