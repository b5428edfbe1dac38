package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/commerce-labs/placement/internal/dal/interfaces/iorderrepo"
	"github.com/commerce-labs/placement/internal/dal/interfaces/ioutboxrepo"
	"github.com/commerce-labs/placement/internal/dal/postgres"
	"github.com/commerce-labs/placement/internal/dal/rabbitmq"
	catalogmem "github.com/commerce-labs/placement/internal/dal/repositories/catalog/inmemory"
	customermem "github.com/commerce-labs/placement/internal/dal/repositories/customer/inmemory"
	ordermem "github.com/commerce-labs/placement/internal/dal/repositories/order/inmemory"
	orderpg "github.com/commerce-labs/placement/internal/dal/repositories/order/postgres"
	outboxmem "github.com/commerce-labs/placement/internal/dal/repositories/outbox/inmemory"
	outboxpg "github.com/commerce-labs/placement/internal/dal/repositories/outbox/postgres"
	"github.com/commerce-labs/placement/internal/events"
	"github.com/commerce-labs/placement/internal/events/subscribers/audit"
	"github.com/commerce-labs/placement/internal/events/subscribers/integration"
	"github.com/commerce-labs/placement/internal/events/subscribers/loyalty"
	"github.com/commerce-labs/placement/internal/events/subscribers/notification"
	"github.com/commerce-labs/placement/internal/jaeger"
	"github.com/commerce-labs/placement/internal/service/models/event"
	"github.com/commerce-labs/placement/internal/service/services/placement"
	httptransport "github.com/commerce-labs/placement/internal/transport/http"
	outboxworker "github.com/commerce-labs/placement/internal/worker/outbox"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// App represents the application.
type App struct {
	placementSvc   *placement.PlacementService
	transport      *httptransport.HTTPTransport
	worker         *outboxworker.Worker
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	tracerProvider *sdktrace.TracerProvider
}

// MustNewApp wires the application: storage adapters, event subscribers,
// the placement service and the HTTP transport. All dependencies are
// passed explicitly; there is no ambient service lookup.
func MustNewApp() *App {
	app := &App{}

	var (
		orderRepo  iorderrepo.IOrderRepository
		outboxRepo ioutboxrepo.IOutboxRepository
	)

	switch driver := viper.GetString("storage.driver"); driver {
	case "postgres":
		app.postgresClient = postgres.MustNewClient()
		orderRepo = orderpg.NewPostgresOrderRepository(app.postgresClient.Pool())
		outboxRepo = outboxpg.NewOutboxRepository(app.postgresClient.Pool())
	case "", "memory":
		orderRepo = ordermem.NewOrderRepository()
		outboxRepo = outboxmem.NewOutboxRepository()
	default:
		panic("unknown storage driver: " + driver)
	}

	directory := customermem.NewCustomerDirectory(mustLoadCustomerSeed())
	catalog := catalogmem.NewProductCatalog(mustLoadProductSeed())

	dispatcher := events.NewDispatcher()
	dispatcher.Subscribe(event.TypeOrderCreated,
		notification.NewSubscriber(directory, notification.LogSender{}),
		loyalty.NewSubscriber(loyalty.NewInMemoryLedger()),
		integration.NewSubscriber(outboxRepo),
		audit.NewSubscriber(),
	)
	dispatcher.Freeze()

	app.placementSvc = placement.MustNewPlacementService(
		placement.WithCustomerDirectory(directory),
		placement.WithProductCatalog(catalog),
		placement.WithOrderRepository(orderRepo),
		placement.WithEventDispatcher(dispatcher),
	)

	app.transport = httptransport.NewHTTPTransport(app.placementSvc)
	app.transport.RegisterRoutes()

	var publisher outboxworker.Publisher = outboxworker.NopPublisher{}
	if viper.GetBool("rabbitmq.enabled") {
		app.rabbitClient = rabbitmq.MustNewClient()
		if _, err := app.rabbitClient.DeclareQueue(rabbitmq.DeclareQueueConfig{
			Name:    integration.QueueOrderCreated,
			Durable: true,
		}); err != nil {
			panic(err)
		}
		publisher = app.rabbitClient
	}
	app.worker = outboxworker.NewWorker(outboxRepo, publisher)

	if viper.GetBool("tracing.enabled") {
		app.tracerProvider = jaeger.MustSetup()
	}

	return app
}

// Run starts the application and blocks until an interrupt signal
// arrives, then shuts everything down gracefully.
func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		a.worker.Start(ctx)

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return a.transport.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Application error", "error", err)
	}

	if a.rabbitClient != nil {
		if err := a.rabbitClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		}
	}

	if a.postgresClient != nil {
		a.postgresClient.Close()
		slog.Info("Database connection closed gracefully")
	}

	if a.tracerProvider != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
			slog.Error("Tracer provider shutdown error", "error", err)
		}
	}

	slog.Info("Application shutdown complete")
}
