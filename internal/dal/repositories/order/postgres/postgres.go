package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/commerce-labs/placement/internal/service/models/order"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// OrderDal represents order data access layer model.
type OrderDal struct {
	Id          string    `db:"id"`
	CustomerId  string    `db:"customer_id"`
	TotalAmount string    `db:"total_amount"`
	CreatedAt   time.Time `db:"created_at"`
}

// LineDal represents order line data access layer model.
type LineDal struct {
	OrderId     string `db:"order_id"`
	ProductId   string `db:"product_id"`
	ProductName string `db:"product_name"`
	Quantity    int    `db:"quantity"`
	UnitPrice   string `db:"unit_price"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	id, err := uuid.Parse(o.Id)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order id: %w", err)
	}
	customerID, err := uuid.Parse(o.CustomerId)
	if err != nil {
		return nil, fmt.Errorf("failed to parse customer id: %w", err)
	}
	total, err := decimal.NewFromString(o.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total amount: %w", err)
	}

	return &order.Order{
		ID:          id,
		CustomerID:  customerID,
		TotalAmount: total,
		CreatedAt:   o.CreatedAt,
		Lines:       []order.Line{},
	}, nil
}

// ToModel converts LineDal to the service layer Line model.
func (l *LineDal) ToModel() (*order.Line, error) {
	productID, err := uuid.Parse(l.ProductId)
	if err != nil {
		return nil, fmt.Errorf("failed to parse product id: %w", err)
	}
	price, err := decimal.NewFromString(l.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to parse unit price: %w", err)
	}

	return &order.Line{
		ProductID:   productID,
		ProductName: l.ProductName,
		Quantity:    l.Quantity,
		UnitPrice:   price,
	}, nil
}

// PostgresOrderRepository persists order aggregates in Postgres.
type PostgresOrderRepository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(pool *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Add inserts the order and its lines in a single transaction.
func (r *PostgresOrderRepository) Add(ctx context.Context, o order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := r.sb.Insert("orders").
		Columns("id", "customer_id", "total_amount", "created_at").
		Values(o.ID.String(), o.CustomerID.String(), o.TotalAmount.String(), o.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build order insert query: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	linesInsert := r.sb.Insert("order_lines").
		Columns("order_id", "product_id", "product_name", "quantity", "unit_price")
	for _, line := range o.Lines {
		linesInsert = linesInsert.Values(
			o.ID.String(),
			line.ProductID.String(),
			line.ProductName,
			line.Quantity,
			line.UnitPrice.String(),
		)
	}

	query, args, err = linesInsert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build order lines insert query: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert order lines: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order insert: %w", err)
	}

	return nil
}

// GetByID retrieves an order with its lines.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (order.Order, error) {
	query, args, err := r.sb.Select("id", "customer_id", "total_amount::text", "created_at").
		From("orders").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build order select query: %w", err)
	}

	var dal OrderDal
	row := r.pool.QueryRow(ctx, query, args...)
	if err := row.Scan(&dal.Id, &dal.CustomerId, &dal.TotalAmount, &dal.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, order.ErrOrderNotFound
		}

		return order.Order{}, fmt.Errorf("failed to query order: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to convert order dal to model: %w", err)
	}

	lines, err := r.queryLines(ctx, id)
	if err != nil {
		return order.Order{}, err
	}
	model.Lines = lines

	return *model, nil
}

func (r *PostgresOrderRepository) queryLines(ctx context.Context, orderID uuid.UUID) ([]order.Line, error) {
	query, args, err := r.sb.Select("order_id", "product_id", "product_name", "quantity", "unit_price::text").
		From("order_lines").
		Where(sq.Eq{"order_id": orderID.String()}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build order lines select query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []order.Line
	for rows.Next() {
		var dal LineDal
		if err := rows.Scan(&dal.OrderId, &dal.ProductId, &dal.ProductName, &dal.Quantity, &dal.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		line, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order line dal to model: %w", err)
		}
		lines = append(lines, *line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return lines, nil
}
