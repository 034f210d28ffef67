package postgres

import (
	"context"
	"database/sql"

	"github.com/loomcart/loomcart/internal/domain/order"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/logger"
	"github.com/loomcart/loomcart/internal/postgres"
	"github.com/loomcart/loomcart/internal/types"
	"github.com/shopspring/decimal"
)

type orderRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewOrderRepository(db postgres.IClient, logger *logger.Logger) order.Repository {
	return &orderRepository{db: db, logger: logger}
}

func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	query := `
		INSERT INTO orders (
			id, customer_id, total_amount, payment_status, coupon_code,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :customer_id, :total_amount, :payment_status, :coupon_code,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating order", "order_id", o.ID, "customer_id", o.CustomerID)

	if _, err := r.db.Querier(ctx).NamedExecContext(ctx, query, o); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create order").
			Mark(ierr.ErrDatabase)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, size, quantity, unit_price)
		VALUES (:order_id, :product_id, :size, :quantity, :unit_price)`

	for i := range o.Items {
		if _, err := r.db.Querier(ctx).NamedExecContext(ctx, itemQuery, &o.Items[i]); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to create order item").
				Mark(ierr.ErrDatabase)
		}
	}
	return nil
}

func (r *orderRepository) loadItems(ctx context.Context, o *order.Order) error {
	query := `SELECT * FROM order_items WHERE order_id = $1`
	if err := r.db.Querier(ctx).SelectContext(ctx, &o.Items, query, o.ID); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to load order items").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	query := `SELECT * FROM orders WHERE id = $1 AND status != $2`

	err := r.db.Querier(ctx).GetContext(ctx, &o, query, id, types.StatusDeleted)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("order not found").
			WithHintf("Order with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get order").
			Mark(ierr.ErrDatabase)
	}

	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID string) ([]*order.Order, error) {
	var orders []*order.Order
	query := `SELECT * FROM orders WHERE customer_id = $1 AND status != $2 ORDER BY created_at DESC`

	if err := r.db.Querier(ctx).SelectContext(ctx, &orders, query, customerID, types.StatusDeleted); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list orders").
			Mark(ierr.ErrDatabase)
	}

	for _, o := range orders {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *orderRepository) GetSpendingSummary(ctx context.Context, customerID string) (*order.SpendingSummary, error) {
	summary := order.SpendingSummary{
		CustomerID:    customerID,
		TotalSpent:    decimal.Zero,
		AvgOrderValue: decimal.Zero,
	}

	// The aggregate runs in the database; customers with no completed orders
	// come back as an all-zero row.
	query := `
		SELECT
			COALESCE(SUM(total_amount), 0) AS total_spent,
			COUNT(*)                       AS order_count,
			COALESCE(AVG(total_amount), 0) AS avg_order_value,
			MIN(created_at)                AS first_order_at,
			MAX(created_at)                AS last_order_at
		FROM orders
		WHERE customer_id = $1 AND payment_status = $2 AND status != $3`

	row := struct {
		TotalSpent    decimal.Decimal `db:"total_spent"`
		OrderCount    int             `db:"order_count"`
		AvgOrderValue decimal.Decimal `db:"avg_order_value"`
		FirstOrderAt  sql.NullTime    `db:"first_order_at"`
		LastOrderAt   sql.NullTime    `db:"last_order_at"`
	}{}

	err := r.db.Querier(ctx).GetContext(ctx, &row, query,
		customerID, types.PaymentStatusCompleted, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to aggregate spending").
			Mark(ierr.ErrDatabase)
	}

	summary.TotalSpent = row.TotalSpent
	summary.OrderCount = row.OrderCount
	summary.AvgOrderValue = row.AvgOrderValue
	if row.FirstOrderAt.Valid {
		summary.FirstOrderAt = &row.FirstOrderAt.Time
	}
	if row.LastOrderAt.Valid {
		summary.LastOrderAt = &row.LastOrderAt.Time
	}

	summary.Normalize()
	return &summary, nil
}

func (r *orderRepository) ListSpendingSummaries(ctx context.Context) ([]*order.SpendingSummary, error) {
	query := `
		SELECT
			customer_id,
			COALESCE(SUM(total_amount), 0) AS total_spent,
			COUNT(*)                       AS order_count,
			COALESCE(AVG(total_amount), 0) AS avg_order_value,
			MIN(created_at)                AS first_order_at,
			MAX(created_at)                AS last_order_at
		FROM orders
		WHERE payment_status = $1 AND status != $2
		GROUP BY customer_id
		ORDER BY customer_id`

	var summaries []*order.SpendingSummary
	err := r.db.Querier(ctx).SelectContext(ctx, &summaries, query,
		types.PaymentStatusCompleted, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to aggregate spending").
			Mark(ierr.ErrDatabase)
	}

	for _, s := range summaries {
		s.Normalize()
	}
	return summaries, nil
}
