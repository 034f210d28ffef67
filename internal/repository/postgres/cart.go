package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/loomcart/loomcart/internal/domain/cart"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/logger"
	"github.com/loomcart/loomcart/internal/postgres"
	"github.com/loomcart/loomcart/internal/types"
)

type cartRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewCartRepository(db postgres.IClient, logger *logger.Logger) cart.Repository {
	return &cartRepository{db: db, logger: logger}
}

func (r *cartRepository) GetByCustomer(ctx context.Context, customerID string) (*cart.Cart, error) {
	var c cart.Cart
	query := `SELECT * FROM carts WHERE customer_id = $1 AND status != $2`

	err := r.db.Querier(ctx).GetContext(ctx, &c, query, customerID, types.StatusDeleted)
	if err == sql.ErrNoRows {
		return r.createEmpty(ctx, customerID)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get cart").
			Mark(ierr.ErrDatabase)
	}

	lineQuery := `SELECT product_id, size, quantity FROM cart_lines WHERE cart_id = $1 ORDER BY position`
	if err := r.db.Querier(ctx).SelectContext(ctx, &c.Lines, lineQuery, c.ID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load cart lines").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *cartRepository) createEmpty(ctx context.Context, customerID string) (*cart.Cart, error) {
	c := &cart.Cart{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CART),
		CustomerID: customerID,
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}

	query := `
		INSERT INTO carts (id, customer_id, status, created_at, updated_at, created_by, updated_by)
		VALUES (:id, :customer_id, :status, :created_at, :updated_at, :created_by, :updated_by)
		ON CONFLICT (customer_id) DO NOTHING`

	r.logger.Debugw("creating cart", "cart_id", c.ID, "customer_id", customerID)

	result, err := r.db.Querier(ctx).NamedExecContext(ctx, query, c)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create cart").
			Mark(ierr.ErrDatabase)
	}

	// A concurrent request won the insert; read theirs back.
	if n, _ := result.RowsAffected(); n == 0 {
		return r.GetByCustomer(ctx, customerID)
	}
	return c, nil
}

// Save replaces the cart's whole line set. The delete and re-insert run in
// one transaction so readers never observe a half-written cart.
func (r *cartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return r.db.WithTx(ctx, func(ctx context.Context) error {
		q := r.db.Querier(ctx)

		if _, err := q.ExecContext(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, c.ID); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to save cart").
				Mark(ierr.ErrDatabase)
		}

		lineQuery := `
			INSERT INTO cart_lines (cart_id, product_id, size, quantity, position)
			VALUES ($1, $2, $3, $4, $5)`
		for i, l := range c.Lines {
			if _, err := q.ExecContext(ctx, lineQuery, c.ID, l.ProductID, l.Size, l.Quantity, i); err != nil {
				return ierr.WithError(err).
					WithHint("Failed to save cart line").
					Mark(ierr.ErrDatabase)
			}
		}

		updateQuery := `UPDATE carts SET updated_at = $2, updated_by = $3 WHERE id = $1`
		if _, err := q.ExecContext(ctx, updateQuery, c.ID, time.Now().UTC(), types.GetUserID(ctx)); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to save cart").
				Mark(ierr.ErrDatabase)
		}
		return nil
	})
}

func (r *cartRepository) Clear(ctx context.Context, customerID string) error {
	query := `
		DELETE FROM cart_lines
		WHERE cart_id IN (SELECT id FROM carts WHERE customer_id = $1)`

	r.logger.Debugw("clearing cart", "customer_id", customerID)

	if _, err := r.db.Querier(ctx).ExecContext(ctx, query, customerID); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to clear cart").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
