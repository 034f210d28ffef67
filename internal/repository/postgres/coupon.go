package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/loomcart/loomcart/internal/domain/coupon"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/logger"
	"github.com/loomcart/loomcart/internal/postgres"
	"github.com/loomcart/loomcart/internal/types"
)

type couponRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewCouponRepository(db postgres.IClient, logger *logger.Logger) coupon.Repository {
	return &couponRepository{db: db, logger: logger}
}

func (r *couponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	query := `
		INSERT INTO coupons (
			id, code, discount_percentage, minimum_amount, expires_at, is_active,
			customer_id, tier, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :code, :discount_percentage, :minimum_amount, :expires_at, :is_active,
			:customer_id, :tier, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating coupon", "coupon_id", c.ID, "code", c.Code)

	_, err := r.db.Querier(ctx).NamedExecContext(ctx, query, c)
	if err != nil {
		// The unique index on code is the collision signal the issuance
		// retry loop keys off.
		if postgres.IsUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A coupon with this code already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create coupon").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *couponRepository) Get(ctx context.Context, id string) (*coupon.Coupon, error) {
	var c coupon.Coupon
	query := `SELECT * FROM coupons WHERE id = $1 AND status != $2`

	err := r.db.Querier(ctx).GetContext(ctx, &c, query, id, types.StatusDeleted)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("coupon not found").
			WithHintf("Coupon with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get coupon").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	var c coupon.Coupon
	query := `SELECT * FROM coupons WHERE code = $1 AND status != $2`

	err := r.db.Querier(ctx).GetContext(ctx, &c, query, code, types.StatusDeleted)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("coupon not found").
			WithHintf("Coupon with code %s was not found", code).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get coupon").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *couponRepository) Update(ctx context.Context, c *coupon.Coupon) error {
	query := `
		UPDATE coupons SET
			discount_percentage = :discount_percentage,
			minimum_amount = :minimum_amount,
			expires_at = :expires_at,
			is_active = :is_active,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	r.logger.Debugw("updating coupon", "coupon_id", c.ID, "is_active", c.IsActive)

	result, err := r.db.Querier(ctx).NamedExecContext(ctx, query, c)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update coupon").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("coupon not found").
			WithHintf("Coupon with ID %s was not found", c.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *couponRepository) ListByCustomer(ctx context.Context, customerID string) ([]*coupon.Coupon, error) {
	var coupons []*coupon.Coupon
	query := `SELECT * FROM coupons WHERE customer_id = $1 AND status != $2 ORDER BY created_at DESC`

	if err := r.db.Querier(ctx).SelectContext(ctx, &coupons, query, customerID, types.StatusDeleted); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list coupons").
			Mark(ierr.ErrDatabase)
	}
	return coupons, nil
}

func (r *couponRepository) GetActiveVIPCoupon(ctx context.Context, customerID string, now time.Time) (*coupon.Coupon, error) {
	var c coupon.Coupon
	query := `
		SELECT * FROM coupons
		WHERE customer_id = $1
		  AND code LIKE $2
		  AND is_active = true
		  AND expires_at > $3
		  AND status != $4
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.Querier(ctx).GetContext(ctx, &c, query,
		customerID, types.VIPCouponCodePrefix+"%", now, types.StatusDeleted)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("no active vip coupon").
			WithHintf("Customer %s has no active VIP coupon", customerID).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to look up VIP coupon").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *couponRepository) GetLatestVIPCouponSince(ctx context.Context, customerID string, since time.Time) (*coupon.Coupon, error) {
	var c coupon.Coupon
	query := `
		SELECT * FROM coupons
		WHERE customer_id = $1
		  AND code LIKE $2
		  AND created_at >= $3
		  AND status != $4
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.Querier(ctx).GetContext(ctx, &c, query,
		customerID, types.VIPCouponCodePrefix+"%", since, types.StatusDeleted)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("no recent vip coupon").
			WithHintf("Customer %s has no VIP coupon in the window", customerID).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to look up VIP coupon").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}
