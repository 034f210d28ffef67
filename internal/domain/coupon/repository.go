package coupon

import (
	"context"
	"time"
)

// Repository defines the interface for coupon data access.
//
// Code uniqueness is enforced by the datastore; Create surfaces a conflict as
// an already-exists error so callers can regenerate the code. The datastore
// also carries a partial unique index allowing at most one active VIP coupon
// per customer.
type Repository interface {
	Create(ctx context.Context, coupon *Coupon) error
	Get(ctx context.Context, id string) (*Coupon, error)
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	Update(ctx context.Context, coupon *Coupon) error
	ListByCustomer(ctx context.Context, customerID string) ([]*Coupon, error)

	// GetActiveVIPCoupon returns the customer's unexpired active VIP-prefixed
	// coupon, or a not-found error.
	GetActiveVIPCoupon(ctx context.Context, customerID string, now time.Time) (*Coupon, error)

	// GetLatestVIPCouponSince returns the most recent VIP-prefixed coupon
	// created for the customer after the given time, active or not, or a
	// not-found error. Used for cooldown checks.
	GetLatestVIPCouponSince(ctx context.Context, customerID string, since time.Time) (*Coupon, error)
}
