package testutil

import (
	"context"
	"strings"
	"time"

	"github.com/loomcart/loomcart/internal/domain/coupon"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/types"
)

// InMemoryCouponStore implements coupon.Repository. Code uniqueness is
// enforced the way the database would: a conflicting Create fails with an
// already-exists error.
type InMemoryCouponStore struct {
	*InMemoryStore[*coupon.Coupon]
}

// NewInMemoryCouponStore creates a new in-memory coupon store
func NewInMemoryCouponStore() *InMemoryCouponStore {
	return &InMemoryCouponStore{
		InMemoryStore: NewInMemoryStore[*coupon.Coupon](),
	}
}

func copyCoupon(c *coupon.Coupon) *coupon.Coupon {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}

func (s *InMemoryCouponStore) Create(ctx context.Context, c *coupon.Coupon) error {
	if c == nil {
		return ierr.NewError("coupon cannot be nil").
			WithHint("Coupon cannot be nil").
			Mark(ierr.ErrValidation)
	}

	existing, _ := s.InMemoryStore.List(ctx, func(_ context.Context, other *coupon.Coupon) bool {
		return strings.EqualFold(other.Code, c.Code)
	}, nil)
	if len(existing) > 0 {
		return ierr.NewError("coupon code already exists").
			WithHint("Coupon codes must be unique").
			Mark(ierr.ErrAlreadyExists)
	}

	if err := s.InMemoryStore.Create(ctx, c.ID, copyCoupon(c)); err != nil {
		return ierr.WithError(err).
			WithHint("Coupon already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryCouponStore) Get(ctx context.Context, id string) (*coupon.Coupon, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("coupon not found").
			WithHintf("Coupon with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyCoupon(c), nil
}

func (s *InMemoryCouponStore) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	coupons, _ := s.InMemoryStore.List(ctx, func(_ context.Context, c *coupon.Coupon) bool {
		return c.Code == code
	}, nil)
	if len(coupons) == 0 {
		return nil, ierr.NewError("coupon not found").
			WithHintf("Coupon with code %s was not found", code).
			Mark(ierr.ErrNotFound)
	}
	return copyCoupon(coupons[0]), nil
}

func (s *InMemoryCouponStore) Update(ctx context.Context, c *coupon.Coupon) error {
	if c == nil {
		return ierr.NewError("coupon cannot be nil").
			WithHint("Coupon cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Update(ctx, c.ID, copyCoupon(c)); err != nil {
		return ierr.WithError(err).
			WithHintf("Coupon with ID %s was not found", c.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryCouponStore) ListByCustomer(ctx context.Context, customerID string) ([]*coupon.Coupon, error) {
	coupons, err := s.InMemoryStore.List(ctx, func(_ context.Context, c *coupon.Coupon) bool {
		return c.CustomerID == customerID
	}, func(i, j *coupon.Coupon) bool {
		return i.CreatedAt.After(j.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	result := make([]*coupon.Coupon, len(coupons))
	for i, c := range coupons {
		result[i] = copyCoupon(c)
	}
	return result, nil
}

func (s *InMemoryCouponStore) GetActiveVIPCoupon(ctx context.Context, customerID string, now time.Time) (*coupon.Coupon, error) {
	coupons, _ := s.InMemoryStore.List(ctx, func(_ context.Context, c *coupon.Coupon) bool {
		return c.CustomerID == customerID &&
			strings.HasPrefix(c.Code, types.VIPCouponCodePrefix) &&
			c.IsActive &&
			!c.IsExpired(now)
	}, nil)
	if len(coupons) == 0 {
		return nil, ierr.NewError("no active vip coupon").
			WithHintf("Customer %s has no active VIP coupon", customerID).
			Mark(ierr.ErrNotFound)
	}
	return copyCoupon(coupons[0]), nil
}

func (s *InMemoryCouponStore) GetLatestVIPCouponSince(ctx context.Context, customerID string, since time.Time) (*coupon.Coupon, error) {
	coupons, _ := s.InMemoryStore.List(ctx, func(_ context.Context, c *coupon.Coupon) bool {
		return c.CustomerID == customerID &&
			strings.HasPrefix(c.Code, types.VIPCouponCodePrefix) &&
			!c.CreatedAt.Before(since)
	}, func(i, j *coupon.Coupon) bool {
		return i.CreatedAt.After(j.CreatedAt)
	})
	if len(coupons) == 0 {
		return nil, ierr.NewError("no recent vip coupon").
			WithHintf("Customer %s has no VIP coupon since %s", customerID, since.Format(time.RFC3339)).
			Mark(ierr.ErrNotFound)
	}
	return copyCoupon(coupons[0]), nil
}
