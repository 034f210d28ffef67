package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/loomcart/loomcart/internal/api/dto"
	"github.com/loomcart/loomcart/internal/domain/coupon"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CouponService owns coupon lifecycle: manual creation, VIP issuance,
// validation against an order total, and redemption at checkout.
type CouponService interface {
	CreateCoupon(ctx context.Context, req *dto.CreateCouponRequest) (*dto.CouponResponse, error)
	GetCoupon(ctx context.Context, idOrCode string) (*dto.CouponResponse, error)
	ListCouponsByCustomer(ctx context.Context, customerID string) (*dto.ListCouponsResponse, error)

	// ValidateCoupon checks whether the customer can apply the coupon to the
	// given order total. An unusable coupon is a normal outcome with a
	// reason, not an error.
	ValidateCoupon(ctx context.Context, customerID string, req *dto.ValidateCouponRequest) (*dto.ValidateCouponResponse, error)

	// IssueVIPCoupon mints a tier-appropriate coupon for the customer. Code
	// collisions are retried with a fresh code.
	IssueVIPCoupon(ctx context.Context, customerID string, tier types.VIPTier) (*coupon.Coupon, error)

	// RedeemCoupon validates, deactivates and returns the coupon along with
	// the discount it grants on the given total. Called inside the checkout
	// transaction.
	RedeemCoupon(ctx context.Context, customerID string, code string, orderTotal decimal.Decimal) (*coupon.Coupon, decimal.Decimal, error)
}

type couponService struct {
	ServiceParams
}

// NewCouponService creates a new coupon service
func NewCouponService(params ServiceParams) CouponService {
	return &couponService{ServiceParams: params}
}

func (s *couponService) CreateCoupon(ctx context.Context, req *dto.CreateCouponRequest) (*dto.CouponResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.CustomerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	c := &coupon.Coupon{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COUPON),
		Code:               req.Code,
		DiscountPercentage: req.DiscountPercentage,
		MinimumAmount:      req.MinimumAmount,
		ExpiresAt:          req.ExpiresAt.UTC(),
		IsActive:           true,
		CustomerID:         req.CustomerID,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}

	if err := s.CouponRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	return dto.NewCouponResponse(c), nil
}

func (s *couponService) GetCoupon(ctx context.Context, idOrCode string) (*dto.CouponResponse, error) {
	// Coupons are addressable by internal ID or by their public code.
	if strings.HasPrefix(idOrCode, types.UUID_PREFIX_COUPON+"_") {
		c, err := s.CouponRepo.Get(ctx, idOrCode)
		if err != nil {
			return nil, err
		}
		return dto.NewCouponResponse(c), nil
	}

	c, err := s.CouponRepo.GetByCode(ctx, idOrCode)
	if err != nil {
		return nil, err
	}
	return dto.NewCouponResponse(c), nil
}

func (s *couponService) ListCouponsByCustomer(ctx context.Context, customerID string) (*dto.ListCouponsResponse, error) {
	coupons, err := s.CouponRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &dto.ListCouponsResponse{
		Items: lo.Map(coupons, func(c *coupon.Coupon, _ int) *dto.CouponResponse {
			return dto.NewCouponResponse(c)
		}),
		Total: len(coupons),
	}, nil
}

func (s *couponService) ValidateCoupon(ctx context.Context, customerID string, req *dto.ValidateCouponRequest) (*dto.ValidateCouponResponse, error) {
	if req.Code == "" {
		return nil, ierr.NewError("code is required").
			WithHint("Please provide a coupon code").
			Mark(ierr.ErrValidation)
	}
	if req.OrderTotal.IsNegative() {
		return nil, ierr.NewError("order_total must not be negative").
			WithHint("Please provide a non-negative order total").
			Mark(ierr.ErrValidation)
	}

	c, err := s.CouponRepo.GetByCode(ctx, req.Code)
	if err != nil {
		if ierr.IsNotFound(err) {
			return &dto.ValidateCouponResponse{Reason: dto.CouponReasonNotFound, FinalAmount: req.OrderTotal}, nil
		}
		return nil, err
	}

	reason := s.usabilityReason(ctx, c, customerID, req.OrderTotal)
	if reason != "" {
		return &dto.ValidateCouponResponse{Reason: reason, FinalAmount: req.OrderTotal}, nil
	}

	return &dto.ValidateCouponResponse{
		Valid:              true,
		DiscountPercentage: c.DiscountPercentage,
		DiscountAmount:     c.CalculateDiscount(req.OrderTotal),
		FinalAmount:        c.ApplyDiscount(req.OrderTotal),
	}, nil
}

// usabilityReason returns the first reason the coupon cannot be applied, or
// empty when it can. Expired coupons still marked active are deactivated on
// read so later lookups see a consistent state.
func (s *couponService) usabilityReason(ctx context.Context, c *coupon.Coupon, customerID string, orderTotal decimal.Decimal) string {
	now := time.Now().UTC()

	if c.CustomerID != customerID {
		return dto.CouponReasonNotOwned
	}

	if c.IsExpired(now) {
		if c.IsActive {
			c.IsActive = false
			if err := s.CouponRepo.Update(ctx, c); err != nil {
				s.Logger.Warnw("failed to deactivate expired coupon", "coupon_id", c.ID, "error", err)
			}
		}
		return dto.CouponReasonExpired
	}

	if !c.IsActive {
		return dto.CouponReasonInactive
	}

	if orderTotal.LessThan(c.MinimumAmount) {
		return dto.CouponReasonMinimumAmount
	}

	return ""
}

// vipCodeAlphabet excludes lowercase to keep codes easy to read aloud
const vipCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateVIPCode returns a fresh VIP-prefixed code with a 6 character
// random suffix.
func generateVIPCode() (string, error) {
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to generate coupon code").
			Mark(ierr.ErrSystem)
	}
	for i, b := range suffix {
		suffix[i] = vipCodeAlphabet[int(b)%len(vipCodeAlphabet)]
	}
	return types.VIPCouponCodePrefix + string(suffix), nil
}

func (s *couponService) IssueVIPCoupon(ctx context.Context, customerID string, tier types.VIPTier) (*coupon.Coupon, error) {
	benefit, ok := tier.Benefit()
	if !ok {
		return nil, ierr.NewError(fmt.Sprintf("tier %s carries no coupon benefit", tier)).
			WithHint("Only qualified tiers can be issued a VIP coupon").
			Mark(ierr.ErrInvalidOperation)
	}

	now := time.Now().UTC()
	var issued *coupon.Coupon

	// A code collision is vanishingly rare but cheap to recover from: mint a
	// new code and insert again.
	operation := func() error {
		code, err := generateVIPCode()
		if err != nil {
			return backoff.Permanent(err)
		}

		c := &coupon.Coupon{
			ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COUPON),
			Code:               code,
			DiscountPercentage: benefit.DiscountPercentage,
			MinimumAmount:      benefit.MinimumAmount,
			ExpiresAt:          now.AddDate(0, 0, benefit.ValidityDays),
			IsActive:           true,
			CustomerID:         customerID,
			Tier:               tier,
			BaseModel:          types.GetDefaultBaseModel(ctx),
		}

		if err := s.CouponRepo.Create(ctx, c); err != nil {
			if ierr.IsAlreadyExists(err) {
				return err
			}
			return backoff.Permanent(err)
		}

		issued = c
		return nil
	}

	retries := uint64(s.Config.VIP.CodeInsertRetries)
	if err := backoff.Retry(operation, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries)); err != nil {
		return nil, err
	}

	return issued, nil
}

func (s *couponService) RedeemCoupon(ctx context.Context, customerID string, code string, orderTotal decimal.Decimal) (*coupon.Coupon, decimal.Decimal, error) {
	c, err := s.CouponRepo.GetByCode(ctx, code)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, decimal.Zero, ierr.WithError(err).
				WithHintf("Coupon %s does not exist", code).
				Mark(ierr.ErrNotFound)
		}
		return nil, decimal.Zero, err
	}

	if reason := s.usabilityReason(ctx, c, customerID, orderTotal); reason != "" {
		return nil, decimal.Zero, ierr.NewError(fmt.Sprintf("coupon %s cannot be applied", code)).
			WithHint("The coupon is not valid for this order").
			WithReportableDetails(map[string]any{
				"code":   code,
				"reason": reason,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	c.IsActive = false
	c.UpdatedAt = time.Now().UTC()
	if err := s.CouponRepo.Update(ctx, c); err != nil {
		return nil, decimal.Zero, err
	}

	return c, c.CalculateDiscount(orderTotal), nil
}
