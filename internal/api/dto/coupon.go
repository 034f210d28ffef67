package dto

import (
	"time"

	"github.com/loomcart/loomcart/internal/domain/coupon"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/shopspring/decimal"
)

// CreateCouponRequest represents the request to create a coupon manually
// (admin surface; the VIP engine issues its own)
type CreateCouponRequest struct {
	Code               string          `json:"code" validate:"required"`
	DiscountPercentage int             `json:"discount_percentage" validate:"required"`
	MinimumAmount      decimal.Decimal `json:"minimum_amount"`
	ExpiresAt          time.Time       `json:"expires_at" validate:"required"`
	CustomerID         string          `json:"customer_id" validate:"required"`
}

// Validate validates the CreateCouponRequest
func (r *CreateCouponRequest) Validate() error {
	if r.Code == "" {
		return ierr.NewError("code is required").
			WithHint("Please provide a coupon code").
			Mark(ierr.ErrValidation)
	}

	if r.DiscountPercentage <= 0 || r.DiscountPercentage > 60 {
		return ierr.NewError("discount_percentage must be between 1 and 60").
			WithHint("Please provide a discount percentage between 1 and 60").
			WithReportableDetails(map[string]any{
				"discount_percentage": r.DiscountPercentage,
			}).
			Mark(ierr.ErrValidation)
	}

	if r.MinimumAmount.IsNegative() {
		return ierr.NewError("minimum_amount must not be negative").
			WithHint("Please provide a non-negative minimum order amount").
			Mark(ierr.ErrValidation)
	}

	if r.ExpiresAt.Before(time.Now().UTC()) {
		return ierr.NewError("expires_at must be in the future").
			WithHint("Please provide a future expiration date").
			Mark(ierr.ErrValidation)
	}

	if r.CustomerID == "" {
		return ierr.NewError("customer_id is required").
			WithHint("Coupons are owned by exactly one customer").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// ValidateCouponRequest asks whether a coupon can be applied to an order total
type ValidateCouponRequest struct {
	Code       string          `json:"code" validate:"required"`
	OrderTotal decimal.Decimal `json:"order_total"`
}

// ValidateCouponResponse reports the result of a coupon validation. Invalid
// coupons are a normal outcome with a distinguishable reason.
type ValidateCouponResponse struct {
	Valid              bool            `json:"valid"`
	Reason             string          `json:"reason,omitempty"`
	DiscountPercentage int             `json:"discount_percentage,omitempty"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	FinalAmount        decimal.Decimal `json:"final_amount"`
}

// Validation reason labels
const (
	CouponReasonNotFound      = "coupon_not_found"
	CouponReasonInactive      = "coupon_inactive"
	CouponReasonExpired       = "coupon_expired"
	CouponReasonMinimumAmount = "minimum_amount_not_met"
	CouponReasonNotOwned      = "coupon_not_owned"
)

// CouponResponse represents a coupon in API responses
type CouponResponse struct {
	*coupon.Coupon
}

// NewCouponResponse creates a new coupon response
func NewCouponResponse(c *coupon.Coupon) *CouponResponse {
	return &CouponResponse{Coupon: c}
}

// ListCouponsResponse is the list wrapper for coupon responses
type ListCouponsResponse struct {
	Items []*CouponResponse `json:"items"`
	Total int               `json:"total"`
}
