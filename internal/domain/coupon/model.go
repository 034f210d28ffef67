package coupon

import (
	"strings"
	"time"

	"github.com/loomcart/loomcart/internal/types"
	"github.com/shopspring/decimal"
)

// Coupon represents a percentage discount owned by exactly one customer
type Coupon struct {
	ID                 string          `db:"id" json:"id"`
	Code               string          `db:"code" json:"code"`
	DiscountPercentage int             `db:"discount_percentage" json:"discount_percentage"`
	MinimumAmount      decimal.Decimal `db:"minimum_amount" json:"minimum_amount"`
	ExpiresAt          time.Time       `db:"expires_at" json:"expires_at"`
	IsActive           bool            `db:"is_active" json:"is_active"`
	CustomerID         string          `db:"customer_id" json:"customer_id"`
	Tier               types.VIPTier   `db:"tier" json:"tier,omitempty"`

	types.BaseModel
}

// IsVIP reports whether the coupon was issued by the VIP program
func (c *Coupon) IsVIP() bool {
	return strings.HasPrefix(c.Code, types.VIPCouponCodePrefix)
}

// IsExpired reports whether the coupon has passed its expiration date
func (c *Coupon) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// IsRedeemable checks activity, expiry and the minimum order amount
func (c *Coupon) IsRedeemable(now time.Time, orderTotal decimal.Decimal) bool {
	if !c.IsActive || c.IsExpired(now) {
		return false
	}
	return orderTotal.GreaterThanOrEqual(c.MinimumAmount)
}

// CalculateDiscount calculates the discount amount for a given price
func (c *Coupon) CalculateDiscount(originalPrice decimal.Decimal) decimal.Decimal {
	return originalPrice.
		Mul(decimal.NewFromInt(int64(c.DiscountPercentage))).
		Div(decimal.NewFromInt(100))
}

// ApplyDiscount applies the discount to a given price and returns the final
// price, floored at zero
func (c *Coupon) ApplyDiscount(originalPrice decimal.Decimal) decimal.Decimal {
	finalPrice := originalPrice.Sub(c.CalculateDiscount(originalPrice))
	if finalPrice.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return finalPrice
}
