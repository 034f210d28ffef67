package dto

import (
	"github.com/loomcart/loomcart/internal/domain/order"
	"github.com/shopspring/decimal"
)

// CheckoutRequest converts the caller's cart into an order. The coupon code
// is optional.
type CheckoutRequest struct {
	CouponCode string `json:"coupon_code,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	*order.Order
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// NewOrderResponse creates a new order response
func NewOrderResponse(o *order.Order, discount decimal.Decimal) *OrderResponse {
	return &OrderResponse{Order: o, DiscountAmount: discount}
}

// ListOrdersResponse is the list wrapper for order responses
type ListOrdersResponse struct {
	Items []*OrderResponse `json:"items"`
	Total int              `json:"total"`
}
