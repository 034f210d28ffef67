package dto

import (
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/shopspring/decimal"
)

// AddToCartRequest adds quantity units of a product (in a size, when the
// product is sized) to the caller's cart
type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Validate validates the AddToCartRequest and applies the default quantity
func (r *AddToCartRequest) Validate() error {
	if r.ProductID == "" {
		return ierr.NewError("product_id is required").
			WithHint("Please provide a product id").
			Mark(ierr.ErrValidation)
	}

	if r.Quantity == 0 {
		r.Quantity = 1
	}

	if r.Quantity < 0 {
		return ierr.NewError("quantity must be at least 1").
			WithHint("Quantity must be at least 1").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// UpdateCartLineRequest sets the absolute quantity of an existing cart line
type UpdateCartLineRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// Validate validates the UpdateCartLineRequest
func (r *UpdateCartLineRequest) Validate() error {
	if r.Quantity <= 0 {
		return ierr.NewError("quantity must be at least 1").
			WithHint("Quantity must be at least 1; remove the line instead of setting it to zero").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CartLineResponse is one cart line enriched with product details
type CartLineResponse struct {
	Key       string          `json:"key"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	Available int             `json:"available"`
}

// CartResponse is the caller's cart after a read or mutation
type CartResponse struct {
	CustomerID string             `json:"customer_id"`
	Lines      []CartLineResponse `json:"lines"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
}
