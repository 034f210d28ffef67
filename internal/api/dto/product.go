package dto

import (
	"github.com/loomcart/loomcart/internal/domain/product"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents the request to create a new product
type CreateProductRequest struct {
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price" validate:"required"`
	Sizes     []string        `json:"sizes,omitempty"`
	Stock     int             `json:"stock"`
	SizeStock map[string]int  `json:"size_stock,omitempty"`
}

// Validate validates the CreateProductRequest
func (r *CreateProductRequest) Validate() error {
	if r.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Please provide a product name").
			Mark(ierr.ErrValidation)
	}

	if r.Price.IsNegative() {
		return ierr.NewError("price must not be negative").
			WithHint("Please provide a non-negative price").
			Mark(ierr.ErrValidation)
	}

	if len(r.Sizes) > 0 {
		if lo.SomeBy(r.Sizes, func(s string) bool { return s == "" }) {
			return ierr.NewError("sizes must not contain empty labels").
				WithHint("Please provide non-empty size labels").
				Mark(ierr.ErrValidation)
		}
		for size, count := range r.SizeStock {
			if count < 0 {
				return ierr.NewError("size stock must not be negative").
					WithHint("Stock counts must not be negative").
					WithReportableDetails(map[string]any{"size": size}).
					Mark(ierr.ErrValidation)
			}
		}
	} else if r.Stock < 0 {
		return ierr.NewError("stock must not be negative").
			WithHint("Stock counts must not be negative").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// UpdateStockRequest replaces a product's stock counts
type UpdateStockRequest struct {
	Stock     *int           `json:"stock,omitempty"`
	SizeStock map[string]int `json:"size_stock,omitempty"`
}

// Validate validates the UpdateStockRequest
func (r *UpdateStockRequest) Validate() error {
	if r.Stock == nil && r.SizeStock == nil {
		return ierr.NewError("stock or size_stock is required").
			WithHint("Provide stock for unsized products or size_stock for sized ones").
			Mark(ierr.ErrValidation)
	}

	if r.Stock != nil && *r.Stock < 0 {
		return ierr.NewError("stock must not be negative").
			WithHint("Stock counts must not be negative").
			Mark(ierr.ErrValidation)
	}

	for size, count := range r.SizeStock {
		if count < 0 {
			return ierr.NewError("size stock must not be negative").
				WithHint("Stock counts must not be negative").
				WithReportableDetails(map[string]any{"size": size}).
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	*product.Product
}

// NewProductResponse creates a new product response
func NewProductResponse(p *product.Product) *ProductResponse {
	return &ProductResponse{Product: p}
}

// ListProductsResponse is the list wrapper for product responses
type ListProductsResponse struct {
	Items []*ProductResponse `json:"items"`
	Total int                `json:"total"`
}
