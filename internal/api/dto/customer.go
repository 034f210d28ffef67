package dto

import (
	"net/mail"

	"github.com/loomcart/loomcart/internal/domain/customer"
	ierr "github.com/loomcart/loomcart/internal/errors"
)

// CreateCustomerRequest represents the request to create a new customer
type CreateCustomerRequest struct {
	ExternalID string `json:"external_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email,omitempty"`
}

// Validate validates the CreateCustomerRequest
func (r *CreateCustomerRequest) Validate() error {
	if r.ExternalID == "" {
		return ierr.NewError("external_id is required").
			WithHint("Please provide an external id").
			Mark(ierr.ErrValidation)
	}

	if r.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Please provide a customer name").
			Mark(ierr.ErrValidation)
	}

	if r.Email != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			return ierr.WithError(err).
				WithHint("Please provide a valid email address").
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	*customer.Customer
}

// NewCustomerResponse creates a new customer response
func NewCustomerResponse(c *customer.Customer) *CustomerResponse {
	return &CustomerResponse{Customer: c}
}
