package customer

import (
	"github.com/loomcart/loomcart/internal/types"
)

// Customer represents a storefront customer
type Customer struct {
	// ID is the unique identifier for the customer
	ID string `db:"id" json:"id"`

	// ExternalID is the identifier the surrounding auth layer knows the
	// customer by
	ExternalID string `db:"external_id" json:"external_id"`

	// Name is the display name of the customer
	Name string `db:"name" json:"name"`

	// Email is the email of the customer
	Email string `db:"email" json:"email"`

	types.BaseModel
}
