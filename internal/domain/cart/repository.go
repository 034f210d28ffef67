package cart

import "context"

// Repository defines the interface for cart data access. Carts are stored
// whole: Save replaces the cart's line set in one write.
type Repository interface {
	// GetByCustomer returns the customer's cart, creating an empty one on
	// first access.
	GetByCustomer(ctx context.Context, customerID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Clear(ctx context.Context, customerID string) error
}
