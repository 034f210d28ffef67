package order

import "context"

// Repository defines the interface for order data access
type Repository interface {
	Create(ctx context.Context, order *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Order, error)

	// GetSpendingSummary aggregates completed orders for one customer.
	// Customers with no completed orders get a zero-valued summary.
	GetSpendingSummary(ctx context.Context, customerID string) (*SpendingSummary, error)

	// ListSpendingSummaries aggregates completed orders grouped by customer
	// in a single pass, for batch evaluation.
	ListSpendingSummaries(ctx context.Context) ([]*SpendingSummary, error)
}
