package product

import "context"

// Repository defines the interface for product data access
type Repository interface {
	Create(ctx context.Context, product *Product) error
	Get(ctx context.Context, id string) (*Product, error)
	GetBatch(ctx context.Context, ids []string) ([]*Product, error)
	List(ctx context.Context) ([]*Product, error)
	Update(ctx context.Context, product *Product) error

	// ConsumeStock atomically decrements the stock for a (product, size)
	// pair, failing with an invalid-operation error when fewer than quantity
	// units remain. Size is empty for unsized products. The conditional
	// update closes the read-then-write window that a load/check/store
	// sequence would leave open.
	ConsumeStock(ctx context.Context, productID string, size string, quantity int) error
}
