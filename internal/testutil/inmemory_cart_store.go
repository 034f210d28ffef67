package testutil

import (
	"context"
	"sync"

	"github.com/loomcart/loomcart/internal/domain/cart"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/types"
)

// InMemoryCartStore implements cart.Repository, keyed by customer id since
// each customer has exactly one cart.
type InMemoryCartStore struct {
	mu    sync.RWMutex
	carts map[string]*cart.Cart
}

// NewInMemoryCartStore creates a new in-memory cart store
func NewInMemoryCartStore() *InMemoryCartStore {
	return &InMemoryCartStore{
		carts: make(map[string]*cart.Cart),
	}
}

func copyCart(c *cart.Cart) *cart.Cart {
	if c == nil {
		return nil
	}
	copied := *c
	copied.Lines = append([]cart.Line(nil), c.Lines...)
	return &copied
}

func (s *InMemoryCartStore) GetByCustomer(ctx context.Context, customerID string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.carts[customerID]
	if !exists {
		c = &cart.Cart{
			ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CART),
			CustomerID: customerID,
			BaseModel:  types.GetDefaultBaseModel(ctx),
		}
		s.carts[customerID] = c
	}
	return copyCart(c), nil
}

func (s *InMemoryCartStore) Save(ctx context.Context, c *cart.Cart) error {
	if c == nil {
		return ierr.NewError("cart cannot be nil").
			WithHint("Cart cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[c.CustomerID] = copyCart(c)
	return nil
}

func (s *InMemoryCartStore) Clear(ctx context.Context, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, exists := s.carts[customerID]; exists {
		c.Lines = nil
	}
	return nil
}

// ClearAll removes every cart from the store
func (s *InMemoryCartStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts = make(map[string]*cart.Cart)
}
