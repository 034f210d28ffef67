package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/loomcart/loomcart/internal/domain/product"
	ierr "github.com/loomcart/loomcart/internal/errors"
)

// InMemoryProductStore implements product.Repository. It holds its own lock
// instead of embedding the generic store so ConsumeStock can check and
// decrement under one critical section, matching the conditional update the
// real datastore performs.
type InMemoryProductStore struct {
	mu       sync.RWMutex
	products map[string]*product.Product
}

// NewInMemoryProductStore creates a new in-memory product store
func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{
		products: make(map[string]*product.Product),
	}
}

func copyProduct(p *product.Product) *product.Product {
	if p == nil {
		return nil
	}
	copied := *p
	copied.Sizes = append([]string(nil), p.Sizes...)
	if p.SizeStock != nil {
		copied.SizeStock = make(map[string]int, len(p.SizeStock))
		for k, v := range p.SizeStock {
			copied.SizeStock[k] = v
		}
	}
	return &copied
}

func (s *InMemoryProductStore) Create(ctx context.Context, p *product.Product) error {
	if p == nil {
		return ierr.NewError("product cannot be nil").
			WithHint("Product cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; exists {
		return ierr.NewError("product already exists").
			WithHintf("Product with ID %s already exists", p.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	s.products[p.ID] = copyProduct(p)
	return nil
}

func (s *InMemoryProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.products[id]
	if !exists {
		return nil, ierr.NewError("product not found").
			WithHintf("Product with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyProduct(p), nil
}

func (s *InMemoryProductStore) GetBatch(ctx context.Context, ids []string) ([]*product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Missing ids are skipped, not errors: callers reconcile against what
	// came back.
	result := make([]*product.Product, 0, len(ids))
	for _, id := range ids {
		if p, exists := s.products[id]; exists {
			result = append(result, copyProduct(p))
		}
	}
	return result, nil
}

func (s *InMemoryProductStore) List(ctx context.Context) ([]*product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*product.Product, 0, len(s.products))
	for _, p := range s.products {
		result = append(result, copyProduct(p))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *InMemoryProductStore) Update(ctx context.Context, p *product.Product) error {
	if p == nil {
		return ierr.NewError("product cannot be nil").
			WithHint("Product cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; !exists {
		return ierr.NewError("product not found").
			WithHintf("Product with ID %s was not found", p.ID).
			Mark(ierr.ErrNotFound)
	}
	s.products[p.ID] = copyProduct(p)
	return nil
}

func (s *InMemoryProductStore) ConsumeStock(ctx context.Context, productID string, size string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.products[productID]
	if !exists {
		return ierr.NewError("product not found").
			WithHintf("Product with ID %s was not found", productID).
			Mark(ierr.ErrNotFound)
	}

	insufficient := func(available int) error {
		return ierr.NewError("insufficient stock").
			WithHintf("Only %d units are available", available).
			WithReportableDetails(map[string]any{
				"product_id": productID,
				"size":       size,
				"requested":  quantity,
				"available":  available,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	if size == "" {
		if p.Stock < quantity {
			return insufficient(p.Stock)
		}
		p.Stock -= quantity
		return nil
	}

	if p.SizeStock[size] < quantity {
		return insufficient(p.SizeStock[size])
	}
	p.SizeStock[size] -= quantity
	return nil
}

// Clear removes all products from the store
func (s *InMemoryProductStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = make(map[string]*product.Product)
}
