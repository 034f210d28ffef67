package testutil

import (
	"context"
	"sort"

	"github.com/loomcart/loomcart/internal/domain/order"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/types"
	"github.com/shopspring/decimal"
)

// InMemoryOrderStore implements order.Repository
type InMemoryOrderStore struct {
	*InMemoryStore[*order.Order]
}

// NewInMemoryOrderStore creates a new in-memory order store
func NewInMemoryOrderStore() *InMemoryOrderStore {
	return &InMemoryOrderStore{
		InMemoryStore: NewInMemoryStore[*order.Order](),
	}
}

func copyOrder(o *order.Order) *order.Order {
	if o == nil {
		return nil
	}
	copied := *o
	copied.Items = append([]order.LineItem(nil), o.Items...)
	return &copied
}

func (s *InMemoryOrderStore) Create(ctx context.Context, o *order.Order) error {
	if o == nil {
		return ierr.NewError("order cannot be nil").
			WithHint("Order cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, o.ID, copyOrder(o)); err != nil {
		return ierr.WithError(err).
			WithHint("Order already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryOrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	o, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("order not found").
			WithHintf("Order with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyOrder(o), nil
}

func (s *InMemoryOrderStore) ListByCustomer(ctx context.Context, customerID string) ([]*order.Order, error) {
	orders, err := s.InMemoryStore.List(ctx, func(_ context.Context, o *order.Order) bool {
		return o.CustomerID == customerID
	}, func(i, j *order.Order) bool {
		return i.CreatedAt.After(j.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	result := make([]*order.Order, len(orders))
	for i, o := range orders {
		result[i] = copyOrder(o)
	}
	return result, nil
}

// summarize folds one order into the aggregate
func summarize(summary *order.SpendingSummary, o *order.Order) {
	summary.TotalSpent = summary.TotalSpent.Add(o.TotalAmount)
	summary.OrderCount++

	createdAt := o.CreatedAt
	if summary.FirstOrderAt == nil || createdAt.Before(*summary.FirstOrderAt) {
		summary.FirstOrderAt = &createdAt
	}
	if summary.LastOrderAt == nil || createdAt.After(*summary.LastOrderAt) {
		summary.LastOrderAt = &createdAt
	}
}

func (s *InMemoryOrderStore) GetSpendingSummary(ctx context.Context, customerID string) (*order.SpendingSummary, error) {
	orders, err := s.InMemoryStore.List(ctx, func(_ context.Context, o *order.Order) bool {
		return o.CustomerID == customerID && o.PaymentStatus == types.PaymentStatusCompleted
	}, nil)
	if err != nil {
		return nil, err
	}

	summary := &order.SpendingSummary{
		CustomerID:    customerID,
		TotalSpent:    decimal.Zero,
		AvgOrderValue: decimal.Zero,
	}
	for _, o := range orders {
		summarize(summary, o)
	}
	summary.Normalize()
	return summary, nil
}

func (s *InMemoryOrderStore) ListSpendingSummaries(ctx context.Context) ([]*order.SpendingSummary, error) {
	orders, err := s.InMemoryStore.List(ctx, func(_ context.Context, o *order.Order) bool {
		return o.PaymentStatus == types.PaymentStatusCompleted
	}, nil)
	if err != nil {
		return nil, err
	}

	byCustomer := make(map[string]*order.SpendingSummary)
	for _, o := range orders {
		summary, ok := byCustomer[o.CustomerID]
		if !ok {
			summary = &order.SpendingSummary{
				CustomerID:    o.CustomerID,
				TotalSpent:    decimal.Zero,
				AvgOrderValue: decimal.Zero,
			}
			byCustomer[o.CustomerID] = summary
		}
		summarize(summary, o)
	}

	result := make([]*order.SpendingSummary, 0, len(byCustomer))
	for _, summary := range byCustomer {
		summary.Normalize()
		result = append(result, summary)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CustomerID < result[j].CustomerID
	})
	return result, nil
}
