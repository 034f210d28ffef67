package service

import (
	"context"

	"github.com/loomcart/loomcart/internal/api/dto"
	"github.com/loomcart/loomcart/internal/domain/cart"
	"github.com/loomcart/loomcart/internal/domain/product"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CartService manages the customer's single cart. Every mutation returns the
// full rendered cart so clients never need a follow-up read.
type CartService interface {
	GetCart(ctx context.Context, customerID string) (*dto.CartResponse, error)
	AddToCart(ctx context.Context, customerID string, req *dto.AddToCartRequest) (*dto.CartResponse, error)
	UpdateQuantity(ctx context.Context, customerID string, lineKey string, req *dto.UpdateCartLineRequest) (*dto.CartResponse, error)
	RemoveLine(ctx context.Context, customerID string, lineKey string) (*dto.CartResponse, error)
	ClearCart(ctx context.Context, customerID string) error
}

type cartService struct {
	ServiceParams
}

// NewCartService creates a new cart service
func NewCartService(params ServiceParams) CartService {
	return &cartService{ServiceParams: params}
}

// loadCart fetches the customer's cart along with the products its lines
// reference. Lines whose product has disappeared, or whose size is no longer
// sold, are dropped and the pruned cart persisted: stale lines heal on read
// instead of failing every later operation.
func (s *cartService) loadCart(ctx context.Context, customerID string) (*cart.Cart, map[string]*product.Product, error) {
	c, err := s.CartRepo.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}

	ids := lo.Uniq(lo.Map(c.Lines, func(l cart.Line, _ int) string {
		return l.ProductID
	}))

	products := map[string]*product.Product{}
	if len(ids) > 0 {
		batch, err := s.ProductRepo.GetBatch(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
		products = lo.KeyBy(batch, func(p *product.Product) string {
			return p.ID
		})
	}

	kept := lo.Filter(c.Lines, func(l cart.Line, _ int) bool {
		p, ok := products[l.ProductID]
		if !ok {
			return false
		}
		if p.HasSizes() {
			return lo.Contains(p.Sizes, l.Size)
		}
		return l.Size == ""
	})

	if len(kept) != len(c.Lines) {
		s.Logger.Infow("pruned stale cart lines",
			"customer_id", customerID,
			"dropped", len(c.Lines)-len(kept),
		)
		c.Lines = kept
		if err := s.CartRepo.Save(ctx, c); err != nil {
			return nil, nil, err
		}
	}

	return c, products, nil
}

func (s *cartService) render(c *cart.Cart, products map[string]*product.Product) *dto.CartResponse {
	resp := &dto.CartResponse{
		CustomerID: c.CustomerID,
		Lines:      make([]dto.CartLineResponse, 0, len(c.Lines)),
		Subtotal:   decimal.Zero,
	}

	for _, l := range c.Lines {
		p := products[l.ProductID]
		available, _ := p.AvailableStock(l.Size)
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))

		resp.Lines = append(resp.Lines, dto.CartLineResponse{
			Key:       l.Key().String(),
			ProductID: l.ProductID,
			Name:      p.Name,
			Size:      l.Size,
			Quantity:  l.Quantity,
			UnitPrice: p.Price,
			LineTotal: lineTotal,
			Available: available,
		})
		resp.Subtotal = resp.Subtotal.Add(lineTotal)
	}

	return resp
}

// validateLineStock checks that the product is sold in the requested size
// and that quantity units are available.
func validateLineStock(p *product.Product, size string, quantity int) error {
	if p.HasSizes() {
		if size == "" {
			return ierr.NewError("size is required for this product").
				WithHint("Please select a size").
				WithReportableDetails(map[string]any{
					"product_id": p.ID,
					"sizes":      p.Sizes,
				}).
				Mark(ierr.ErrValidation)
		}
		if !lo.Contains(p.Sizes, size) {
			return ierr.NewError("product is not sold in the requested size").
				WithHintf("Size %s is not available for this product", size).
				WithReportableDetails(map[string]any{
					"product_id": p.ID,
					"size":       size,
					"sizes":      p.Sizes,
				}).
				Mark(ierr.ErrValidation)
		}
	} else if size != "" {
		return ierr.NewError("product is not sold in sizes").
			WithHint("Do not provide a size for this product").
			Mark(ierr.ErrValidation)
	}

	available, _ := p.AvailableStock(size)
	if quantity > available {
		return ierr.NewError("insufficient stock").
			WithHintf("Only %d units are available", available).
			WithReportableDetails(map[string]any{
				"product_id": p.ID,
				"size":       size,
				"requested":  quantity,
				"available":  available,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	return nil
}

func (s *cartService) GetCart(ctx context.Context, customerID string) (*dto.CartResponse, error) {
	c, products, err := s.loadCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.render(c, products), nil
}

// AddToCart merges into an existing line for the same (product, size) and
// validates the combined quantity, so adding in two steps cannot reserve more
// than adding in one.
func (s *cartService) AddToCart(ctx context.Context, customerID string, req *dto.AddToCartRequest) (*dto.CartResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.ProductRepo.Get(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	c, products, err := s.loadCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	products[p.ID] = p

	key := types.CartLineKey{ProductID: req.ProductID, Size: req.Size}
	quantity := req.Quantity
	if i := c.FindLine(key); i >= 0 {
		quantity += c.Lines[i].Quantity
	}

	if err := validateLineStock(p, req.Size, quantity); err != nil {
		return nil, err
	}

	if i := c.FindLine(key); i >= 0 {
		c.Lines[i].Quantity = quantity
	} else {
		c.Lines = append(c.Lines, cart.Line{
			ProductID: req.ProductID,
			Size:      req.Size,
			Quantity:  quantity,
		})
	}

	if err := s.CartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	return s.render(c, products), nil
}

// UpdateQuantity sets the absolute quantity of an existing line after
// re-validating it against current stock.
func (s *cartService) UpdateQuantity(ctx context.Context, customerID string, lineKey string, req *dto.UpdateCartLineRequest) (*dto.CartResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, products, err := s.loadCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	key := types.ParseCartLineKey(lineKey)
	i := c.FindLine(key)
	if i < 0 {
		return nil, ierr.NewError("cart line not found").
			WithHintf("No cart line matches key %s", lineKey).
			Mark(ierr.ErrNotFound)
	}

	if err := validateLineStock(products[key.ProductID], key.Size, req.Quantity); err != nil {
		return nil, err
	}

	c.Lines[i].Quantity = req.Quantity
	if err := s.CartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	return s.render(c, products), nil
}

// RemoveLine drops the matching line. Removing a line that is not there is a
// success: the requested end state already holds.
func (s *cartService) RemoveLine(ctx context.Context, customerID string, lineKey string) (*dto.CartResponse, error) {
	c, products, err := s.loadCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	key := types.ParseCartLineKey(lineKey)
	if i := c.FindLine(key); i >= 0 {
		c.RemoveLine(key)
		if err := s.CartRepo.Save(ctx, c); err != nil {
			return nil, err
		}
	}

	return s.render(c, products), nil
}

func (s *cartService) ClearCart(ctx context.Context, customerID string) error {
	return s.CartRepo.Clear(ctx, customerID)
}
