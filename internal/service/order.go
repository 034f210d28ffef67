package service

import (
	"context"

	"github.com/loomcart/loomcart/internal/api/dto"
	"github.com/loomcart/loomcart/internal/cache"
	"github.com/loomcart/loomcart/internal/domain/cart"
	"github.com/loomcart/loomcart/internal/domain/order"
	"github.com/loomcart/loomcart/internal/domain/product"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// OrderService converts carts into orders and serves order history
type OrderService interface {
	// Checkout prices the caller's cart, applies the optional coupon,
	// consumes stock, creates the order and clears the cart, all in one
	// transaction. Any failure leaves stock, coupon and cart untouched.
	Checkout(ctx context.Context, customerID string, req *dto.CheckoutRequest) (*dto.OrderResponse, error)

	GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error)
	ListOrdersByCustomer(ctx context.Context, customerID string) (*dto.ListOrdersResponse, error)
}

type orderService struct {
	ServiceParams
}

// NewOrderService creates a new order service
func NewOrderService(params ServiceParams) OrderService {
	return &orderService{ServiceParams: params}
}

func (s *orderService) Checkout(ctx context.Context, customerID string, req *dto.CheckoutRequest) (*dto.OrderResponse, error) {
	c, err := s.CartRepo.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if len(c.Lines) == 0 {
		return nil, ierr.NewError("cart is empty").
			WithHint("Add items to the cart before checking out").
			Mark(ierr.ErrInvalidOperation)
	}

	ids := lo.Uniq(lo.Map(c.Lines, func(l cart.Line, _ int) string {
		return l.ProductID
	}))
	batch, err := s.ProductRepo.GetBatch(ctx, ids)
	if err != nil {
		return nil, err
	}
	products := lo.KeyBy(batch, func(p *product.Product) string {
		return p.ID
	})

	// Price the cart up front; checks inside the transaction are the
	// authoritative ones.
	subtotal := decimal.Zero
	items := make([]order.LineItem, 0, len(c.Lines))
	for _, l := range c.Lines {
		p, ok := products[l.ProductID]
		if !ok {
			return nil, ierr.NewError("cart references a product that no longer exists").
				WithHintf("Product %s is no longer available; remove it from the cart", l.ProductID).
				Mark(ierr.ErrInvalidOperation)
		}
		if err := validateLineStock(p, l.Size, l.Quantity); err != nil {
			return nil, err
		}

		items = append(items, order.LineItem{
			ProductID: l.ProductID,
			Size:      l.Size,
			Quantity:  l.Quantity,
			UnitPrice: p.Price,
		})
		subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	var (
		created  *order.Order
		discount = decimal.Zero
	)

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		total := subtotal

		if req.CouponCode != "" {
			couponService := NewCouponService(s.ServiceParams)
			redeemed, d, err := couponService.RedeemCoupon(ctx, customerID, req.CouponCode, subtotal)
			if err != nil {
				return err
			}
			discount = d
			total = redeemed.ApplyDiscount(subtotal)
		}

		for _, item := range items {
			if err := s.ProductRepo.ConsumeStock(ctx, item.ProductID, item.Size, item.Quantity); err != nil {
				return err
			}
		}

		o := &order.Order{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORDER),
			CustomerID:    customerID,
			TotalAmount:   total,
			PaymentStatus: types.PaymentStatusCompleted,
			CouponCode:    types.ToNillableString(req.CouponCode),
			Items:         items,
			BaseModel:     types.GetDefaultBaseModel(ctx),
		}
		for i := range o.Items {
			o.Items[i].OrderID = o.ID
		}

		if err := s.OrderRepo.Create(ctx, o); err != nil {
			return err
		}

		if err := s.CartRepo.Clear(ctx, customerID); err != nil {
			return err
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("checkout complete",
		"customer_id", customerID,
		"order_id", created.ID,
		"total", created.TotalAmount,
		"discount", discount,
	)

	// Product stock changed; drop any cached reads.
	s.Cache.DeleteByPrefix(ctx, cache.PrefixProduct)

	return dto.NewOrderResponse(created, discount), nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := s.OrderRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewOrderResponse(o, decimal.Zero), nil
}

func (s *orderService) ListOrdersByCustomer(ctx context.Context, customerID string) (*dto.ListOrdersResponse, error) {
	orders, err := s.OrderRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &dto.ListOrdersResponse{
		Items: lo.Map(orders, func(o *order.Order, _ int) *dto.OrderResponse {
			return dto.NewOrderResponse(o, decimal.Zero)
		}),
		Total: len(orders),
	}, nil
}
