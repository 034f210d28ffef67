package service

import (
	"testing"

	"github.com/loomcart/loomcart/internal/api/dto"
	"github.com/loomcart/loomcart/internal/domain/coupon"
	"github.com/loomcart/loomcart/internal/domain/product"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/testutil"
	"github.com/loomcart/loomcart/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type OrderServiceSuite struct {
	testutil.BaseServiceTestSuite
	orderService OrderService
	cartService  CartService
	productRepo  *testutil.InMemoryProductStore
	couponRepo   *testutil.InMemoryCouponStore
	orderRepo    *testutil.InMemoryOrderStore
}

func TestOrderService(t *testing.T) {
	suite.Run(t, new(OrderServiceSuite))
}

func (s *OrderServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
}

func (s *OrderServiceSuite) setupService() {
	stores := s.GetStores()
	s.productRepo = stores.ProductRepo.(*testutil.InMemoryProductStore)
	s.couponRepo = stores.CouponRepo.(*testutil.InMemoryCouponStore)
	s.orderRepo = stores.OrderRepo.(*testutil.InMemoryOrderStore)

	params := ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		Cache:        s.GetCache(),
		CustomerRepo: stores.CustomerRepo,
		OrderRepo:    stores.OrderRepo,
		CouponRepo:   stores.CouponRepo,
		ProductRepo:  stores.ProductRepo,
		CartRepo:     stores.CartRepo,
	}
	s.orderService = NewOrderService(params)
	s.cartService = NewCartService(params)
}

func (s *OrderServiceSuite) createProduct(name string, price int64, stock int) string {
	p := &product.Product{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRODUCT),
		Name:      name,
		Price:     decimal.NewFromInt(price),
		Stock:     stock,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.productRepo.Create(s.GetContext(), p))
	return p.ID
}

func (s *OrderServiceSuite) addToCart(customerID, productID string, quantity int) {
	_, err := s.cartService.AddToCart(s.GetContext(), customerID, &dto.AddToCartRequest{
		ProductID: productID,
		Quantity:  quantity,
	})
	s.NoError(err)
}

func (s *OrderServiceSuite) TestCheckout() {
	productID := s.createProduct("Mug", 10, 5)
	s.addToCart("cust_1", productID, 3)

	resp, err := s.orderService.Checkout(s.GetContext(), "cust_1", &dto.CheckoutRequest{})
	s.NoError(err)
	s.Equal("cust_1", resp.CustomerID)
	s.True(resp.TotalAmount.Equal(decimal.NewFromInt(30)))
	s.Equal(types.PaymentStatusCompleted, resp.PaymentStatus)
	s.Len(resp.Items, 1)
	s.Equal(3, resp.Items[0].Quantity)
	s.Nil(resp.CouponCode)

	// Stock is consumed and the cart is emptied.
	p, err := s.productRepo.Get(s.GetContext(), productID)
	s.NoError(err)
	s.Equal(2, p.Stock)

	cartResp, err := s.cartService.GetCart(s.GetContext(), "cust_1")
	s.NoError(err)
	s.Empty(cartResp.Lines)
}

func (s *OrderServiceSuite) TestCheckoutEmptyCart() {
	_, err := s.orderService.Checkout(s.GetContext(), "cust_1", &dto.CheckoutRequest{})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *OrderServiceSuite) TestCheckoutWithCoupon() {
	productID := s.createProduct("Chair", 100, 5)
	s.addToCart("cust_1", productID, 2)

	err := s.couponRepo.Create(s.GetContext(), &coupon.Coupon{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COUPON),
		Code:               "SAVE25",
		DiscountPercentage: 25,
		MinimumAmount:      decimal.NewFromInt(100),
		ExpiresAt:          s.GetNow().AddDate(0, 1, 0),
		IsActive:           true,
		CustomerID:         "cust_1",
		BaseModel:          types.GetDefaultBaseModel(s.GetContext()),
	})
	s.NoError(err)

	resp, err := s.orderService.Checkout(s.GetContext(), "cust_1", &dto.CheckoutRequest{CouponCode: "SAVE25"})
	s.NoError(err)
	s.True(resp.TotalAmount.Equal(decimal.NewFromInt(150)), "25 percent off a 200 subtotal")
	s.True(resp.DiscountAmount.Equal(decimal.NewFromInt(50)))
	s.NotNil(resp.CouponCode)
	s.Equal("SAVE25", *resp.CouponCode)

	redeemed, err := s.couponRepo.GetByCode(s.GetContext(), "SAVE25")
	s.NoError(err)
	s.False(redeemed.IsActive)
}

func (s *OrderServiceSuite) TestCheckoutRejectsUnusableCoupon() {
	productID := s.createProduct("Pen", 5, 10)
	s.addToCart("cust_1", productID, 2)

	// Subtotal 10 is below the coupon's 100 minimum.
	err := s.couponRepo.Create(s.GetContext(), &coupon.Coupon{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COUPON),
		Code:               "BIGONLY",
		DiscountPercentage: 25,
		MinimumAmount:      decimal.NewFromInt(100),
		ExpiresAt:          s.GetNow().AddDate(0, 1, 0),
		IsActive:           true,
		CustomerID:         "cust_1",
		BaseModel:          types.GetDefaultBaseModel(s.GetContext()),
	})
	s.NoError(err)

	_, err = s.orderService.Checkout(s.GetContext(), "cust_1", &dto.CheckoutRequest{CouponCode: "BIGONLY"})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	// Nothing was consumed.
	p, err := s.productRepo.Get(s.GetContext(), productID)
	s.NoError(err)
	s.Equal(10, p.Stock)

	cartResp, err := s.cartService.GetCart(s.GetContext(), "cust_1")
	s.NoError(err)
	s.Len(cartResp.Lines, 1)
}

func (s *OrderServiceSuite) TestCheckoutInsufficientStock() {
	productID := s.createProduct("Lamp", 50, 5)
	s.addToCart("cust_1", productID, 4)

	// Stock shrinks after the item went into the cart.
	s.NoError(s.productRepo.ConsumeStock(s.GetContext(), productID, "", 3))

	_, err := s.orderService.Checkout(s.GetContext(), "cust_1", &dto.CheckoutRequest{})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	p, err := s.productRepo.Get(s.GetContext(), productID)
	s.NoError(err)
	s.Equal(2, p.Stock, "a failed checkout must not consume stock")
}

func (s *OrderServiceSuite) TestCheckoutFeedsSpendingAggregate() {
	productID := s.createProduct("Desk", 250, 100)

	for i := 0; i < 10; i++ {
		s.addToCart("cust_1", productID, 1)
		_, err := s.orderService.Checkout(s.GetContext(), "cust_1", &dto.CheckoutRequest{})
		s.NoError(err)
	}

	summary, err := s.orderRepo.GetSpendingSummary(s.GetContext(), "cust_1")
	s.NoError(err)
	s.Equal(10, summary.OrderCount)
	s.True(summary.TotalSpent.Equal(decimal.NewFromInt(2500)))
	s.True(summary.AvgOrderValue.Equal(decimal.NewFromInt(250)))
}

func (s *OrderServiceSuite) TestGetOrderAndList() {
	productID := s.createProduct("Mug", 10, 5)
	s.addToCart("cust_1", productID, 1)

	created, err := s.orderService.Checkout(s.GetContext(), "cust_1", &dto.CheckoutRequest{})
	s.NoError(err)

	fetched, err := s.orderService.GetOrder(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(created.ID, fetched.ID)

	list, err := s.orderService.ListOrdersByCustomer(s.GetContext(), "cust_1")
	s.NoError(err)
	s.Equal(1, list.Total)

	_, err = s.orderService.GetOrder(s.GetContext(), "order_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
