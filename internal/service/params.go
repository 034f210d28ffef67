package service

import (
	"github.com/loomcart/loomcart/internal/cache"
	"github.com/loomcart/loomcart/internal/config"
	"github.com/loomcart/loomcart/internal/domain/cart"
	"github.com/loomcart/loomcart/internal/domain/coupon"
	"github.com/loomcart/loomcart/internal/domain/customer"
	"github.com/loomcart/loomcart/internal/domain/order"
	"github.com/loomcart/loomcart/internal/domain/product"
	"github.com/loomcart/loomcart/internal/logger"
	"github.com/loomcart/loomcart/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache

	// Repositories
	CustomerRepo customer.Repository
	OrderRepo    order.Repository
	CouponRepo   coupon.Repository
	ProductRepo  product.Repository
	CartRepo     cart.Repository
}

// NewServiceParams builds the common service dependency bundle
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cache cache.Cache,
	customerRepo customer.Repository,
	orderRepo order.Repository,
	couponRepo coupon.Repository,
	productRepo product.Repository,
	cartRepo cart.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		DB:           db,
		Cache:        cache,
		CustomerRepo: customerRepo,
		OrderRepo:    orderRepo,
		CouponRepo:   couponRepo,
		ProductRepo:  productRepo,
		CartRepo:     cartRepo,
	}
}
