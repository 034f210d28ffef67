package repository

import (
	"github.com/loomcart/loomcart/internal/domain/cart"
	"github.com/loomcart/loomcart/internal/domain/coupon"
	"github.com/loomcart/loomcart/internal/domain/customer"
	"github.com/loomcart/loomcart/internal/domain/order"
	"github.com/loomcart/loomcart/internal/domain/product"
	"github.com/loomcart/loomcart/internal/logger"
	"github.com/loomcart/loomcart/internal/postgres"
	postgresRepo "github.com/loomcart/loomcart/internal/repository/postgres"
)

func NewCustomerRepository(db postgres.IClient, logger *logger.Logger) customer.Repository {
	return postgresRepo.NewCustomerRepository(db, logger)
}

func NewOrderRepository(db postgres.IClient, logger *logger.Logger) order.Repository {
	return postgresRepo.NewOrderRepository(db, logger)
}

func NewCouponRepository(db postgres.IClient, logger *logger.Logger) coupon.Repository {
	return postgresRepo.NewCouponRepository(db, logger)
}

func NewProductRepository(db postgres.IClient, logger *logger.Logger) product.Repository {
	return postgresRepo.NewProductRepository(db, logger)
}

func NewCartRepository(db postgres.IClient, logger *logger.Logger) cart.Repository {
	return postgresRepo.NewCartRepository(db, logger)
}
