package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/loomcart/loomcart/internal/api"
	v1 "github.com/loomcart/loomcart/internal/api/v1"
	"github.com/loomcart/loomcart/internal/cache"
	"github.com/loomcart/loomcart/internal/config"
	"github.com/loomcart/loomcart/internal/logger"
	"github.com/loomcart/loomcart/internal/postgres"
	"github.com/loomcart/loomcart/internal/repository"
	"github.com/loomcart/loomcart/internal/service"
	"github.com/loomcart/loomcart/internal/types"
	"github.com/loomcart/loomcart/internal/validator"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.Initialize,

			// Postgres
			postgres.NewDB,
			postgres.NewClient,

			// Repositories
			repository.NewCustomerRepository,
			repository.NewOrderRepository,
			repository.NewCouponRepository,
			repository.NewProductRepository,
			repository.NewCartRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewCustomerService,
			service.NewProductService,
			service.NewCartService,
			service.NewCouponService,
			service.NewOrderService,
			service.NewVIPService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	customerService service.CustomerService,
	productService service.ProductService,
	cartService service.CartService,
	couponService service.CouponService,
	orderService service.OrderService,
	vipService service.VIPService,
) api.Handlers {
	return api.Handlers{
		Health:   v1.NewHealthHandler(logger),
		Customer: v1.NewCustomerHandler(customerService, logger),
		Product:  v1.NewProductHandler(productService, logger),
		Cart:     v1.NewCartHandler(cartService, logger),
		Coupon:   v1.NewCouponHandler(couponService, logger),
		Order:    v1.NewOrderHandler(orderService, logger),
		VIP:      v1.NewVIPHandler(vipService, logger),
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
