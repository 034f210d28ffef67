package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/loomcart/loomcart/internal/api/v1"
	"github.com/loomcart/loomcart/internal/rest/middleware"
)

type Handlers struct {
	Health   *v1.HealthHandler
	Customer *v1.CustomerHandler
	Product  *v1.ProductHandler
	Cart     *v1.CartHandler
	Coupon   *v1.CouponHandler
	Order    *v1.OrderHandler
	VIP      *v1.VIPHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CORSMiddleware,
		middleware.RequestIDMiddleware,
		middleware.CustomerMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	customers := router.Group("/customers")
	{
		customers.POST("", handlers.Customer.CreateCustomer)
		customers.GET("/:id", handlers.Customer.GetCustomer)
		customers.GET("/lookup/:external_id", handlers.Customer.GetCustomerByExternalID)
	}

	products := router.Group("/products")
	{
		products.POST("", handlers.Product.CreateProduct)
		products.GET("", handlers.Product.ListProducts)
		products.GET("/:id", handlers.Product.GetProduct)
		products.PUT("/:id/stock", handlers.Product.UpdateStock)
	}

	cart := router.Group("/cart", middleware.RequireCustomer)
	{
		cart.GET("", handlers.Cart.GetCart)
		cart.DELETE("", handlers.Cart.ClearCart)
		cart.POST("/items", handlers.Cart.AddToCart)
		cart.PUT("/items/:key", handlers.Cart.UpdateLine)
		cart.DELETE("/items/:key", handlers.Cart.RemoveLine)
	}

	coupons := router.Group("/coupons")
	{
		coupons.POST("", handlers.Coupon.CreateCoupon)
		coupons.GET("/:id", handlers.Coupon.GetCoupon)
		coupons.GET("", middleware.RequireCustomer, handlers.Coupon.ListMyCoupons)
		coupons.POST("/validate", middleware.RequireCustomer, handlers.Coupon.ValidateCoupon)
	}

	orders := router.Group("/orders", middleware.RequireCustomer)
	{
		orders.GET("", handlers.Order.ListMyOrders)
		orders.GET("/:id", handlers.Order.GetOrder)
	}
	router.POST("/checkout", middleware.RequireCustomer, handlers.Order.Checkout)

	vip := router.Group("/vip", middleware.RequireCustomer)
	{
		vip.GET("/eligibility", handlers.VIP.GetEligibility)
		vip.POST("/claim", handlers.VIP.ClaimCoupon)
	}

	admin := router.Group("/admin")
	{
		admin.POST("/vip/evaluate", handlers.VIP.EvaluateBatch)
	}
}
