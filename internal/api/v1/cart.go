package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loomcart/loomcart/internal/api/dto"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/logger"
	"github.com/loomcart/loomcart/internal/service"
	"github.com/loomcart/loomcart/internal/types"
)

type CartHandler struct {
	service service.CartService
	log     *logger.Logger
}

func NewCartHandler(service service.CartService, log *logger.Logger) *CartHandler {
	return &CartHandler{service: service, log: log}
}

// @Summary Get the cart
// @Description Return the caller's cart, pruning stale lines
// @Tags Cart
// @Produce json
// @Success 200 {object} dto.CartResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := h.service.GetCart(ctx, types.GetCustomerID(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Add to cart
// @Description Add a product (in a size, when sized) to the caller's cart
// @Tags Cart
// @Accept json
// @Produce json
// @Param line body dto.AddToCartRequest true "Line"
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /cart/items [post]
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req dto.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	resp, err := h.service.AddToCart(ctx, types.GetCustomerID(ctx), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a cart line
// @Description Set the absolute quantity of an existing cart line
// @Tags Cart
// @Accept json
// @Produce json
// @Param key path string true "Cart line key"
// @Param line body dto.UpdateCartLineRequest true "Quantity"
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /cart/items/{key} [put]
func (h *CartHandler) UpdateLine(c *gin.Context) {
	var req dto.UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	resp, err := h.service.UpdateQuantity(ctx, types.GetCustomerID(ctx), c.Param("key"), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Remove a cart line
// @Description Remove the matching line; removing an absent line succeeds
// @Tags Cart
// @Produce json
// @Param key path string true "Cart line key"
// @Success 200 {object} dto.CartResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /cart/items/{key} [delete]
func (h *CartHandler) RemoveLine(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := h.service.RemoveLine(ctx, types.GetCustomerID(ctx), c.Param("key"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Clear the cart
// @Description Remove every line from the caller's cart
// @Tags Cart
// @Produce json
// @Success 204
// @Failure 500 {object} middleware.ErrorResponse
// @Router /cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.service.ClearCart(ctx, types.GetCustomerID(ctx)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
