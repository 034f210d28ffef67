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

type CouponHandler struct {
	service service.CouponService
	log     *logger.Logger
}

func NewCouponHandler(service service.CouponService, log *logger.Logger) *CouponHandler {
	return &CouponHandler{service: service, log: log}
}

func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req dto.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateCoupon(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *CouponHandler) GetCoupon(c *gin.Context) {
	resp, err := h.service.GetCoupon(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CouponHandler) ListMyCoupons(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := h.service.ListCouponsByCustomer(ctx, types.GetCustomerID(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var req dto.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	resp, err := h.service.ValidateCoupon(ctx, types.GetCustomerID(ctx), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
