package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loomcart/loomcart/internal/logger"
	"github.com/loomcart/loomcart/internal/service"
	"github.com/loomcart/loomcart/internal/types"
)

type VIPHandler struct {
	service service.VIPService
	log     *logger.Logger
}

func NewVIPHandler(service service.VIPService, log *logger.Logger) *VIPHandler {
	return &VIPHandler{service: service, log: log}
}

// @Summary Check VIP eligibility
// @Description Report the caller's standing against the VIP coupon program
// @Tags VIP
// @Produce json
// @Success 200 {object} dto.VIPEligibilityResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /vip/eligibility [get]
func (h *VIPHandler) GetEligibility(c *gin.Context) {
	ctx := c.Request.Context()

	// The caller checks their own standing unless an explicit
	// customer_id is supplied.
	customerID := c.Query("customer_id")
	if customerID == "" {
		customerID = types.GetCustomerID(ctx)
	}

	resp, err := h.service.EvaluateCustomer(ctx, customerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Claim a VIP coupon
// @Description Issue a VIP coupon to the caller when every gate passes
// @Tags VIP
// @Produce json
// @Success 200 {object} dto.VIPClaimResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /vip/claim [post]
func (h *VIPHandler) ClaimCoupon(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := h.service.ClaimCoupon(ctx, types.GetCustomerID(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	// A rejection is a normal outcome; the body carries the reason.
	c.JSON(http.StatusOK, resp)
}

// @Summary Evaluate all customers
// @Description Run the VIP program across every customer with order history
// @Tags VIP
// @Produce json
// @Success 200 {object} dto.VIPBatchResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /admin/vip/evaluate [post]
func (h *VIPHandler) EvaluateBatch(c *gin.Context) {
	resp, err := h.service.EvaluateBatch(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
