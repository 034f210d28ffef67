package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/types"
)

func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}

// CustomerMiddleware resolves the caller's identity from the customer header
// placed by the upstream auth layer. Authentication itself lives outside
// this service.
func CustomerMiddleware(c *gin.Context) {
	customerID := c.GetHeader(types.HeaderCustomerID)

	ctx := c.Request.Context()
	ctx = types.SetCustomerID(ctx, customerID)
	ctx = types.SetUserID(ctx, customerID)
	c.Request = c.Request.WithContext(ctx)

	c.Next()
}

// RequireCustomer aborts requests that arrive without a customer identity
func RequireCustomer(c *gin.Context) {
	if err := types.ValidateCustomerContext(c.Request.Context()); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("A customer identity is required for this endpoint").
			Mark(ierr.ErrValidation))
		c.Abort()
		return
	}
	c.Next()
}
