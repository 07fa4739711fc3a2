package httpapi

import (
	"errors"
	"net/http"

	"storemart-be/internal/catalog"
	"storemart-be/internal/logger"
	"storemart-be/internal/order"
	"storemart-be/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps domain sentinel errors to HTTP statuses. Unknown errors
// become an opaque 500 so internals never leak to the client.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrProductNotFound),
		errors.Is(err, user.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, catalog.ErrInvalidQuery),
		errors.Is(err, catalog.ErrInvalidInput),
		errors.Is(err, order.ErrNoItems),
		errors.Is(err, order.ErrInvalidItem),
		errors.Is(err, user.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, order.ErrAlreadyPaid),
		errors.Is(err, order.ErrNotPaid),
		errors.Is(err, order.ErrInsufficientStock),
		errors.Is(err, user.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, user.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	default:
		logger.FromCtx(c.Request.Context()).Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
