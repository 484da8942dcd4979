package handlers

import (
	"errors"
	"net/http"

	"github.com/funtravel/tours-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError maps a service error onto the HTTP surface. The service layer
// tags errors with the sentinel taxonomy in internal/models; anything untagged
// is a programming or infrastructure fault and stays a generic 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
	case errors.Is(err, models.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": err.Error(),
		})
	case errors.Is(err, models.ErrPaymentNotCompleted):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":   "payment_not_completed",
			"message": err.Error(),
		})
	case errors.Is(err, models.ErrUpstreamUnavailable):
		logger.WithError(err).Error("Upstream dependency unavailable")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "upstream_unavailable",
			"message": "An upstream service is unavailable, please retry",
		})
	default:
		logger.WithError(err).Error("Unhandled internal error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "An unexpected error occurred",
		})
	}
}
