package handlers

import (
	"net/http"

	"github.com/funtravel/tours-backend/internal/middleware"
	"github.com/funtravel/tours-backend/internal/models"
	"github.com/funtravel/tours-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// OrderHandler handles the order lifecycle: checkout, draft reads, payment
// confirmation and draft discard.
type OrderHandler struct {
	orderService      *services.OrderService
	paymentService    *services.PaymentService
	reconcilerService *services.ReconcilerService
	logger            *logrus.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(
	orderService *services.OrderService,
	paymentService *services.PaymentService,
	reconcilerService *services.ReconcilerService,
	logger *logrus.Logger,
) *OrderHandler {
	return &OrderHandler{
		orderService:      orderService,
		paymentService:    paymentService,
		reconcilerService: reconcilerService,
		logger:            logger,
	}
}

// Checkout converts the cart into a draft order
// @Summary Checkout the cart
// @Description Converts the customer's cart into a DRAFT order and deletes the cart
// @Tags Orders
// @Produce json
// @Success 201 {object} models.Order
// @Failure 400 {object} map[string]interface{} "Empty or missing cart"
// @Router /orders/checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	order, err := h.orderService.Checkout(c.Request.Context(), customerCtx.CustomerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// LatestDraft returns the customer's most recent draft order
// @Summary Get the latest draft order
// @Tags Orders
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /orders/draft [get]
func (h *OrderHandler) LatestDraft(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	order, err := h.orderService.LatestDraft(c.Request.Context(), customerCtx.CustomerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetOrder returns one order with live catalog details
// @Summary Get an order
// @Tags Orders
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} models.OrderInfo
// @Failure 404 {object} map[string]interface{} "No such order for this customer"
// @Router /orders/{order_id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	order, err := h.orderService.GetOrder(c.Request.Context(), customerCtx.CustomerID, c.Param("order_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// Confirm verifies payment and reconciles bookings
// @Summary Confirm an order's payment
// @Description Verifies the asserted capture with the payment provider, marks the order PAID and books every item with the scheduling service. Safe to retry: already-paid orders skip verification and already-booked items are never re-booked.
// @Tags Orders
// @Accept json
// @Produce json
// @Param order_id path string true "Order ID"
// @Param request body models.ConfirmOrderRequest true "Capture reference"
// @Success 200 {object} map[string]interface{}
// @Failure 402 {object} map[string]interface{} "Capture not completed"
// @Failure 404 {object} map[string]interface{} "No such order"
// @Failure 502 {object} map[string]interface{} "Provider unavailable"
// @Router /orders/{order_id}/confirm [post]
func (h *OrderHandler) Confirm(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)
	orderID := c.Param("order_id")

	var req models.ConfirmOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid request: " + err.Error()})
		return
	}

	if _, err := h.paymentService.ConfirmPayment(c.Request.Context(), customerCtx.CustomerID, orderID, req.CaptureID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	// Payment is recorded at this point. Booking failures don't undo it; the
	// client retries this endpoint and the reconciler finishes the remainder.
	order, reconcileErr := h.reconcilerService.ReconcileOrder(c.Request.Context(), customerCtx.CustomerID, orderID)
	if order == nil {
		respondError(c, h.logger, reconcileErr)
		return
	}

	booked := true
	for _, item := range order.Items {
		if item.BookingID == nil {
			booked = false
			break
		}
	}
	if reconcileErr != nil {
		h.logger.WithError(reconcileErr).WithField("order_id", orderID).Warn("Order confirmed with unbooked items")
	}

	c.JSON(http.StatusOK, gin.H{
		"order":             order,
		"bookings_complete": booked,
	})
}

// DiscardDraft deletes a draft order
// @Summary Discard a draft order
// @Tags Orders
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "No such draft for this customer"
// @Router /orders/{order_id} [delete]
func (h *OrderHandler) DiscardDraft(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	if err := h.orderService.DiscardDraft(c.Request.Context(), customerCtx.CustomerID, c.Param("order_id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "draft discarded"})
}
