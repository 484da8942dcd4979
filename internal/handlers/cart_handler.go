package handlers

import (
	"net/http"

	"github.com/funtravel/tours-backend/internal/middleware"
	"github.com/funtravel/tours-backend/internal/models"
	"github.com/funtravel/tours-backend/internal/services"
	"github.com/funtravel/tours-backend/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CartHandler handles cart endpoints. Adding the first item doubles as
// customer signup: the handler issues the signed identity cookie alongside
// the response.
type CartHandler struct {
	cartService  *services.CartService
	tokenService *token.Service
	cookieName   string
	cookieMaxAge int // seconds
	logger       *logrus.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(
	cartService *services.CartService,
	tokenService *token.Service,
	cookieName string,
	cookieMaxAge int,
	logger *logrus.Logger,
) *CartHandler {
	return &CartHandler{
		cartService:  cartService,
		tokenService: tokenService,
		cookieName:   cookieName,
		cookieMaxAge: cookieMaxAge,
		logger:       logger,
	}
}

// UpsertItem adds one line to the cart
// @Summary Add an item to the cart
// @Description Adds a tour line to the customer's cart, creating customer and cart on first use, and refreshes the identity cookie
// @Tags Cart
// @Accept json
// @Produce json
// @Param request body models.UpsertCartItemRequest true "Cart line"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 404 {object} map[string]interface{} "Unknown tour"
// @Router /cart/items [post]
func (h *CartHandler) UpsertItem(c *gin.Context) {
	var customerID string
	if customerCtx, exists := middleware.GetCustomerContext(c); exists {
		customerID = customerCtx.CustomerID
	}

	var req models.UpsertCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid request: " + err.Error()})
		return
	}

	customer, item, err := h.cartService.UpsertItem(c.Request.Context(), customerID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	// Re-issue the identity cookie on every write so active customers never
	// see it expire mid-session.
	tokenString, err := h.tokenService.Generate(customer.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.SetCookie(h.cookieName, tokenString, h.cookieMaxAge, "/", "", false, true)

	c.JSON(http.StatusCreated, gin.H{
		"customer": customer,
		"item":     item,
	})
}

// GetCart returns the customer's cart with live catalog details
// @Summary Get the cart
// @Tags Cart
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "No identity cookie"
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)

	cart, err := h.cartService.GetCart(c.Request.Context(), customerCtx.CustomerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	// A customer without a cart is a normal state, not an error
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// RemoveItem deletes one line from the cart
// @Summary Remove a cart item
// @Tags Cart
// @Produce json
// @Param item_id path string true "Cart item ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Item not in this customer's cart"
// @Router /cart/items/{item_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	customerCtx, _ := middleware.GetCustomerContext(c)
	itemID := c.Param("item_id")

	if err := h.cartService.RemoveItem(c.Request.Context(), customerCtx.CustomerID, itemID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}
