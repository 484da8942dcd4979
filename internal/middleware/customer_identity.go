package middleware

import (
	"net/http"

	"github.com/funtravel/tours-backend/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CustomerContextKey is the gin context key for the customer identity
const CustomerContextKey = "customer_context"

// CustomerContext holds the identity extracted from the customer cookie
type CustomerContext struct {
	CustomerID string `json:"customer_id"`
}

// CustomerIdentity reads the signed customer cookie and, when it validates,
// stores the customer identity in the request context. The cookie is optional
// here: a missing or invalid token just means an anonymous request, which is
// the normal state before the first cart write. Routes that need an identity
// stack RequireCustomer on top.
func CustomerIdentity(tokenService *token.Service, cookieName string, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(cookieName)
		if err != nil || cookie == "" {
			c.Next()
			return
		}

		claims, err := tokenService.Validate(cookie)
		if err != nil {
			// Expired or tampered cookie. Treat as anonymous; the next cart
			// write issues a fresh one.
			logger.WithError(err).WithFields(logrus.Fields{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
			}).Warn("Invalid customer token, treating request as anonymous")
			c.Next()
			return
		}

		c.Set(CustomerContextKey, CustomerContext{CustomerID: claims.CustomerID})
		c.Next()
	}
}

// RequireCustomer aborts with 401 when no customer identity was established.
// Must be used after CustomerIdentity.
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := GetCustomerContext(c); !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Customer identity cookie is required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetCustomerContext retrieves the customer context from Gin context
func GetCustomerContext(c *gin.Context) (CustomerContext, bool) {
	value, exists := c.Get(CustomerContextKey)
	if !exists {
		return CustomerContext{}, false
	}

	customerCtx, ok := value.(CustomerContext)
	if !ok {
		return CustomerContext{}, false
	}

	return customerCtx, true
}
