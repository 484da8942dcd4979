package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/funtravel/tours-backend/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCookie = "ft-customer-token"

func identityRouter(tokenService *token.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	router := gin.New()
	router.Use(CustomerIdentity(tokenService, testCookie, logger))

	router.GET("/whoami", func(c *gin.Context) {
		customerCtx, exists := GetCustomerContext(c)
		c.JSON(http.StatusOK, gin.H{"exists": exists, "customer_id": customerCtx.CustomerID})
	})

	protected := router.Group("", RequireCustomer())
	protected.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return router
}

func TestCustomerIdentity_ValidCookie(t *testing.T) {
	tokenService := token.NewService("test-secret", time.Hour)
	router := identityRouter(tokenService)

	tokenString, err := tokenService.Generate("customer-123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: tokenString})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"customer_id":"customer-123"`)
	assert.Contains(t, w.Body.String(), `"exists":true`)
}

func TestCustomerIdentity_NoCookieIsAnonymous(t *testing.T) {
	router := identityRouter(token.NewService("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"exists":false`)
}

func TestCustomerIdentity_TamperedCookieIsAnonymous(t *testing.T) {
	tokenService := token.NewService("test-secret", time.Hour)
	router := identityRouter(tokenService)

	otherToken, err := token.NewService("other-secret", time.Hour).Generate("customer-123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: otherToken})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"exists":false`)
}

func TestRequireCustomer(t *testing.T) {
	tokenService := token.NewService("test-secret", time.Hour)
	router := identityRouter(tokenService)

	t.Run("Anonymous request is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Identified request passes", func(t *testing.T) {
		tokenString, err := tokenService.Generate("customer-123")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: testCookie, Value: tokenString})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
