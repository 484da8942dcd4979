package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	service := NewService("test-secret", 24*time.Hour)

	tokenString, err := service.Generate("customer-123")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := service.Validate(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "customer-123", claims.CustomerID)
	assert.Equal(t, "customer-123", claims.Subject)
	assert.Equal(t, "funtravel-tours", claims.Issuer)
}

func TestValidate_WrongSecret(t *testing.T) {
	tokenString, err := NewService("secret-a", time.Hour).Generate("customer-123")
	require.NoError(t, err)

	_, err = NewService("secret-b", time.Hour).Validate(tokenString)
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	tokenString, err := NewService("test-secret", -time.Minute).Generate("customer-123")
	require.NoError(t, err)

	_, err = NewService("test-secret", -time.Minute).Validate(tokenString)
	assert.Error(t, err)
}

func TestValidate_Garbage(t *testing.T) {
	service := NewService("test-secret", time.Hour)

	_, err := service.Validate("not-a-token")
	assert.Error(t, err)
}

func TestValidate_MissingCustomerID(t *testing.T) {
	service := NewService("test-secret", time.Hour)

	// A structurally valid token without a customer id must be rejected
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenString, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = service.Validate(tokenString)
	assert.Error(t, err)
}

func TestValidate_RejectsUnsignedAlgorithm(t *testing.T) {
	service := NewService("test-secret", time.Hour)

	raw := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		CustomerID: "customer-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenString, err := raw.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = service.Validate(tokenString)
	assert.Error(t, err)
}
