package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T, secret, tokenType string, expiresIn time.Duration) string {
	t.Helper()

	now := time.Now()
	claims := &Claims{
		MerchantID: "merchant-1",
		Name:       "Acme",
		TokenType:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "tezpay-payment-api",
			Subject:   "merchant-1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	svc := NewJWTService("test-secret", "tezpay-payment-api", nil)

	t.Run("valid access token", func(t *testing.T) {
		token := mintToken(t, "test-secret", "access", time.Minute)

		merchant, err := svc.ValidateToken(token)
		require.NoError(t, err)
		require.Equal(t, "merchant-1", merchant.MerchantID)
		require.Equal(t, "Acme", merchant.Name)
	})

	t.Run("refresh token is rejected", func(t *testing.T) {
		token := mintToken(t, "test-secret", "refresh", time.Minute)

		_, err := svc.ValidateToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		token := mintToken(t, "test-secret", "access", -time.Minute)

		_, err := svc.ValidateToken(token)
		require.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token := mintToken(t, "other-secret", "access", time.Minute)

		_, err := svc.ValidateToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRefresh(t *testing.T) {
	svc := NewJWTService("test-secret", "tezpay-payment-api", nil)

	t.Run("refresh token yields a new pair", func(t *testing.T) {
		token := mintToken(t, "test-secret", "refresh", time.Hour)

		pair, err := svc.Refresh(token)
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
		require.Equal(t, "Bearer", pair.TokenType)

		// The new access token must validate straight away.
		merchant, err := svc.ValidateToken(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "merchant-1", merchant.MerchantID)
	})

	t.Run("access token cannot be used to refresh", func(t *testing.T) {
		token := mintToken(t, "test-secret", "access", time.Minute)

		_, err := svc.Refresh(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
