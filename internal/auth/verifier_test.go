package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTVerifier(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{"email": "tutor@example.com"})

		email, err := verifier.Verify(ctx, token)
		assert.NoError(t, err)
		assert.Equal(t, "tutor@example.com", email)
	})

	t.Run("EmailNormalized", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{"email": " Tutor@Example.COM "})

		email, err := verifier.Verify(ctx, token)
		assert.NoError(t, err)
		assert.Equal(t, "tutor@example.com", email)
	})

	t.Run("Error_WrongSecret", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{"email": "tutor@example.com"})

		_, err := verifier.Verify(ctx, token)
		assert.True(t, errors.Is(err, errdefs.ErrAuthentication))
	})

	t.Run("Error_Expired", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"email": "tutor@example.com",
			"exp":   time.Now().Add(-time.Hour).Unix(),
		})

		_, err := verifier.Verify(ctx, token)
		assert.True(t, errors.Is(err, errdefs.ErrAuthentication))
	})

	t.Run("Error_NoEmailClaim", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{"sub": "someone"})

		_, err := verifier.Verify(ctx, token)
		assert.True(t, errors.Is(err, errdefs.ErrAuthentication))
	})

	t.Run("Error_Garbage", func(t *testing.T) {
		_, err := verifier.Verify(ctx, "not.a.token")
		assert.True(t, errors.Is(err, errdefs.ErrAuthentication))
	})

	t.Run("Error_UnsignedAlg", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"email": "tutor@example.com"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = verifier.Verify(ctx, signed)
		assert.True(t, errors.Is(err, errdefs.ErrAuthentication))
	})
}
