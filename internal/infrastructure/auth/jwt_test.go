package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vellap/portal/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
}

func newTestInput() TokenInput {
	return TokenInput{
		UserID:    uuid.New(),
		Email:     "jane@example.com",
		Roles:     []string{"Customer"},
		SessionID: "abc123",
	}
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	token, err := svc.GenerateAccessToken(input)
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), token.ExpiresAt, 5*time.Second)

	claims, err := svc.ValidateAccessToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "abc123", claims.SessionID)
	assert.True(t, claims.HasRole("Customer"))
	assert.False(t, claims.HasRole("System Manager"))

	userID, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, input.UserID, userID)
}

func TestJWTService_ValidateAccessToken_Errors(t *testing.T) {
	svc := newTestJWTService()

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret", AccessTokenExpiration: time.Minute, Issuer: "test-issuer"})
		token, err := other.GenerateAccessToken(newTestInput())
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", AccessTokenExpiration: time.Minute, Issuer: "elsewhere"})
		token, err := other.GenerateAccessToken(newTestInput())
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(newTestInput())
		require.NoError(t, err)

		later := newTestJWTService()
		later.now = func() time.Time { return time.Now().Add(time.Hour) }
		_, err = later.ValidateAccessToken(token.Token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("missing session id", func(t *testing.T) {
		input := newTestInput()
		input.SessionID = ""
		token, err := svc.GenerateAccessToken(input)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token.Token)
		assert.ErrorIs(t, err, ErrMissingSessionID)
	})

	t.Run("rejects none algorithm", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "test-issuer",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
			UserID:    uuid.NewString(),
			SessionID: "abc",
		}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
