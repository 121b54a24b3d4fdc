package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-characters",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "store-admin",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWTService()
	roleID := uuid.New()
	input := GenerateTokenInput{
		UserID:      uuid.New(),
		Username:    "cashier",
		RoleID:      &roleID,
		Permissions: []string{"sale:create", "product:read"},
	}

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)

	t.Run("access token carries permissions", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, roleID.String(), claims.RoleID)
		assert.True(t, claims.HasPermission("sale:create"))
		assert.False(t, claims.HasPermission("user:delete"))
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("refresh token omits permissions", func(t *testing.T) {
		claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Empty(t, claims.Permissions)
		assert.Equal(t, "cashier", claims.Username)
	})

	t.Run("token types are not interchangeable", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
		_, err = svc.ValidateRefreshToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("rejects tokens signed with another secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret-key-of-32-characters!", Issuer: "store-admin", AccessTokenExpiration: time.Minute})
		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTService_Expiry(t *testing.T) {
	svc := newTestJWTService()
	issuedAt := time.Now()
	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New(), Username: "u"})
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(time.Hour) }
	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = svc.ValidateRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestClaims_RemainingTTL(t *testing.T) {
	now := time.Now()
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}}
	assert.InDelta(t, time.Minute.Seconds(), c.RemainingTTL(now).Seconds(), 1)
	assert.Zero(t, c.RemainingTTL(now.Add(time.Hour)))
	assert.Zero(t, (&Claims{}).RemainingTTL(now))
}

func TestInMemoryTokenBlacklist_RevokeOnce(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()
	now := time.Now()
	bl.now = func() time.Time { return now }

	first, err := bl.RevokeOnce(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := bl.RevokeOnce(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	listed, _ := bl.IsBlacklisted(ctx, "jti-1")
	assert.True(t, listed)

	require.NoError(t, bl.AddToBlacklist(ctx, "jti-2", time.Minute))
	loggedOut, _ := bl.RevokeOnce(ctx, "jti-2", time.Minute)
	assert.False(t, loggedOut)

	now = now.Add(2 * time.Minute)
	afterExpiry, _ := bl.RevokeOnce(ctx, "jti-1", time.Minute)
	assert.True(t, afterExpiry)
}

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()
	now := time.Now()
	bl.now = func() time.Time { return now }

	require.NoError(t, bl.AddToBlacklist(ctx, "jti-1", time.Minute))
	require.NoError(t, bl.AddToBlacklist(ctx, "jti-expired", 0))

	listed, err := bl.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, listed)

	listed, _ = bl.IsBlacklisted(ctx, "jti-expired")
	assert.False(t, listed)

	now = now.Add(2 * time.Minute)
	listed, _ = bl.IsBlacklisted(ctx, "jti-1")
	assert.False(t, listed)
	assert.Empty(t, bl.entries)
}
