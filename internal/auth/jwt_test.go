// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicesync/backend/internal/config"
	"github.com/servicesync/backend/internal/core"
)

func newTestManager(t *testing.T, expire time.Duration) *JWTManager {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	manager, err := NewJWTManagerFromKey(key, config.JWTConfig{
		AccessTokenExpire:  expire,
		RefreshTokenExpire: 720 * time.Hour,
		Issuer:             "servicesync",
		Audience:           "servicesync-api",
	})
	require.NoError(t, err)

	return manager
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := newTestManager(t, 15*time.Minute)
	ctx := context.Background()

	token, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID:       "u-1",
		Role:         "business",
		Email:        "owner@business.com",
		TokenVersion: 3,
	})
	require.NoError(t, err)

	claims, err := manager.VerifyAccessToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "business", claims.Role)
	assert.Equal(t, "owner@business.com", claims.Email)
	assert.Equal(t, 3, claims.TokenVersion)
}

func TestVerifyAccessToken_Tampered(t *testing.T) {
	manager := newTestManager(t, 15*time.Minute)
	ctx := context.Background()

	token, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID: "u-1",
		Role:   "user",
	})
	require.NoError(t, err)

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = manager.VerifyAccessToken(ctx, tampered)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyAccessToken_Malformed(t *testing.T) {
	manager := newTestManager(t, 15*time.Minute)

	_, err := manager.VerifyAccessToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	manager := newTestManager(t, -1*time.Minute)

	token, err := manager.CreateAccessToken(AccessTokenClaims{UserID: "u-1"})
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestVerifyAccessToken_WrongKey(t *testing.T) {
	manager := newTestManager(t, 15*time.Minute)
	other := newTestManager(t, 15*time.Minute)

	token, err := manager.CreateAccessToken(AccessTokenClaims{UserID: "u-1"})
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestCreateRefreshToken(t *testing.T) {
	manager := newTestManager(t, 15*time.Minute)

	t.Run("NewFamily", func(t *testing.T) {
		data, err := manager.CreateRefreshToken("u-1", "")
		require.NoError(t, err)
		assert.NotEmpty(t, data.Token)
		assert.NotEmpty(t, data.FamilyID)
		assert.True(t, data.ExpiresAt.After(time.Now()))
		assert.True(t, manager.VerifyRefreshTokenHash(data.Token, data.Hash))
	})

	t.Run("KeepsFamilyOnRotation", func(t *testing.T) {
		data, err := manager.CreateRefreshToken("u-1", "fam-1")
		require.NoError(t, err)
		assert.Equal(t, "fam-1", data.FamilyID)
	})

	t.Run("HashMismatch", func(t *testing.T) {
		data, err := manager.CreateRefreshToken("u-1", "")
		require.NoError(t, err)
		assert.False(t, manager.VerifyRefreshTokenHash("other-token", data.Hash))
	})
}
