package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas-auth-backend/internal/config"
	"saas-auth-backend/internal/user"
)

func testPasetoConfig() config.TokenConfig {
	return config.TokenConfig{
		Provider:        config.TokenProviderPaseto,
		AccessSecret:    []byte("0123456789abcdef0123456789abcdef"),
		RefreshSecret:   []byte("fedcba9876543210fedcba9876543210"),
		AccessDuration:  15 * time.Minute,
		RefreshDuration: 7 * 24 * time.Hour,
		Issuer:          "saas-auth-backend",
		Audience:        "saas-auth-clients",
	}
}

func TestPasetoIssuerRequires32ByteKeys(t *testing.T) {
	cfg := testPasetoConfig()
	cfg.AccessSecret = []byte("too-short")

	_, err := NewPasetoIssuer(cfg)
	assert.Error(t, err)
}

func TestPasetoIssuePairAndVerify(t *testing.T) {
	issuer, err := NewPasetoIssuer(testPasetoConfig())
	require.NoError(t, err)

	userID := uuid.New()
	pair, err := issuer.IssuePair(context.Background(), userID, "owner@acme.test", user.RoleOwner)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := issuer.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "owner@acme.test", claims.Email)
	assert.Equal(t, string(user.RoleOwner), claims.Role)
	assert.Empty(t, claims.TokenID)

	refreshClaims, err := issuer.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), refreshClaims.UserID)
	assert.NotEmpty(t, refreshClaims.TokenID)
}

func TestPasetoDistinctKeys(t *testing.T) {
	issuer, err := NewPasetoIssuer(testPasetoConfig())
	require.NoError(t, err)

	pair, err := issuer.IssuePair(context.Background(), uuid.New(), "owner@acme.test", user.RoleOwner)
	require.NoError(t, err)

	_, err = issuer.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasetoExpiredToken(t *testing.T) {
	cfg := testPasetoConfig()
	cfg.AccessDuration = -time.Minute

	issuer, err := NewPasetoIssuer(cfg)
	require.NoError(t, err)

	pair, err := issuer.IssuePair(context.Background(), uuid.New(), "owner@acme.test", user.RoleOwner)
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestPasetoGarbageToken(t *testing.T) {
	issuer, err := NewPasetoIssuer(testPasetoConfig())
	require.NoError(t, err)

	_, err = issuer.VerifyAccess("v4.local.garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenIssuerSelectsProvider(t *testing.T) {
	jwtIssuer, err := NewTokenIssuer(testTokenConfig())
	require.NoError(t, err)
	assert.IsType(t, &JWTIssuer{}, jwtIssuer)

	pasetoIssuer, err := NewTokenIssuer(testPasetoConfig())
	require.NoError(t, err)
	assert.IsType(t, &PasetoIssuer{}, pasetoIssuer)

	bad := testTokenConfig()
	bad.Provider = "unknown"
	_, err = NewTokenIssuer(bad)
	assert.Error(t, err)
}
