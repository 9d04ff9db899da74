package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"saas-auth-backend/internal/config"
	"saas-auth-backend/internal/user"
)

// jwtClaims carries the registered claims plus the user's email and role.
type jwtClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 tokens. Access and refresh use distinct secrets
// and lifetimes but share the issuer/audience pair.
type JWTIssuer struct {
	cfg config.TokenConfig
}

func NewJWTIssuer(cfg config.TokenConfig) *JWTIssuer {
	return &JWTIssuer{cfg: cfg}
}

// IssuePair signs both tokens concurrently and joins before returning.
func (i *JWTIssuer) IssuePair(ctx context.Context, userID uuid.UUID, email string, role user.Role) (*TokenPair, error) {
	now := time.Now()

	var accessToken, refreshToken string

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accessToken, err = i.sign(i.claims(userID, email, role, now, i.cfg.AccessDuration, ""), i.cfg.AccessSecret)
		return err
	})
	g.Go(func() error {
		var err error
		refreshToken, err = i.sign(i.claims(userID, email, role, now, i.cfg.RefreshDuration, uuid.NewString()), i.cfg.RefreshSecret)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(i.cfg.AccessDuration.Seconds()),
	}, nil
}

func (i *JWTIssuer) claims(userID uuid.UUID, email string, role user.Role, now time.Time, lifetime time.Duration, tokenID string) jwtClaims {
	return jwtClaims{
		Email: email,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    i.cfg.Issuer,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			ID:        tokenID,
		},
	}
}

func (i *JWTIssuer) sign(claims jwtClaims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccess validates an access token against the signing secret,
// issuer and audience, and returns its claims.
func (i *JWTIssuer) VerifyAccess(tokenStr string) (*TokenClaims, error) {
	return i.verify(tokenStr, i.cfg.AccessSecret)
}

// VerifyRefresh validates a refresh token. Unused by the current flows but
// required by any future refresh-exchange endpoint.
func (i *JWTIssuer) VerifyRefresh(tokenStr string) (*TokenClaims, error) {
	return i.verify(tokenStr, i.cfg.RefreshSecret)
}

func (i *JWTIssuer) verify(tokenStr string, secret []byte) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwtClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithAudience(i.cfg.Audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	out := &TokenClaims{
		UserID:  claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
		TokenID: claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
