package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"saas-auth-backend/internal/config"
	"saas-auth-backend/internal/user"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenPair is the pair of signed tokens handed to a client. The access
// token is short-lived; the refresh token is long-lived and carries a
// random token id so it can be revoked individually later.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenClaims is the decoded content of a signed token.
type TokenClaims struct {
	UserID    string
	Email     string
	Role      string
	TokenID   string // set on refresh tokens only
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies token pairs. Both the register and login
// paths go through the same issuer, built from one TokenConfig: whatever
// verifies a token downstream must use the same secret, issuer and
// audience that signed it.
type TokenIssuer interface {
	// IssuePair signs the access and refresh tokens concurrently and joins
	// before returning.
	IssuePair(ctx context.Context, userID uuid.UUID, email string, role user.Role) (*TokenPair, error)
	// VerifyAccess validates an access token and returns its claims.
	VerifyAccess(token string) (*TokenClaims, error)
}

// NewTokenIssuer builds the issuer selected by the configuration.
func NewTokenIssuer(cfg config.TokenConfig) (TokenIssuer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case config.TokenProviderJWT:
		return NewJWTIssuer(cfg), nil
	case config.TokenProviderPaseto:
		return NewPasetoIssuer(cfg)
	default:
		return nil, fmt.Errorf("unknown token provider %q", cfg.Provider)
	}
}
