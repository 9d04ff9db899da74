package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"saas-auth-backend/internal/config"
	"saas-auth-backend/internal/user"
)

// PasetoIssuer issues PASETO v4.local tokens (symmetric encryption with
// XChaCha20-Poly1305). Requires 32-byte secrets for both keys.
type PasetoIssuer struct {
	cfg        config.TokenConfig
	accessKey  paseto.V4SymmetricKey
	refreshKey paseto.V4SymmetricKey
}

func NewPasetoIssuer(cfg config.TokenConfig) (*PasetoIssuer, error) {
	accessKey, err := paseto.V4SymmetricKeyFromBytes(cfg.AccessSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create access key: %w", err)
	}

	refreshKey, err := paseto.V4SymmetricKeyFromBytes(cfg.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh key: %w", err)
	}

	return &PasetoIssuer{
		cfg:        cfg,
		accessKey:  accessKey,
		refreshKey: refreshKey,
	}, nil
}

// IssuePair encrypts both tokens concurrently and joins before returning.
func (i *PasetoIssuer) IssuePair(ctx context.Context, userID uuid.UUID, email string, role user.Role) (*TokenPair, error) {
	now := time.Now()

	var accessToken, refreshToken string

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		accessToken = i.encrypt(userID, email, role, now, i.cfg.AccessDuration, "", i.accessKey)
		return nil
	})
	g.Go(func() error {
		refreshToken = i.encrypt(userID, email, role, now, i.cfg.RefreshDuration, uuid.NewString(), i.refreshKey)
		return nil
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

func (i *PasetoIssuer) encrypt(userID uuid.UUID, email string, role user.Role, now time.Time, lifetime time.Duration, tokenID string, key paseto.V4SymmetricKey) string {
	token := paseto.NewToken()
	token.SetSubject(userID.String())
	token.SetIssuer(i.cfg.Issuer)
	token.SetAudience(i.cfg.Audience)
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(lifetime))
	token.SetString("email", email)
	token.SetString("role", string(role))
	if tokenID != "" {
		token.SetJti(tokenID)
	}

	return token.V4Encrypt(key, nil)
}

// VerifyAccess validates an access token and returns its claims.
func (i *PasetoIssuer) VerifyAccess(tokenStr string) (*TokenClaims, error) {
	return i.verify(tokenStr, i.accessKey)
}

// VerifyRefresh validates a refresh token. Unused by the current flows but
// required by any future refresh-exchange endpoint.
func (i *PasetoIssuer) VerifyRefresh(tokenStr string) (*TokenClaims, error) {
	return i.verify(tokenStr, i.refreshKey)
}

func (i *PasetoIssuer) verify(tokenStr string, key paseto.V4SymmetricKey) (*TokenClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.IssuedBy(i.cfg.Issuer))
	parser.AddRule(paseto.ForAudience(i.cfg.Audience))

	token, err := parser.ParseV4Local(key, tokenStr, nil)
	if err != nil {
		// The parser checks expiration by default; distinguish expired from invalid
		if errors.Is(err, &paseto.RuleError{}) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	subject, err := token.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, err := token.GetString("email")
	if err != nil {
		return nil, ErrInvalidToken
	}

	role, err := token.GetString("role")
	if err != nil {
		return nil, ErrInvalidToken
	}

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, ErrInvalidToken
	}

	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, ErrInvalidToken
	}

	// The token id is only present on refresh tokens
	tokenID, _ := token.GetJti()

	return &TokenClaims{
		UserID:    subject,
		Email:     email,
		Role:      role,
		TokenID:   tokenID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
