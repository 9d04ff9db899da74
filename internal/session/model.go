package session

import (
	"time"

	"github.com/google/uuid"
)

// Session records the token pair issued at registration. It is write-only
// in the current flows; the revoked flag and expiry exist so revocation can
// be added without a schema change.
type Session struct {
	ID           uuid.UUID `json:"id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UserID       uuid.UUID `json:"user_id"`
	ExpiresAt    time.Time `json:"expires_at"`
	Revoked      bool      `json:"revoked"`
	CreatedAt    time.Time `json:"created_at"`
}
