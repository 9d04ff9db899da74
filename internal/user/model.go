package user

import (
	"time"

	"github.com/google/uuid"
)

// Role is the user's role inside its organization.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

type User struct {
	ID             uuid.UUID   `json:"id"`
	Email          string      `json:"email"`
	PasswordHash   string      `json:"-"` // Never expose password hash in JSON
	Role           Role        `json:"role"`
	IsActive       bool        `json:"is_active"`
	EmailVerified  bool        `json:"email_verified"`
	OrganizationID uuid.UUID   `json:"organization_id"`
	ProjectIDs     []uuid.UUID `json:"project_ids"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Sanitized returns a copy safe to hand to callers: the hash is cleared in
// addition to being json-hidden, so it cannot leak through re-serialization.
func (u *User) Sanitized() *User {
	c := *u
	c.PasswordHash = ""
	return &c
}
