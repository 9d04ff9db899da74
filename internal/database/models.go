package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the users table model. The password hash never leaves the
// persistence layer; domain models strip it before serialization.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID             uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Email          string    `bun:"email,unique,notnull"`
	PasswordHash   string    `bun:"password_hash,notnull"`
	Role           string    `bun:"role,notnull"`
	IsActive       bool      `bun:"is_active,notnull,default:true"`
	EmailVerified  bool      `bun:"email_verified,notnull,default:false"`
	OrganizationID uuid.UUID `bun:"organization_id,type:uuid,notnull"`
	ProjectIDs     []string  `bun:"project_ids,array"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Organization is the organizations table model. MemberIDs mirrors the
// owning side of the user -> organization reference; both records are
// updated together inside the registration transaction.
type Organization struct {
	bun.BaseModel `bun:"table:organizations,alias:o"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name      string    `bun:"name,notnull"`
	MemberIDs []string  `bun:"member_ids,array"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Session is the sessions table model. Created once at registration; the
// revoked flag exists so revocation can land later without a schema change.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	AccessToken  string    `bun:"access_token,notnull"`
	RefreshToken string    `bun:"refresh_token,notnull"`
	UserID       uuid.UUID `bun:"user_id,type:uuid,notnull"`
	ExpiresAt    time.Time `bun:"expires_at,notnull"`
	Revoked      bool      `bun:"revoked,notnull,default:false"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
