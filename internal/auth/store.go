package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"saas-auth-backend/internal/organization"
	"saas-auth-backend/internal/session"
	"saas-auth-backend/internal/user"
)

// UserStore is the slice of user persistence the service needs.
type UserStore interface {
	Create(ctx context.Context, params user.CreateParams) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	TouchUpdatedAt(ctx context.Context, id uuid.UUID, at time.Time) error
}

// OrganizationStore is the slice of organization persistence the service needs.
type OrganizationStore interface {
	Create(ctx context.Context, name string) (*organization.Organization, error)
	AddMember(ctx context.Context, orgID, userID uuid.UUID) error
}

// SessionStore is the slice of session persistence the service needs.
type SessionStore interface {
	Create(ctx context.Context, params session.CreateParams) (*session.Session, error)
}

// Store bundles the entity stores behind one capability interface so the
// service stays testable against an in-memory fake. RunInTx runs fn inside
// a single transaction: every write made through the tx-bound Store is
// committed together or rolled back together.
type Store interface {
	Users() UserStore
	Organizations() OrganizationStore
	Sessions() SessionStore
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
