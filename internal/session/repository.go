package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"saas-auth-backend/internal/database"
)

var ErrNotFound = errors.New("session not found")

// Lifetime fixes the session expiry relative to creation time.
const Lifetime = 7 * 24 * time.Hour

// CreateParams carries the fields for a new session record.
type CreateParams struct {
	AccessToken  string
	RefreshToken string
	UserID       uuid.UUID
	ExpiresAt    time.Time
}

// Repository handles session persistence over a bun handle.
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// WithDB returns a repository bound to another bun handle (e.g. a bun.Tx).
func (r *Repository) WithDB(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new session with revoked=false.
func (r *Repository) Create(ctx context.Context, params CreateParams) (*Session, error) {
	dbSession := &database.Session{
		AccessToken:  params.AccessToken,
		RefreshToken: params.RefreshToken,
		UserID:       params.UserID,
		ExpiresAt:    params.ExpiresAt,
		Revoked:      false,
	}

	_, err := r.db.NewInsert().
		Model(dbSession).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return mapDBSessionToModel(dbSession), nil
}

// GetByUserID retrieves the most recent session for a user.
func (r *Repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Session, error) {
	dbSession := new(database.Session)
	err := r.db.NewSelect().
		Model(dbSession).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session by user id: %w", err)
	}

	return mapDBSessionToModel(dbSession), nil
}

// mapDBSessionToModel converts database model to domain model
func mapDBSessionToModel(dbs *database.Session) *Session {
	return &Session{
		ID:           dbs.ID,
		AccessToken:  dbs.AccessToken,
		RefreshToken: dbs.RefreshToken,
		UserID:       dbs.UserID,
		ExpiresAt:    dbs.ExpiresAt,
		Revoked:      dbs.Revoked,
		CreatedAt:    dbs.CreatedAt,
	}
}
