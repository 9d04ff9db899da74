package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"saas-auth-backend/internal/database"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("user with this email already exists")
)

// CreateParams carries the fields the service supplies for a new user.
type CreateParams struct {
	Email          string
	PasswordHash   string
	Role           Role
	OrganizationID uuid.UUID
}

// Repository handles user data persistence. It accepts bun.IDB so the same
// code runs against the root DB or inside a transaction.
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

// Create inserts a new user. New users start active and unverified.
func (r *Repository) Create(ctx context.Context, params CreateParams) (*User, error) {
	dbUser := &database.User{
		Email:          params.Email,
		PasswordHash:   params.PasswordHash,
		Role:           string(params.Role),
		IsActive:       true,
		EmailVerified:  false,
		OrganizationID: params.OrganizationID,
		ProjectIDs:     []string{},
	}

	_, err := r.db.NewInsert().
		Model(dbUser).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByEmail retrieves a user by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetActiveByID retrieves a user by ID filtered to active accounts.
// Deactivated users are indistinguishable from missing ones to the caller.
func (r *Repository) GetActiveByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("id = ?", id).
		Where("is_active = ?", true).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get active user by id: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// TouchUpdatedAt bumps the user's updated timestamp (successful login).
func (r *Repository) TouchUpdatedAt(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("updated_at = ?", at).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to touch user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:             dbu.ID,
		Email:          dbu.Email,
		PasswordHash:   dbu.PasswordHash,
		Role:           Role(dbu.Role),
		IsActive:       dbu.IsActive,
		EmailVerified:  dbu.EmailVerified,
		OrganizationID: dbu.OrganizationID,
		ProjectIDs:     parseIDList(dbu.ProjectIDs),
		CreatedAt:      dbu.CreatedAt,
		UpdatedAt:      dbu.UpdatedAt,
	}
}

func parseIDList(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		if id, err := uuid.Parse(s); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
