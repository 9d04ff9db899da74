package organization

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

var ErrNotFound = errors.New("organization not found")

// Repository handles organization persistence over a bun handle.
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

// Create inserts a new organization with an empty member list.
func (r *Repository) Create(ctx context.Context, name string) (*Organization, error) {
	dbOrg := &database.Organization{
		Name:      name,
		MemberIDs: []string{},
	}

	_, err := r.db.NewInsert().
		Model(dbOrg).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	return mapDBOrgToModel(dbOrg), nil
}

// GetByID retrieves an organization by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Organization, error) {
	dbOrg := new(database.Organization)
	err := r.db.NewSelect().
		Model(dbOrg).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get organization by id: %w", err)
	}

	return mapDBOrgToModel(dbOrg), nil
}

// AddMember appends a user id to the organization's member list.
func (r *Repository) AddMember(ctx context.Context, orgID, userID uuid.UUID) error {
	result, err := r.db.NewUpdate().
		Model((*database.Organization)(nil)).
		Set("member_ids = array_append(member_ids, ?)", userID.String()).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", orgID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to add organization member: %w", err)
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

// mapDBOrgToModel converts database model to domain model
func mapDBOrgToModel(dbo *database.Organization) *Organization {
	memberIDs := make([]uuid.UUID, 0, len(dbo.MemberIDs))
	for _, s := range dbo.MemberIDs {
		if id, err := uuid.Parse(s); err == nil {
			memberIDs = append(memberIDs, id)
		}
	}

	return &Organization{
		ID:        dbo.ID,
		Name:      dbo.Name,
		MemberIDs: memberIDs,
		CreatedAt: dbo.CreatedAt,
		UpdatedAt: dbo.UpdatedAt,
	}
}
