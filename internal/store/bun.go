package store

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"

	"saas-auth-backend/internal/auth"
	"saas-auth-backend/internal/organization"
	"saas-auth-backend/internal/session"
	"saas-auth-backend/internal/user"
)

// BunStore implements auth.Store over a bun handle. RunInTx rebinds the
// repositories to the transaction so every write in the closure commits or
// rolls back together.
type BunStore struct {
	db       *bun.DB
	handle   bun.IDB
	users    *user.Repository
	orgs     *organization.Repository
	sessions *session.Repository
}

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{
		db:       db,
		handle:   db,
		users:    user.NewRepository(db),
		orgs:     organization.NewRepository(db),
		sessions: session.NewRepository(db),
	}
}

func (s *BunStore) Users() auth.UserStore {
	return s.users
}

func (s *BunStore) Organizations() auth.OrganizationStore {
	return s.orgs
}

func (s *BunStore) Sessions() auth.SessionStore {
	return s.sessions
}

// RunInTx runs fn inside one bun transaction. A nested call reuses the
// surrounding transaction rather than opening a second one.
func (s *BunStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx auth.Store) error) error {
	if _, ok := s.handle.(bun.Tx); ok {
		return fn(ctx, s)
	}

	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		txStore := &BunStore{
			db:       s.db,
			handle:   tx,
			users:    s.users.WithDB(tx),
			orgs:     s.orgs.WithDB(tx),
			sessions: s.sessions.WithDB(tx),
		}
		return fn(ctx, txStore)
	})
}
