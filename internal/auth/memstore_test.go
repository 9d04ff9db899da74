package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"saas-auth-backend/internal/organization"
	"saas-auth-backend/internal/session"
	"saas-auth-backend/internal/user"
)

// memStore is an in-memory Store used to exercise the service without a
// database. RunInTx runs the closure against a copy and only merges the
// copy back on success, mirroring transactional rollback.
type memStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*user.User
	usersByEmail map[string]uuid.UUID
	orgs         map[uuid.UUID]*organization.Organization
	sessions     []*session.Session

	failSessionCreate bool
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[uuid.UUID]*user.User),
		usersByEmail: make(map[string]uuid.UUID),
		orgs:         make(map[uuid.UUID]*organization.Organization),
	}
}

func (s *memStore) Users() UserStore                 { return &memUsers{s} }
func (s *memStore) Organizations() OrganizationStore { return &memOrgs{s} }
func (s *memStore) Sessions() SessionStore           { return &memSessions{s} }

func (s *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	s.mu.Lock()
	tx := s.clone()
	s.mu.Unlock()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.mu.Lock()
	s.users = tx.users
	s.usersByEmail = tx.usersByEmail
	s.orgs = tx.orgs
	s.sessions = tx.sessions
	s.mu.Unlock()
	return nil
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	c.failSessionCreate = s.failSessionCreate
	for id, u := range s.users {
		cp := *u
		c.users[id] = &cp
	}
	for email, id := range s.usersByEmail {
		c.usersByEmail[email] = id
	}
	for id, o := range s.orgs {
		cp := *o
		cp.MemberIDs = append([]uuid.UUID(nil), o.MemberIDs...)
		c.orgs[id] = &cp
	}
	c.sessions = append([]*session.Session(nil), s.sessions...)
	return c
}

type memUsers struct{ s *memStore }

func (m *memUsers) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, exists := m.s.usersByEmail[params.Email]; exists {
		return nil, user.ErrDuplicateEmail
	}

	now := time.Now()
	u := &user.User{
		ID:             uuid.New(),
		Email:          params.Email,
		PasswordHash:   params.PasswordHash,
		Role:           params.Role,
		IsActive:       true,
		EmailVerified:  false,
		OrganizationID: params.OrganizationID,
		ProjectIDs:     []uuid.UUID{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.s.users[u.ID] = u
	m.s.usersByEmail[u.Email] = u.ID

	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	id, ok := m.s.usersByEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *m.s.users[id]
	return &cp, nil
}

func (m *memUsers) GetActiveByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	u, ok := m.s.users[id]
	if !ok || !u.IsActive {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) TouchUpdatedAt(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	u, ok := m.s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.UpdatedAt = at
	return nil
}

type memOrgs struct{ s *memStore }

func (m *memOrgs) Create(ctx context.Context, name string) (*organization.Organization, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	now := time.Now()
	o := &organization.Organization{
		ID:        uuid.New(),
		Name:      name,
		MemberIDs: []uuid.UUID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.s.orgs[o.ID] = o

	cp := *o
	return &cp, nil
}

func (m *memOrgs) AddMember(ctx context.Context, orgID, userID uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	o, ok := m.s.orgs[orgID]
	if !ok {
		return organization.ErrNotFound
	}
	o.MemberIDs = append(o.MemberIDs, userID)
	o.UpdatedAt = time.Now()
	return nil
}

type memSessions struct{ s *memStore }

var errSessionCreateFailed = errors.New("session create failed")

func (m *memSessions) Create(ctx context.Context, params session.CreateParams) (*session.Session, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if m.s.failSessionCreate {
		return nil, errSessionCreateFailed
	}

	sess := &session.Session{
		ID:           uuid.New(),
		AccessToken:  params.AccessToken,
		RefreshToken: params.RefreshToken,
		UserID:       params.UserID,
		ExpiresAt:    params.ExpiresAt,
		Revoked:      false,
		CreatedAt:    time.Now(),
	}
	m.s.sessions = append(m.s.sessions, sess)

	cp := *sess
	return &cp, nil
}
