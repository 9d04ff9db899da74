package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"saas-auth-backend/internal/logging"
	"saas-auth-backend/internal/session"
	"saas-auth-backend/internal/user"
)

var (
	// Conflict: the resource already exists.
	ErrEmailExists = errors.New("user with this email already exists")

	// Unauthorized: one error class, distinct messages per failure mode.
	ErrUserNotFound    = errors.New("user not found")
	ErrUserDeactivated = errors.New("user account is deactivated")
	ErrInvalidPassword = errors.New("password is incorrect")

	// Validation errors surface as bad requests.
	ErrEmailRequired        = errors.New("email is required")
	ErrInvalidEmailFormat   = errors.New("invalid email format")
	ErrPasswordRequired     = errors.New("password is required")
	ErrPasswordTooShort     = errors.New("password must be at least 8 characters")
	ErrOrganizationRequired = errors.New("organization name is required")
)

// RegisterInput is what a new tenant signs up with. The registering user
// becomes the owner of a freshly created organization.
type RegisterInput struct {
	Email            string
	Password         string
	OrganizationName string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is the outcome of a successful register or login: the
// sanitized user record plus the signed token pair.
type AuthResult struct {
	User   *user.User `json:"user"`
	Tokens *TokenPair `json:"tokens"`
}

// Service handles authentication business logic
type Service struct {
	store  Store
	issuer TokenIssuer
	logger *logging.Logger
}

func NewService(store Store, issuer TokenIssuer, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		issuer: issuer,
		logger: logger,
	}
}

// Register creates the organization, its owner user and the initial
// session as one transactional unit: a failure anywhere rolls back every
// write, so no orphaned organization or half-linked user can survive.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	// Fast-path conflict check; the unique constraint inside the
	// transaction covers the race with a concurrent registration.
	_, err := s.store.Users().GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	var result *AuthResult
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx Store) error {
		org, err := tx.Organizations().Create(ctx, input.OrganizationName)
		if err != nil {
			return err
		}

		newUser, err := tx.Users().Create(ctx, user.CreateParams{
			Email:          input.Email,
			PasswordHash:   passwordHash,
			Role:           user.RoleOwner,
			OrganizationID: org.ID,
		})
		if err != nil {
			return err
		}

		if err := tx.Organizations().AddMember(ctx, org.ID, newUser.ID); err != nil {
			return err
		}

		tokens, err := s.issuer.IssuePair(ctx, newUser.ID, newUser.Email, newUser.Role)
		if err != nil {
			return fmt.Errorf("failed to issue tokens: %w", err)
		}

		if _, err := tx.Sessions().Create(ctx, session.CreateParams{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			UserID:       newUser.ID,
			ExpiresAt:    time.Now().Add(session.Lifetime),
		}); err != nil {
			return err
		}

		result = &AuthResult{
			User:   newUser.Sanitized(),
			Tokens: tokens,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered",
		"user_id", result.User.ID,
		"organization_id", result.User.OrganizationID,
	)

	return result, nil
}

// Login authenticates a user and returns the sanitized record plus a
// fresh token pair. No session record is written for logins.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	existing, err := s.store.Users().GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !existing.IsActive {
		return nil, ErrUserDeactivated
	}

	if !CheckPassword(existing.PasswordHash, input.Password) {
		return nil, ErrInvalidPassword
	}

	tokens, err := s.issuer.IssuePair(ctx, existing.ID, existing.Email, existing.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	if err := s.store.Users().TouchUpdatedAt(ctx, existing.ID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("user logged in", "user_id", existing.ID)

	return &AuthResult{
		User:   existing.Sanitized(),
		Tokens: tokens,
	}, nil
}

// ValidateUser re-resolves the principal for downstream authorization.
// Returns (nil, nil) for missing or deactivated users; never an error for
// not-found.
func (s *Service) ValidateUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	existing, err := s.store.Users().GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to validate user: %w", err)
	}
	return existing.Sanitized(), nil
}

func validateRegisterInput(input RegisterInput) error {
	if input.Email == "" {
		return ErrEmailRequired
	}
	if len(input.Email) > 254 {
		return ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return ErrInvalidEmailFormat
	}
	if input.Password == "" {
		return ErrPasswordRequired
	}
	if len(input.Password) < 8 {
		return ErrPasswordTooShort
	}
	if input.OrganizationName == "" {
		return ErrOrganizationRequired
	}
	return nil
}
