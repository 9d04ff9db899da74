package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas-auth-backend/internal/config"
	"saas-auth-backend/internal/logging"
	"saas-auth-backend/internal/user"
)

func testTokenConfig() config.TokenConfig {
	return config.TokenConfig{
		Provider:        config.TokenProviderJWT,
		AccessSecret:    []byte("test-access-secret"),
		RefreshSecret:   []byte("test-refresh-secret"),
		AccessDuration:  15 * time.Minute,
		RefreshDuration: 7 * 24 * time.Hour,
		Issuer:          "saas-auth-backend",
		Audience:        "saas-auth-clients",
	}
}

func newTestService(t *testing.T) (*Service, *memStore, *JWTIssuer) {
	t.Helper()
	store := newMemStore()
	issuer := NewJWTIssuer(testTokenConfig())
	svc := NewService(store, issuer, logging.NewLogger(true))
	return svc, store, issuer
}

func registerInput() RegisterInput {
	return RegisterInput{
		Email:            "owner@acme.test",
		Password:         "correct-horse",
		OrganizationName: "Acme",
	}
}

func TestRegisterCreatesOrganizationUserAndSession(t *testing.T) {
	svc, store, issuer := newTestService(t)

	result, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.NotNil(t, result)

	// Exactly one of each record
	require.Len(t, store.users, 1)
	require.Len(t, store.orgs, 1)
	require.Len(t, store.sessions, 1)

	u := result.User
	assert.Equal(t, "owner@acme.test", u.Email)
	assert.Equal(t, user.RoleOwner, u.Role)
	assert.True(t, u.IsActive)
	assert.False(t, u.EmailVerified)
	assert.Empty(t, u.PasswordHash, "returned user must not carry the hash")

	// Mutual reference: user -> org and org member list -> user
	org := store.orgs[u.OrganizationID]
	require.NotNil(t, org)
	assert.Equal(t, "Acme", org.Name)
	assert.Contains(t, org.MemberIDs, u.ID)

	// Session holds the issued pair and a 7-day expiry
	sess := store.sessions[0]
	assert.Equal(t, u.ID, sess.UserID)
	assert.Equal(t, result.Tokens.AccessToken, sess.AccessToken)
	assert.Equal(t, result.Tokens.RefreshToken, sess.RefreshToken)
	assert.False(t, sess.Revoked)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), sess.ExpiresAt, time.Minute)

	// Both tokens decode to the same subject; refresh carries a token id
	accessClaims, err := issuer.VerifyAccess(result.Tokens.AccessToken)
	require.NoError(t, err)
	refreshClaims, err := issuer.VerifyRefresh(result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), accessClaims.UserID)
	assert.Equal(t, accessClaims.UserID, refreshClaims.UserID)
	assert.Empty(t, accessClaims.TokenID)
	assert.NotEmpty(t, refreshClaims.TokenID)
}

func TestRegisterDuplicateEmailFailsWithoutWrites(t *testing.T) {
	svc, store, _ := newTestService(t)

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	input := registerInput()
	input.OrganizationName = "Other Org"
	_, err = svc.Register(context.Background(), input)
	require.ErrorIs(t, err, ErrEmailExists)

	assert.Len(t, store.users, 1)
	assert.Len(t, store.orgs, 1)
	assert.Len(t, store.sessions, 1)
}

func TestRegisterRollsBackAllWritesOnFailure(t *testing.T) {
	svc, store, _ := newTestService(t)
	store.failSessionCreate = true

	_, err := svc.Register(context.Background(), registerInput())
	require.Error(t, err)

	assert.Empty(t, store.users, "failed registration must not leave a user")
	assert.Empty(t, store.orgs, "failed registration must not leave an organization")
	assert.Empty(t, store.sessions)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	tests := []struct {
		name    string
		mutate  func(*RegisterInput)
		wantErr error
	}{
		{"missing email", func(in *RegisterInput) { in.Email = "" }, ErrEmailRequired},
		{"malformed email", func(in *RegisterInput) { in.Email = "not-an-email" }, ErrInvalidEmailFormat},
		{"missing password", func(in *RegisterInput) { in.Password = "" }, ErrPasswordRequired},
		{"short password", func(in *RegisterInput) { in.Password = "short" }, ErrPasswordTooShort},
		{"missing organization", func(in *RegisterInput) { in.OrganizationName = "" }, ErrOrganizationRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := registerInput()
			tt.mutate(&input)
			_, err := svc.Register(context.Background(), input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	svc, store, issuer := newTestService(t)

	registered, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	before := store.users[registered.User.ID].UpdatedAt

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "owner@acme.test",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	assert.Equal(t, registered.User.ID, result.User.ID)
	assert.Empty(t, result.User.PasswordHash)

	accessClaims, err := issuer.VerifyAccess(result.Tokens.AccessToken)
	require.NoError(t, err)
	refreshClaims, err := issuer.VerifyRefresh(result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID.String(), accessClaims.UserID)
	assert.Equal(t, accessClaims.UserID, refreshClaims.UserID)

	// Login touches the user's updated timestamp
	after := store.users[registered.User.ID].UpdatedAt
	assert.False(t, after.Before(before))

	// Login does not create a session
	assert.Len(t, store.sessions, 1)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "ghost@acme.test",
		Password: "whatever-pass",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{
		Email:    "owner@acme.test",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestLoginDeactivatedUser(t *testing.T) {
	svc, store, _ := newTestService(t)

	registered, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	store.users[registered.User.ID].IsActive = false

	// Correct password still fails for a deactivated account
	_, err = svc.Login(context.Background(), LoginInput{
		Email:    "owner@acme.test",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, ErrUserDeactivated)
}

func TestValidateUser(t *testing.T) {
	svc, store, _ := newTestService(t)

	registered, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	t.Run("active user", func(t *testing.T) {
		u, err := svc.ValidateUser(context.Background(), registered.User.ID)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, registered.User.ID, u.ID)
		assert.Empty(t, u.PasswordHash)
	})

	t.Run("unknown id", func(t *testing.T) {
		u, err := svc.ValidateUser(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("deactivated user", func(t *testing.T) {
		store.users[registered.User.ID].IsActive = false
		u, err := svc.ValidateUser(context.Background(), registered.User.ID)
		require.NoError(t, err)
		assert.Nil(t, u)
	})
}
