package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"saas-auth-backend/internal/httputil"
	"saas-auth-backend/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	UserIDContextKey    ContextKey = "user_id"
	UserEmailContextKey ContextKey = "user_email"
	UserRoleContextKey  ContextKey = "user_role"
)

// Middleware handles authentication for protected routes
type Middleware struct {
	issuer  TokenIssuer
	service *Service
}

func NewMiddleware(issuer TokenIssuer, service *Service) *Middleware {
	return &Middleware{issuer: issuer, service: service}
}

// RequireAuth validates the access token and re-resolves the principal
// through ValidateUser, so deactivated accounts are rejected even while
// their tokens are still unexpired.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string

		// Priority 1: Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			} else {
				httputil.RespondErrorWithCode(w, "invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
				return
			}
		}

		// Priority 2: Cookie (fallback)
		if token == "" {
			cookieToken, err := GetAccessTokenFromCookie(r)
			if err != nil {
				httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
				return
			}
			token = cookieToken
		}

		claims, err := m.issuer.VerifyAccess(token)
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				httputil.RespondErrorWithCode(w, "token has expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
				return
			}
			httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			httputil.RespondErrorWithCode(w, "invalid user ID in token", httputil.CodeInvalidTokenUserID, http.StatusUnauthorized)
			return
		}

		principal, err := m.service.ValidateUser(r.Context(), userID)
		if err != nil {
			httputil.RespondErrorWithCode(w, "failed to resolve user", httputil.CodeInternalError, http.StatusInternalServerError)
			return
		}
		if principal == nil {
			httputil.RespondErrorWithCode(w, "account not found or deactivated", httputil.CodeAccountUnavailable, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, principal.ID)
		ctx = context.WithValue(ctx, UserEmailContextKey, principal.Email)
		ctx = context.WithValue(ctx, UserRoleContextKey, principal.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext retrieves the authenticated user's id.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDContextKey).(uuid.UUID)
	return id, ok
}

// GetUserEmailFromContext retrieves the authenticated user's email.
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailContextKey).(string)
	return email, ok
}

// GetUserRoleFromContext retrieves the authenticated user's role.
func GetUserRoleFromContext(ctx context.Context) (user.Role, bool) {
	role, ok := ctx.Value(UserRoleContextKey).(user.Role)
	return role, ok
}
