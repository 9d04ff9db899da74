package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginPage(t *testing.T) {
	h, err := NewHandler("SaaS Auth")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	h.LoginPage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `class="auth-frame"`)
	assert.Contains(t, body, "SaaS Auth")
	assert.Contains(t, body, "<title>Sign in · SaaS Auth</title>")
	assert.Contains(t, body, `action="/auth/login"`)
	assert.Contains(t, body, `name="email"`)
	assert.Contains(t, body, `name="password"`)
}

func TestRegisterPage(t *testing.T) {
	h, err := NewHandler("SaaS Auth")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/register", nil)
	rec := httptest.NewRecorder()
	h.RegisterPage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `class="auth-frame"`)
	assert.Contains(t, body, "<title>Create your account · SaaS Auth</title>")
	assert.Contains(t, body, `action="/auth/register"`)
	assert.Contains(t, body, `name="organization_name"`)
	assert.Contains(t, body, `name="email"`)
	assert.Contains(t, body, `name="password"`)
}
