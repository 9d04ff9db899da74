// Package web serves the server-rendered auth pages. The layout is a
// centered branded frame; each page only contributes its inner content.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"saas-auth-backend/internal/logging"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handler renders the auth pages.
type Handler struct {
	login    *template.Template
	register *template.Template
	appName  string
}

type pageData struct {
	AppName string
	Title   string
}

func NewHandler(appName string) (*Handler, error) {
	login, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/login.html")
	if err != nil {
		return nil, err
	}

	register, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/register.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		login:    login,
		register: register,
		appName:  appName,
	}, nil
}

// LoginPage renders the login form inside the auth frame.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, h.login, "Sign in")
}

// RegisterPage renders the registration form inside the auth frame.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, h.register, "Create your account")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, title string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := tmpl.ExecuteTemplate(w, "layout", pageData{
		AppName: h.appName,
		Title:   title,
	})
	if err != nil {
		logger := logging.GetLoggerFromContext(r.Context())
		logger.Error("failed to render page", "error", err.Error())
	}
}
