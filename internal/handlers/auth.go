package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"millcms/internal/middleware"
	"millcms/internal/models"
	"millcms/internal/session"
)

// SessionStore creates and destroys admin sessions.
type SessionStore interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// UserStore looks up dashboard users and checks their passwords.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  SessionStore
	userStore UserStore
	logger    *slog.Logger
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions SessionStore, userStore UserStore, logger *slog.Logger) *Auth {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
		logger:    logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userView is the public part of a session.
type userView struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// Login checks credentials and starts a session.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.userStore.FindByEmail(r.Context(), email)
	if err != nil {
		a.logger.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		a.logger.Info("login rejected", "email", email)
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	data := &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
	}
	if _, err := a.sessions.Create(r.Context(), w, data); err != nil {
		a.logger.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not start session")
		return
	}

	a.logger.Info("user logged in", "email", user.Email)
	writeJSON(w, http.StatusOK, map[string]any{"user": viewOf(data)})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		a.logger.Warn("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me reports whether the request is authenticated. A session lookup that
// failed or timed out in LoadSession reads as unauthenticated here.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          viewOf(sess),
	})
}

func viewOf(d *session.Data) userView {
	return userView{Email: d.Email, DisplayName: d.DisplayName, Role: d.Role}
}
