package http

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/memorial/internal/middleware"
	"github.com/atinyakov/memorial/internal/models"
	"github.com/atinyakov/memorial/internal/service"
)

// AuthService defines the authentication operations required by AuthHandler.
type AuthService interface {
	// Login checks credentials and issues a session.
	Login(ctx context.Context, login, password string) (models.AuthSession, error)
	// Verify returns the login of a valid token.
	Verify(token string) (string, error)
}

// AuthHandler serves /auth.
type AuthHandler struct {
	AuthService AuthService
	Log         *zap.Logger
}

// LoginRequest represents the JSON payload of POST /auth.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login answers {token, login} for valid credentials and 401 otherwise.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}
	sess, err := h.AuthService.Login(r.Context(), req.Login, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		nopIfNil(h.Log).Error("failed to issue token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Verify answers {login} for a valid X-Auth-Token.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	login, err := h.AuthService.Verify(r.Header.Get(middleware.TokenHeader))
	switch {
	case errors.Is(err, service.ErrNoToken):
		writeError(w, http.StatusUnauthorized, "No token provided")
	case errors.Is(err, service.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "Token expired")
	case err != nil:
		writeError(w, http.StatusUnauthorized, "Invalid token")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"login": login})
	}
}
