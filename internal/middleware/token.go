// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
)

// TokenHeader carries the admin token on every protected request.
const TokenHeader = "X-Auth-Token"

type ctxKey string

const loginKey ctxKey = "login"

// TokenVerifier resolves a token to the login it was issued to.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// TokenAuth is a middleware that admits only requests carrying a valid
// X-Auth-Token. Rejected requests get 401 {"error":"Unauthorized"}.
//
// On success the login is stored in the request context, so it can be read
// downstream with GetLoginFromContext.
func TokenAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			login, err := verifier.Verify(r.Header.Get(TokenHeader))
			if err != nil || login == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithLogin(r.Context(), login)))
		})
	}
}

// WithLogin returns a copy of ctx carrying login.
func WithLogin(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, loginKey, login)
}

// GetLoginFromContext extracts the authenticated login from the request
// context. Returns an empty string if not found.
func GetLoginFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(loginKey).(string); ok {
		return s
	}
	return ""
}
