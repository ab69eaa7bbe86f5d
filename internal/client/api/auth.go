package api

import (
	"context"
	"net/http"

	"github.com/atinyakov/memorial/internal/models"
)

// AuthAPI groups the /auth endpoints.
type AuthAPI struct{ c *Client }

// Login exchanges admin credentials for a session.
// Wrong credentials yield a *RequestFailedError with status 401.
func (a *AuthAPI) Login(ctx context.Context, login, password string) (models.AuthSession, error) {
	var s models.AuthSession
	err := a.c.doJSON(ctx, call{
		resource: "auth",
		method:   http.MethodPost,
		path:     "/auth",
		body:     map[string]string{"login": login, "password": password},
	}, &s)
	return s, err
}

// Verify checks the current token and returns the login it was issued to.
func (a *AuthAPI) Verify(ctx context.Context) (string, error) {
	var out struct {
		Login string `json:"login"`
	}
	if err := a.c.doJSON(ctx, call{resource: "auth", method: http.MethodGet, path: "/auth"}, &out); err != nil {
		return "", err
	}
	return out.Login, nil
}

// SubmissionsAPI groups the /submissions endpoint.
type SubmissionsAPI struct{ c *Client }

// Submit sends visitor materials for moderation and returns the submission id.
// The submission is validated locally first.
func (a *SubmissionsAPI) Submit(ctx context.Context, s models.Submission) (int64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	var out struct {
		Success      bool   `json:"success"`
		SubmissionID int64  `json:"submissionId"`
		Message      string `json:"message"`
	}
	if err := a.c.doJSON(ctx, call{resource: "submissions", method: http.MethodPost, path: "/submissions", body: s}, &out); err != nil {
		return 0, err
	}
	return out.SubmissionID, nil
}
