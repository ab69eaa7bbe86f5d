package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/memorial/internal/models"
)

var (
	// ErrInvalidCredentials is returned by Login for a wrong login or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned for missing or invalid tokens.
	ErrUnauthorized = errors.New("invalid token")
	// ErrNoToken is returned by Verify for an empty token.
	ErrNoToken = errors.New("no token provided")
)

// AuthService checks the single administrator account and issues tokens.
type AuthService struct {
	login  string
	hash   []byte
	tokens *TokenManager
}

// NewAuthService creates a service for the admin login whose password
// matches the bcrypt passwordHash.
func NewAuthService(login, passwordHash string, tokens *TokenManager) *AuthService {
	return &AuthService{login: login, hash: []byte(passwordHash), tokens: tokens}
}

// Login returns a fresh session for valid credentials.
func (s *AuthService) Login(_ context.Context, login, password string) (models.AuthSession, error) {
	if login == "" || login != s.login {
		return models.AuthSession{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		return models.AuthSession{}, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(login)
	if err != nil {
		return models.AuthSession{}, err
	}
	return models.AuthSession{Token: token, Login: login}, nil
}

// Verify returns the login a valid token was issued to.
func (s *AuthService) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrNoToken
	}
	return s.tokens.Parse(token)
}
