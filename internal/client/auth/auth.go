// Package auth holds the admin session of the terminal client.
//
// The session is persisted in the client storage under the keys authToken
// and userLogin, so it survives restarts and is shared between client
// processes that use the same storage file.
package auth

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/memorial/internal/models"
)

// Storage keys of the session.
const (
	KeyToken = "authToken"
	KeyLogin = "userLogin"
)

// Store is the durable key-value storage the session lives in.
type Store interface {
	Get(key string) (string, bool)
	SetMany(values map[string]string) error
	Delete(keys ...string) error
	Subscribe(fn func(changed []string)) func()
}

// State is the in-memory view of the persisted session.
type State struct {
	store Store
	log   *zap.Logger

	mu      sync.Mutex
	session models.AuthSession

	lmu       sync.Mutex
	listeners map[int]func(models.AuthSession)
	nextID    int

	unsubscribe func()
}

// New reads the current session from store and follows its changes.
func New(store Store, log *zap.Logger) *State {
	if log == nil {
		log = zap.NewNop()
	}
	s := &State{
		store:     store,
		log:       log,
		listeners: map[int]func(models.AuthSession){},
	}
	s.session = s.read()
	s.unsubscribe = store.Subscribe(s.onStoreChange)
	return s
}

// Close stops following storage changes.
func (s *State) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Session returns the current session.
func (s *State) Session() models.AuthSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// IsAuthenticated reports whether a token is present.
func (s *State) IsAuthenticated() bool {
	return s.Session().IsAuthenticated()
}

// Token returns the current token, empty when logged out.
func (s *State) Token() string {
	return s.Session().Token
}

// Login persists the session and then updates memory and listeners.
func (s *State) Login(token, login string) error {
	if err := s.store.SetMany(map[string]string{KeyToken: token, KeyLogin: login}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.set(models.AuthSession{Token: token, Login: login})
	return nil
}

// Logout removes the persisted session. It is idempotent.
func (s *State) Logout() error {
	if err := s.store.Delete(KeyToken, KeyLogin); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.set(models.AuthSession{})
	return nil
}

// OnChange registers fn to be called after every session change, local or
// made by another process. The returned func unregisters it.
func (s *State) OnChange(fn func(models.AuthSession)) func() {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.lmu.Unlock()
	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

func (s *State) read() models.AuthSession {
	token, _ := s.store.Get(KeyToken)
	login, _ := s.store.Get(KeyLogin)
	return models.AuthSession{Token: token, Login: login}
}

func (s *State) onStoreChange(changed []string) {
	relevant := false
	for _, k := range changed {
		if k == KeyToken || k == KeyLogin {
			relevant = true
			break
		}
	}
	if !relevant {
		return
	}
	next := s.read()
	s.log.Debug("session changed externally", zap.String("login", next.Login), zap.Bool("authenticated", next.IsAuthenticated()))
	s.set(next)
}

func (s *State) set(next models.AuthSession) {
	s.mu.Lock()
	if s.session == next {
		s.mu.Unlock()
		return
	}
	s.session = next
	s.mu.Unlock()

	s.lmu.Lock()
	fns := make([]func(models.AuthSession), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()
	for _, fn := range fns {
		fn(next)
	}
}
