package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/memorial/internal/client/storage"
	"github.com/atinyakov/memorial/internal/models"
)

func openStore(t *testing.T, path string) *storage.FileStore {
	t.Helper()
	s, err := storage.Open(path, nil)
	require.NoError(t, err)
	return s
}

func TestLoginLogoutPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), storage.DefaultFile)
	st := New(openStore(t, path), nil)
	assert.False(t, st.IsAuthenticated())

	var seen []models.AuthSession
	st.OnChange(func(s models.AuthSession) { seen = append(seen, s) })

	require.NoError(t, st.Login("tok", "admin"))
	assert.True(t, st.IsAuthenticated())
	assert.Equal(t, "tok", st.Token())

	restarted := New(openStore(t, path), nil)
	assert.Equal(t, models.AuthSession{Token: "tok", Login: "admin"}, restarted.Session())

	require.NoError(t, st.Logout())
	require.NoError(t, st.Logout())
	assert.False(t, st.IsAuthenticated())
	assert.Equal(t, "", st.Token())

	restarted = New(openStore(t, path), nil)
	assert.False(t, restarted.IsAuthenticated())

	assert.Equal(t, []models.AuthSession{{Token: "tok", Login: "admin"}, {}}, seen)
}

type failingStore struct{}

func (failingStore) Get(string) (string, bool) { return "", false }

func (failingStore) SetMany(map[string]string) error { return errors.New("disk full") }

func (failingStore) Delete(...string) error { return errors.New("disk full") }

func (failingStore) Subscribe(func([]string)) func() { return func() {} }

func TestLogin_PersistFailureKeepsMemory(t *testing.T) {
	st := New(failingStore{}, nil)
	err := st.Login("tok", "admin")
	require.Error(t, err)
	assert.False(t, st.IsAuthenticated())
}

func TestCrossProcessChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), storage.DefaultFile)
	store := openStore(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, store.Watch(ctx))

	st := New(store, nil)
	defer st.Close()

	changed := make(chan models.AuthSession, 4)
	st.OnChange(func(s models.AuthSession) { changed <- s })

	other := New(openStore(t, path), nil)
	require.NoError(t, other.Login("t2", "editor"))

	select {
	case s := <-changed:
		assert.Equal(t, models.AuthSession{Token: "t2", Login: "editor"}, s)
	case <-time.After(3 * time.Second):
		t.Fatal("session change from another process was not observed")
	}
	assert.True(t, st.IsAuthenticated())

	require.NoError(t, other.Logout())
	require.Eventually(t, func() bool { return !st.IsAuthenticated() }, 3*time.Second, 20*time.Millisecond)
}
