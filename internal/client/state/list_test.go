package state

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/memorial/internal/client/api"
	"github.com/atinyakov/memorial/internal/models"
)

// fakeHeroes is an in-memory /heroes endpoint.
type fakeHeroes struct {
	mu       sync.Mutex
	heroes   []models.Hero
	nextID   int64
	requests atomic.Int32
	// gate, when set, blocks POST handling until closed.
	gate chan struct{}
	// fail maps an HTTP method to the error status it answers with.
	fail map[string]int
}

func (f *fakeHeroes) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	if r.Method == http.MethodPost && f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	reply := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	if status, ok := f.fail[r.Method]; ok {
		reply(status, map[string]string{"error": "Internal server error"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		reply(http.StatusOK, map[string]any{"heroes": f.heroes})
	case http.MethodPost:
		var h models.Hero
		_ = json.NewDecoder(r.Body).Decode(&h)
		f.nextID++
		h.ID = f.nextID
		f.heroes = append(f.heroes, h)
		reply(http.StatusCreated, map[string]any{"id": h.ID, "message": "Hero created"})
	case http.MethodPut:
		var h models.Hero
		_ = json.NewDecoder(r.Body).Decode(&h)
		for i := range f.heroes {
			if f.heroes[i].ID == h.ID {
				f.heroes[i] = h
				reply(http.StatusOK, map[string]string{"message": "Hero updated"})
				return
			}
		}
		reply(http.StatusNotFound, map[string]string{"error": "Hero not found"})
	case http.MethodDelete:
		id, _ := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		for i := range f.heroes {
			if f.heroes[i].ID == id {
				f.heroes = append(f.heroes[:i], f.heroes[i+1:]...)
				reply(http.StatusOK, map[string]string{"message": "Hero deleted"})
				return
			}
		}
		reply(http.StatusNotFound, map[string]string{"error": "Hero not found"})
	}
}

func newHeroList(t *testing.T, f *fakeHeroes) *List[models.Hero] {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return NewHeroes(api.New(srv.URL), nil)
}

func validHero(name string) models.Hero {
	return models.Hero{
		Name:      name,
		BirthYear: 1920,
		Rank:      "Рядовой",
		Unit:      "1-я дивизия",
		Hometown:  "Покровское",
		Awards:    []string{},
	}
}

func TestCreate_ReloadsFromServer(t *testing.T) {
	f := &fakeHeroes{}
	l := newHeroList(t, f)
	ctx := context.Background()

	var notified [][]models.Hero
	l.OnChange(func(items []models.Hero) { notified = append(notified, items) })

	id, err := l.Create(ctx, validHero("Иванов Иван"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, Succeeded, l.Status(OpCreate))

	h, ok := l.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Иванов Иван", h.Name)
	assert.Len(t, notified, 1)
}

func TestUpdate_ReplacesByID(t *testing.T) {
	f := &fakeHeroes{}
	l := newHeroList(t, f)
	ctx := context.Background()

	id, err := l.Create(ctx, validHero("Петров"))
	require.NoError(t, err)
	_, err = l.Create(ctx, validHero("Сидоров"))
	require.NoError(t, err)

	h, _ := l.Get(id)
	h.DeathYear = models.Year(1943)
	require.NoError(t, l.Update(ctx, h))

	items := l.Items()
	require.Len(t, items, 2)
	assert.Equal(t, id, items[0].ID, "order must be preserved")
	assert.True(t, items[0].Found())
	assert.Equal(t, Succeeded, l.Status(OpUpdate(id)))

	require.NoError(t, l.Load(ctx))
	got, _ := l.Get(id)
	assert.Equal(t, 1943, *got.DeathYear)
}

func TestDelete_RemovesLocally(t *testing.T) {
	f := &fakeHeroes{}
	l := newHeroList(t, f)
	ctx := context.Background()

	id, err := l.Create(ctx, validHero("Петров"))
	require.NoError(t, err)

	require.NoError(t, l.Delete(ctx, id))
	assert.Empty(t, l.Items())
	_, ok := l.Get(id)
	assert.False(t, ok)
}

func TestDelete_NonExistentLeavesListUnchanged(t *testing.T) {
	f := &fakeHeroes{}
	l := newHeroList(t, f)
	ctx := context.Background()

	_, err := l.Create(ctx, validHero("Петров"))
	require.NoError(t, err)
	before := l.Items()

	err = l.Delete(ctx, 999)
	var rf *api.RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, http.StatusNotFound, rf.Status)
	assert.Equal(t, before, l.Items())
	assert.Equal(t, Failed, l.Status(OpDelete(999)))
}

func (f *fakeHeroes) failOn(method string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail == nil {
		f.fail = map[string]int{}
	}
	f.fail[method] = status
}

func (f *fakeHeroes) heal(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.fail, method)
}

func TestCreate_FailureLeavesListUnchanged(t *testing.T) {
	f := &fakeHeroes{}
	l := newHeroList(t, f)
	ctx := context.Background()

	_, err := l.Create(ctx, validHero("Петров"))
	require.NoError(t, err)
	before := l.Items()

	var notified int
	l.OnChange(func([]models.Hero) { notified++ })

	f.failOn(http.MethodPost, http.StatusInternalServerError)
	id, err := l.Create(ctx, validHero("Сидоров"))

	var rf *api.RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, http.StatusInternalServerError, rf.Status)
	assert.Zero(t, id)
	assert.Equal(t, before, l.Items())
	assert.Equal(t, Failed, l.Status(OpCreate))
	assert.Zero(t, notified)
}

func TestUpdate_FailureLeavesListUnchanged(t *testing.T) {
	f := &fakeHeroes{}
	l := newHeroList(t, f)
	ctx := context.Background()

	id, err := l.Create(ctx, validHero("Петров"))
	require.NoError(t, err)
	before := l.Items()

	changed := before[0]
	changed.Name = "Петров Пётр"
	f.failOn(http.MethodPut, http.StatusInternalServerError)
	err = l.Update(ctx, changed)

	var rf *api.RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, before, l.Items())
	assert.Equal(t, Failed, l.Status(OpUpdate(id)))

	unknown := validHero("Неизвестный")
	unknown.ID = 42
	f.heal(http.MethodPut)
	err = l.Update(ctx, unknown)
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, http.StatusNotFound, rf.Status)
	assert.Equal(t, before, l.Items())
	assert.Equal(t, Failed, l.Status(OpUpdate(42)))
}

func TestCreate_ReloadFailureReturnsID(t *testing.T) {
	f := &fakeHeroes{}
	l := newHeroList(t, f)
	ctx := context.Background()

	f.failOn(http.MethodGet, http.StatusServiceUnavailable)
	id, err := l.Create(ctx, validHero("Петров"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reload heroes after create")
	var rf *api.RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, http.StatusServiceUnavailable, rf.Status)
	assert.Equal(t, int64(1), id)
	assert.Empty(t, l.Items())
	assert.Equal(t, Succeeded, l.Status(OpCreate))

	f.heal(http.MethodGet)
	require.NoError(t, l.Load(ctx))
	_, ok := l.Get(id)
	assert.True(t, ok)
}

func TestCreate_ValidationSkipsNetwork(t *testing.T) {
	f := &fakeHeroes{}
	l := newHeroList(t, f)

	draft := validHero("")
	_, err := l.Create(context.Background(), draft)

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"name"}, ve.Fields)
	assert.Equal(t, int32(0), f.requests.Load())
	assert.Equal(t, Idle, l.Status(OpCreate))

	err = l.Update(context.Background(), models.Hero{ID: 1})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, int32(0), f.requests.Load())
}

func TestCreate_BusyWhilePending(t *testing.T) {
	f := &fakeHeroes{gate: make(chan struct{})}
	l := newHeroList(t, f)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := l.Create(ctx, validHero("Первый"))
		done <- err
	}()

	require.Eventually(t, func() bool { return l.Pending(OpCreate) }, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return f.requests.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	_, err := l.Create(ctx, validHero("Второй"))
	assert.True(t, errors.Is(err, ErrBusy))
	assert.Equal(t, int32(1), f.requests.Load(), "busy create must not reach the server")

	close(f.gate)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("first create did not finish")
	}
	assert.Equal(t, Succeeded, l.Status(OpCreate))
	assert.Len(t, l.Items(), 1)
}

func TestItems_ReturnsCopy(t *testing.T) {
	f := &fakeHeroes{}
	l := newHeroList(t, f)
	_, err := l.Create(context.Background(), validHero("Петров"))
	require.NoError(t, err)

	items := l.Items()
	items[0].Name = "changed"
	got, _ := l.Get(items[0].ID)
	assert.Equal(t, "Петров", got.Name)
}

func TestOpStatusString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "update:3", OpUpdate(3))
	assert.Equal(t, "delete:3", OpDelete(3))
}
