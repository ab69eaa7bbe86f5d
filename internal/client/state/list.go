// Package state keeps the client's in-memory copy of server collections and
// reconciles it after each mutation.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/memorial/internal/client/api"
	"github.com/atinyakov/memorial/internal/models"
)

// ErrBusy is returned when the same operation is already in flight.
var ErrBusy = errors.New("operation already in progress")

// Resource is the remote collection a List mirrors.
type Resource[T models.Entity] interface {
	GetAll(ctx context.Context) ([]T, error)
	Create(ctx context.Context, draft T) (int64, error)
	Update(ctx context.Context, item T) error
	Delete(ctx context.Context, id int64) error
}

// OpStatus is the lifecycle of one operation key.
type OpStatus int

const (
	Idle OpStatus = iota
	Pending
	Succeeded
	Failed
)

func (s OpStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Operation keys.
const (
	OpLoad   = "load"
	OpCreate = "create"
)

// OpUpdate returns the status key of an update of id.
func OpUpdate(id int64) string { return fmt.Sprintf("update:%d", id) }

// OpDelete returns the status key of a delete of id.
func OpDelete(id int64) string { return fmt.Sprintf("delete:%d", id) }

// List mirrors a server collection. Items keep server order.
// The mutex is never held across a network call.
type List[T models.Entity] struct {
	res  Resource[T]
	name string
	log  *zap.Logger

	mu     sync.Mutex
	items  []T
	status map[string]OpStatus

	lmu       sync.Mutex
	listeners map[int]func([]T)
	nextID    int
}

// New creates an empty list over res. name is used in log lines.
func New[T models.Entity](name string, res Resource[T], log *zap.Logger) *List[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &List[T]{
		res:       res,
		name:      name,
		log:       log,
		status:    map[string]OpStatus{},
		listeners: map[int]func([]T){},
	}
}

// NewHeroes returns the hero list backed by c.
func NewHeroes(c *api.Client, log *zap.Logger) *List[models.Hero] {
	return New[models.Hero]("heroes", c.Heroes(), log)
}

// NewMonuments returns the monument list backed by c.
func NewMonuments(c *api.Client, log *zap.Logger) *List[models.Monument] {
	return New[models.Monument]("monuments", c.Monuments(), log)
}

// Items returns a copy of the current items.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Get returns the item with the given id.
func (l *List[T]) Get(id int64) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, it := range l.items {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Status returns the status of an operation key.
func (l *List[T]) Status(key string) OpStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status[key]
}

// Pending reports whether the operation key is in flight.
func (l *List[T]) Pending(key string) bool {
	return l.Status(key) == Pending
}

// OnChange registers fn to receive a copy of the items after every
// successful reconcile. The returned func unregisters it.
func (l *List[T]) OnChange(fn func([]T)) func() {
	l.lmu.Lock()
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	l.lmu.Unlock()
	return func() {
		l.lmu.Lock()
		delete(l.listeners, id)
		l.lmu.Unlock()
	}
}

// Load replaces the items with the server's collection.
func (l *List[T]) Load(ctx context.Context) error {
	if err := l.begin(OpLoad); err != nil {
		return err
	}
	err := l.reload(ctx)
	l.finish(OpLoad, err)
	return err
}

// Create validates draft, creates it on the server and reloads the whole
// collection. Invalid drafts never reach the network. If the create
// succeeds but the reload fails, the new id is returned with the error.
func (l *List[T]) Create(ctx context.Context, draft T) (int64, error) {
	if err := draft.Validate(); err != nil {
		return 0, err
	}
	if err := l.begin(OpCreate); err != nil {
		return 0, err
	}

	id, err := l.res.Create(ctx, draft)
	if err != nil {
		l.finish(OpCreate, err)
		return 0, err
	}
	l.log.Info("created", zap.String("resource", l.name), zap.Int64("id", id))

	if err := l.reload(ctx); err != nil {
		l.finish(OpCreate, nil)
		return id, fmt.Errorf("reload %s after create: %w", l.name, err)
	}
	l.finish(OpCreate, nil)
	return id, nil
}

// Update validates item, sends it to the server and replaces the local
// copy with the same id.
func (l *List[T]) Update(ctx context.Context, item T) error {
	if err := item.Validate(); err != nil {
		return err
	}
	key := OpUpdate(item.EntityID())
	if err := l.begin(key); err != nil {
		return err
	}

	if err := l.res.Update(ctx, item); err != nil {
		l.finish(key, err)
		return err
	}

	l.mu.Lock()
	for i := range l.items {
		if l.items[i].EntityID() == item.EntityID() {
			l.items[i] = item
			break
		}
	}
	l.mu.Unlock()

	l.finish(key, nil)
	l.notify()
	return nil
}

// Delete removes the item on the server and then locally.
func (l *List[T]) Delete(ctx context.Context, id int64) error {
	key := OpDelete(id)
	if err := l.begin(key); err != nil {
		return err
	}

	if err := l.res.Delete(ctx, id); err != nil {
		l.finish(key, err)
		return err
	}

	l.mu.Lock()
	kept := make([]T, 0, len(l.items))
	for _, it := range l.items {
		if it.EntityID() != id {
			kept = append(kept, it)
		}
	}
	l.items = kept
	l.mu.Unlock()

	l.finish(key, nil)
	l.notify()
	return nil
}

func (l *List[T]) reload(ctx context.Context) error {
	items, err := l.res.GetAll(ctx)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
	l.notify()
	return nil
}

func (l *List[T]) begin(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status[key] == Pending {
		return fmt.Errorf("%s %s: %w", l.name, key, ErrBusy)
	}
	l.status[key] = Pending
	return nil
}

func (l *List[T]) finish(key string, err error) {
	l.mu.Lock()
	if err != nil {
		l.status[key] = Failed
	} else {
		l.status[key] = Succeeded
	}
	l.mu.Unlock()
	if err != nil {
		l.log.Warn("operation failed", zap.String("resource", l.name), zap.String("op", key), zap.Error(err))
	}
}

func (l *List[T]) notify() {
	items := l.Items()
	l.lmu.Lock()
	fns := make([]func([]T), 0, len(l.listeners))
	for _, fn := range l.listeners {
		fns = append(fns, fn)
	}
	l.lmu.Unlock()
	for _, fn := range fns {
		fn(items)
	}
}
