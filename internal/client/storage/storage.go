// Package storage provides the client's durable key-value store: a JSON file
// that survives restarts and reports changes made by other processes.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// DefaultFile is the storage file name used when none is configured.
const DefaultFile = "storage.json"

// fileFormat is the on-disk layout.
type fileFormat struct {
	Entries map[string]string `json:"entries"`
}

// FileStore is a string-to-string map persisted to a single JSON file.
// Every mutation is written to disk before the call returns.
type FileStore struct {
	path string
	log  *zap.Logger

	mu      sync.Mutex
	entries map[string]string

	subMu   sync.Mutex
	subs    map[int]func(changed []string)
	nextSub int
}

// Open loads the store at path. A missing file yields an empty store.
func Open(path string, log *zap.Logger) (*FileStore, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &FileStore{
		path:    abs,
		log:     log,
		entries: map[string]string{},
		subs:    map[int]func([]string){},
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the absolute path of the backing file.
func (s *FileStore) Path() string { return s.path }

// Load replaces the in-memory entries with the file contents.
func (s *FileStore) Load() error {
	entries, err := readFile(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read storage: %w", err)
	}
	var f fileFormat
	if len(data) > 0 {
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode storage: %w", err)
		}
	}
	if f.Entries == nil {
		f.Entries = map[string]string{}
	}
	return f.Entries, nil
}

// save must be called with s.mu held.
func (s *FileStore) save() error {
	data, err := json.MarshalIndent(fileFormat{Entries: s.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".storage-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write storage: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace storage: %w", err)
	}
	return nil
}

// Get returns the value stored under key.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok
}

// Set stores a single value.
func (s *FileStore) Set(key, value string) error {
	return s.SetMany(map[string]string{key: value})
}

// SetMany stores all values with a single write.
func (s *FileStore) SetMany(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := cloneEntries(s.entries)
	for k, v := range values {
		s.entries[k] = v
	}
	if err := s.save(); err != nil {
		s.entries = prev
		return err
	}
	return nil
}

// Delete removes keys with a single write. Missing keys are ignored.
func (s *FileStore) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := cloneEntries(s.entries)
	for _, k := range keys {
		delete(s.entries, k)
	}
	if err := s.save(); err != nil {
		s.entries = prev
		return err
	}
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *FileStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reload re-reads the file and notifies subscribers about keys whose values
// differ from memory. It returns the changed keys.
func (s *FileStore) Reload() ([]string, error) {
	fresh, err := readFile(s.path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	changed := diffKeys(s.entries, fresh)
	s.entries = fresh
	s.mu.Unlock()

	if len(changed) > 0 {
		s.notify(changed)
	}
	return changed, nil
}

// Subscribe registers fn to be called with the changed keys after an external
// modification is picked up by Reload. The returned func unsubscribes.
func (s *FileStore) Subscribe(fn func(changed []string)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *FileStore) notify(changed []string) {
	s.subMu.Lock()
	fns := make([]func([]string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(changed)
	}
}

func cloneEntries(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func diffKeys(old, fresh map[string]string) []string {
	var changed []string
	for k, v := range old {
		if nv, ok := fresh[k]; !ok || nv != v {
			changed = append(changed, k)
		}
	}
	for k := range fresh {
		if _, ok := old[k]; !ok {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}
