package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch observes the storage file for modifications made by other processes
// and calls Reload for each one. It returns once the watcher is set up; the
// watcher stops when ctx is cancelled.
func (s *FileStore) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: saves replace the file by rename, which drops
	// a watch placed on the file itself.
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	go s.watchLoop(ctx, w)
	return nil
}

func (s *FileStore) watchLoop(ctx context.Context, w *fsnotify.Watcher) {
	defer func() {
		if err := w.Close(); err != nil {
			s.log.Warn("close storage watcher", zap.Error(err))
		}
	}()

	base := filepath.Base(s.path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			changed, err := s.Reload()
			if err != nil {
				// A writer may be mid-write; the next event retries.
				s.log.Warn("reload storage", zap.String("path", s.path), zap.Error(err))
				continue
			}
			if len(changed) > 0 {
				s.log.Debug("storage changed externally", zap.Strings("keys", changed))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Error("storage watcher", zap.Error(err))
		}
	}
}
