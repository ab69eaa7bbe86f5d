// Package repository provides PostgreSQL persistence for heroes, monuments,
// hero attachments and visitor submissions.
package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// rowsAffected maps an update or delete that touched nothing to ErrNotFound.
func rowsAffected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
