package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// ObjectRemover deletes stored file payloads by key.
type ObjectRemover interface {
	Delete(ctx context.Context, key string) error
}

// StartOrphanFileCleaner periodically removes hero_files rows whose hero no
// longer exists, then deletes their stored objects through remover (may be nil).
func StartOrphanFileCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	remover ObjectRemover,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := cleanOrphanFiles(ctx, db, remover, log)
				if err != nil {
					log.Error("failed to clean orphan hero files", zap.Error(err))
					continue
				}
				if removed > 0 {
					log.Info("cleaned orphan hero files", zap.Int("removed", removed))
				}
			}
		}
	}()
}

func cleanOrphanFiles(ctx context.Context, db *sql.DB, remover ObjectRemover, log *zap.Logger) (int, error) {
	rows, err := db.QueryContext(ctx, `
		DELETE FROM hero_files f
		 WHERE NOT EXISTS (SELECT 1 FROM heroes h WHERE h.id = f.hero_id)
		RETURNING object_key
	`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return 0, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if remover != nil {
		for _, key := range keys {
			if key == "" {
				continue
			}
			if err := remover.Delete(ctx, key); err != nil {
				log.Warn("failed to delete orphan object", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return len(keys), nil
}
