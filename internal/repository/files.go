package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/memorial/internal/models"
)

// PostgresFileRepository stores attachment metadata in hero_files.
// The payload itself lives in blob storage under ObjectKey.
type PostgresFileRepository struct {
	DB *sql.DB
}

// NewPostgresFileRepository creates a repository over db.
func NewPostgresFileRepository(db *sql.DB) *PostgresFileRepository {
	return &PostgresFileRepository{DB: db}
}

// List returns the files of a hero, newest first. heroID 0 lists every file.
func (r *PostgresFileRepository) List(ctx context.Context, heroID int64) ([]models.HeroFile, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if heroID > 0 {
		rows, err = r.DB.QueryContext(ctx, `
			SELECT id, hero_id, file_name, file_type, file_url, uploaded_at
			  FROM hero_files WHERE hero_id = $1 ORDER BY uploaded_at DESC
		`, heroID)
	} else {
		rows, err = r.DB.QueryContext(ctx, `
			SELECT id, hero_id, file_name, file_type, file_url, uploaded_at
			  FROM hero_files ORDER BY uploaded_at DESC
		`)
	}
	if err != nil {
		return nil, fmt.Errorf("list hero files: %w", err)
	}
	defer rows.Close()

	files := []models.HeroFile{}
	for rows.Next() {
		var (
			f  models.HeroFile
			at time.Time
		)
		if err := rows.Scan(&f.ID, &f.HeroID, &f.FileName, &f.FileType, &f.FileURL, &at); err != nil {
			return nil, fmt.Errorf("scan hero file: %w", err)
		}
		f.UploadedAt = formatTime(at)
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list hero files: %w", err)
	}
	return files, nil
}

// Create inserts the metadata and fills ID and UploadedAt.
func (r *PostgresFileRepository) Create(ctx context.Context, f models.HeroFile, objectKey string) (models.HeroFile, error) {
	var at time.Time
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO hero_files (hero_id, file_name, file_type, file_url, object_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, uploaded_at
	`, f.HeroID, f.FileName, f.FileType, f.FileURL, objectKey).Scan(&f.ID, &at)
	if err != nil {
		return models.HeroFile{}, fmt.Errorf("insert hero file: %w", err)
	}
	f.UploadedAt = formatTime(at)
	return f, nil
}

// Delete removes the row and returns the object key of its payload.
func (r *PostgresFileRepository) Delete(ctx context.Context, id int64) (string, error) {
	var key string
	err := r.DB.QueryRowContext(ctx, `DELETE FROM hero_files WHERE id = $1 RETURNING object_key`, id).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("delete hero file %d: %w", id, err)
	}
	return key, nil
}

// PostgresSubmissionRepository stores visitor submissions for moderation.
type PostgresSubmissionRepository struct {
	DB *sql.DB
}

// NewPostgresSubmissionRepository creates a repository over db.
func NewPostgresSubmissionRepository(db *sql.DB) *PostgresSubmissionRepository {
	return &PostgresSubmissionRepository{DB: db}
}

// Create stores s with status "pending" and returns its id.
func (r *PostgresSubmissionRepository) Create(ctx context.Context, s models.Submission) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO submissions (hero_name, relationship, document_type, description, year, email, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING id
	`, s.HeroName, s.Relationship, s.DocumentType, s.Description, s.Year, s.Email).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert submission: %w", err)
	}
	return id, nil
}
