package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/memorial/internal/models"
)

// PostgresMonumentRepository stores monuments and their photo galleries.
type PostgresMonumentRepository struct {
	DB *sql.DB
}

// NewPostgresMonumentRepository creates a repository over db.
func NewPostgresMonumentRepository(db *sql.DB) *PostgresMonumentRepository {
	return &PostgresMonumentRepository{DB: db}
}

const monumentColumns = `id, name, type, description, location, settlement, address, coordinates, establishment_year, architect, image_url, history`

func scanMonument(row rowScanner) (models.Monument, error) {
	var m models.Monument
	err := row.Scan(&m.ID, &m.Name, &m.Type, &m.Description, &m.Location, &m.Settlement,
		&m.Address, &m.Coordinates, &m.EstablishmentYear, &m.Architect, &m.ImageURL, &m.History)
	return m, err
}

func monumentArgs(m models.Monument) []any {
	return []any{m.Name, m.Type, m.Description, m.Location, m.Settlement, m.Address,
		m.Coordinates, m.EstablishmentYear, m.Architect, m.ImageURL, m.History}
}

// List returns all monuments ordered by id, without photos.
func (r *PostgresMonumentRepository) List(ctx context.Context) ([]models.Monument, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+monumentColumns+` FROM monuments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list monuments: %w", err)
	}
	defer rows.Close()

	monuments := []models.Monument{}
	for rows.Next() {
		m, err := scanMonument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan monument: %w", err)
		}
		monuments = append(monuments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list monuments: %w", err)
	}
	return monuments, nil
}

// Get returns the monument with its photos, newest first, or ErrNotFound.
func (r *PostgresMonumentRepository) Get(ctx context.Context, id int64) (models.Monument, error) {
	m, err := scanMonument(r.DB.QueryRowContext(ctx, `SELECT `+monumentColumns+` FROM monuments WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Monument{}, ErrNotFound
	}
	if err != nil {
		return models.Monument{}, fmt.Errorf("get monument %d: %w", id, err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, title, photo_url, description, photo_year
		  FROM monument_photos
		 WHERE monument_id = $1
		 ORDER BY upload_date DESC
	`, id)
	if err != nil {
		return models.Monument{}, fmt.Errorf("list photos of monument %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.MonumentPhoto
		if err := rows.Scan(&p.ID, &p.Title, &p.PhotoURL, &p.Description, &p.PhotoYear); err != nil {
			return models.Monument{}, fmt.Errorf("scan photo: %w", err)
		}
		m.Photos = append(m.Photos, p)
	}
	if err := rows.Err(); err != nil {
		return models.Monument{}, fmt.Errorf("list photos of monument %d: %w", id, err)
	}
	return m, nil
}

// Create inserts m and returns the new id. Photos are not stored.
func (r *PostgresMonumentRepository) Create(ctx context.Context, m models.Monument) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO monuments (name, type, description, location, settlement, address, coordinates,
			establishment_year, architect, image_url, history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, monumentArgs(m)...).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert monument: %w", err)
	}
	return id, nil
}

// Update overwrites the monument with m.ID.
func (r *PostgresMonumentRepository) Update(ctx context.Context, m models.Monument) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE monuments SET name = $1, type = $2, description = $3, location = $4, settlement = $5,
			address = $6, coordinates = $7, establishment_year = $8, architect = $9, image_url = $10,
			history = $11, updated_at = now()
		WHERE id = $12
	`, append(monumentArgs(m), m.ID)...)
	if err != nil {
		return fmt.Errorf("update monument %d: %w", m.ID, err)
	}
	return rowsAffected(res.RowsAffected())
}

// Delete removes the monument; its photos go with it.
func (r *PostgresMonumentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM monuments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete monument %d: %w", id, err)
	}
	return rowsAffected(res.RowsAffected())
}
