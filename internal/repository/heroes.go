package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/atinyakov/memorial/internal/models"
)

// PostgresHeroRepository stores heroes in the heroes table.
type PostgresHeroRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresHeroRepository creates a repository over db.
func NewPostgresHeroRepository(db *sql.DB) *PostgresHeroRepository {
	return &PostgresHeroRepository{DB: db}
}

const heroColumns = `id, name, birth_year, death_year, rank, unit, awards, hometown, region, photo, documents`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHero(row rowScanner) (models.Hero, error) {
	var (
		h    models.Hero
		docs []byte
	)
	err := row.Scan(&h.ID, &h.Name, &h.BirthYear, &h.DeathYear, &h.Rank, &h.Unit,
		pq.Array(&h.Awards), &h.Hometown, &h.Region, &h.Photo, &docs)
	if err != nil {
		return h, err
	}
	if h.Awards == nil {
		h.Awards = []string{}
	}
	if len(docs) > 0 {
		if err := json.Unmarshal(docs, &h.Documents); err != nil {
			return h, fmt.Errorf("decode documents of hero %d: %w", h.ID, err)
		}
	}
	return h, nil
}

// heroArgs returns the column values written on insert and update.
func heroArgs(h models.Hero) ([]any, error) {
	awards := h.Awards
	if awards == nil {
		awards = []string{}
	}
	docs := h.Documents
	if docs == nil {
		docs = []models.Document{}
	}
	docJSON, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("encode documents: %w", err)
	}
	return []any{h.Name, h.BirthYear, h.DeathYear, h.Rank, h.Unit, pq.Array(awards),
		h.Hometown, h.Region, h.Photo, string(docJSON)}, nil
}

// List returns all heroes ordered by id.
func (r *PostgresHeroRepository) List(ctx context.Context) ([]models.Hero, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+heroColumns+` FROM heroes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list heroes: %w", err)
	}
	defer rows.Close()

	heroes := []models.Hero{}
	for rows.Next() {
		h, err := scanHero(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hero: %w", err)
		}
		heroes = append(heroes, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list heroes: %w", err)
	}
	return heroes, nil
}

// Get returns the hero with the given id or ErrNotFound.
func (r *PostgresHeroRepository) Get(ctx context.Context, id int64) (models.Hero, error) {
	h, err := scanHero(r.DB.QueryRowContext(ctx, `SELECT `+heroColumns+` FROM heroes WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Hero{}, ErrNotFound
	}
	if err != nil {
		return models.Hero{}, fmt.Errorf("get hero %d: %w", id, err)
	}
	return h, nil
}

// Create inserts h and returns the new id.
func (r *PostgresHeroRepository) Create(ctx context.Context, h models.Hero) (int64, error) {
	args, err := heroArgs(h)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO heroes (name, birth_year, death_year, rank, unit, awards, hometown, region, photo, documents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, args...).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert hero: %w", err)
	}
	return id, nil
}

// Update overwrites every column of the hero with h.ID.
func (r *PostgresHeroRepository) Update(ctx context.Context, h models.Hero) error {
	args, err := heroArgs(h)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE heroes SET name = $1, birth_year = $2, death_year = $3, rank = $4, unit = $5,
			awards = $6, hometown = $7, region = $8, photo = $9, documents = $10, updated_at = now()
		WHERE id = $11
	`, append(args, h.ID)...)
	if err != nil {
		return fmt.Errorf("update hero %d: %w", h.ID, err)
	}
	return rowsAffected(res.RowsAffected())
}

// Delete removes the hero. Its attachments are left to the orphan cleaner.
func (r *PostgresHeroRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM heroes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete hero %d: %w", id, err)
	}
	return rowsAffected(res.RowsAffected())
}
