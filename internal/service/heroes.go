// Package service holds the memorial business rules between HTTP handlers
// and persistence: validation, defaults, credentials, tokens and uploads.
package service

import (
	"context"
	"errors"

	"github.com/atinyakov/memorial/internal/models"
	"github.com/atinyakov/memorial/internal/search"
)

var (
	// ErrMissingID is returned by updates without a record id.
	ErrMissingID = errors.New("id required")
	// ErrInvalidInput marks malformed request payloads.
	ErrInvalidInput = errors.New("invalid input")
)

// HeroRepository defines the persistence operations needed by HeroService.
type HeroRepository interface {
	List(ctx context.Context) ([]models.Hero, error)
	// Get returns repository.ErrNotFound for unknown ids.
	Get(ctx context.Context, id int64) (models.Hero, error)
	Create(ctx context.Context, h models.Hero) (int64, error)
	Update(ctx context.Context, h models.Hero) error
	Delete(ctx context.Context, id int64) error
}

// HeroService implements the hero registry operations.
type HeroService struct {
	repo HeroRepository
}

// NewHeroService constructs a HeroService over repo.
func NewHeroService(repo HeroRepository) *HeroService {
	return &HeroService{repo: repo}
}

func (s *HeroService) List(ctx context.Context) ([]models.Hero, error) {
	return s.repo.List(ctx)
}

func (s *HeroService) Get(ctx context.Context, id int64) (models.Hero, error) {
	return s.repo.Get(ctx, id)
}

// Create validates h, fills the default region and stores it.
// A client supplied id is ignored.
func (s *HeroService) Create(ctx context.Context, h models.Hero) (int64, error) {
	h.ID = 0
	if err := h.Validate(); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, normalizeHero(h))
}

// Update replaces the hero identified by h.ID.
func (s *HeroService) Update(ctx context.Context, h models.Hero) error {
	if h.ID == 0 {
		return ErrMissingID
	}
	if err := h.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, normalizeHero(h))
}

func (s *HeroService) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return ErrMissingID
	}
	return s.repo.Delete(ctx, id)
}

func normalizeHero(h models.Hero) models.Hero {
	if h.Region == "" {
		h.Region = models.DefaultRegion
	}
	if h.Awards == nil {
		h.Awards = []string{}
	}
	return h
}

// Stats summarises the registry for the home page.
type Stats struct {
	Total   int `json:"total"`
	Found   int `json:"found"`
	Missing int `json:"missing"`
}

// Stats counts heroes by fate.
func (s *HeroService) Stats(ctx context.Context) (Stats, error) {
	heroes, err := s.repo.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := search.Summarize(heroes)
	return Stats{Total: st.Total, Found: st.Found, Missing: st.Missing}, nil
}
