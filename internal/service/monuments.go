package service

import (
	"context"

	"github.com/atinyakov/memorial/internal/models"
)

// MonumentRepository defines the persistence operations needed by MonumentService.
type MonumentRepository interface {
	List(ctx context.Context) ([]models.Monument, error)
	Get(ctx context.Context, id int64) (models.Monument, error)
	Create(ctx context.Context, m models.Monument) (int64, error)
	Update(ctx context.Context, m models.Monument) error
	Delete(ctx context.Context, id int64) error
}

// MonumentService implements the monument catalogue operations.
type MonumentService struct {
	repo MonumentRepository
}

func NewMonumentService(repo MonumentRepository) *MonumentService {
	return &MonumentService{repo: repo}
}

func (s *MonumentService) List(ctx context.Context) ([]models.Monument, error) {
	return s.repo.List(ctx)
}

// Get returns the monument with its photo gallery.
func (s *MonumentService) Get(ctx context.Context, id int64) (models.Monument, error) {
	return s.repo.Get(ctx, id)
}

func (s *MonumentService) Create(ctx context.Context, m models.Monument) (int64, error) {
	m.ID = 0
	if err := m.Validate(); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, m)
}

func (s *MonumentService) Update(ctx context.Context, m models.Monument) error {
	if m.ID == 0 {
		return ErrMissingID
	}
	if err := m.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, m)
}

func (s *MonumentService) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return ErrMissingID
	}
	return s.repo.Delete(ctx, id)
}
