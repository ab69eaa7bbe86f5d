package service

import (
	"context"

	"github.com/atinyakov/memorial/internal/models"
)

// SubmissionRepository persists visitor submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, s models.Submission) (int64, error)
}

// SubmissionService accepts materials for moderation.
type SubmissionService struct {
	repo SubmissionRepository
}

func NewSubmissionService(repo SubmissionRepository) *SubmissionService {
	return &SubmissionService{repo: repo}
}

// Submit validates s and queues it with status "pending".
func (s *SubmissionService) Submit(ctx context.Context, sub models.Submission) (int64, error) {
	if err := sub.Validate(); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, sub)
}
