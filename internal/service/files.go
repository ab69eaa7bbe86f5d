package service

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/memorial/internal/models"
)

// FileRepository stores attachment metadata.
type FileRepository interface {
	List(ctx context.Context, heroID int64) ([]models.HeroFile, error)
	Create(ctx context.Context, f models.HeroFile, objectKey string) (models.HeroFile, error)
	// Delete returns the object key of the removed row.
	Delete(ctx context.Context, id int64) (string, error)
}

// AttachRequest is the body of POST /files.
type AttachRequest struct {
	HeroID   int64  `json:"hero_id"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileData string `json:"file_data"`
}

// FileService manages files attached to heroes.
type FileService struct {
	repo  FileRepository
	store ObjectStore
	log   *zap.Logger
}

func NewFileService(repo FileRepository, store ObjectStore, log *zap.Logger) *FileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileService{repo: repo, store: store, log: log}
}

// List returns the files of heroID, or every file when heroID is 0.
func (s *FileService) List(ctx context.Context, heroID int64) ([]models.HeroFile, error) {
	return s.repo.List(ctx, heroID)
}

// Attach stores the payload under files/<uuid>_<name> and records it.
// The object is removed again when the row cannot be written.
func (s *FileService) Attach(ctx context.Context, req AttachRequest) (models.HeroFile, error) {
	if req.HeroID == 0 || req.FileName == "" || req.FileType == "" || req.FileData == "" {
		return models.HeroFile{}, fmt.Errorf("%w: missing required fields", ErrInvalidInput)
	}
	data, err := decodeBase64(req.FileData)
	if err != nil {
		return models.HeroFile{}, err
	}

	name := path.Base(strings.ReplaceAll(req.FileName, "\\", "/"))
	key := "files/" + uuid.NewString() + "_" + name
	if err := s.store.Put(ctx, key, bytes.NewReader(data), mime.TypeByExtension(path.Ext(name))); err != nil {
		return models.HeroFile{}, err
	}

	f, err := s.repo.Create(ctx, models.HeroFile{
		HeroID:   req.HeroID,
		FileName: req.FileName,
		FileType: req.FileType,
		FileURL:  s.store.URL(key),
	}, key)
	if err != nil {
		if derr := s.store.Delete(ctx, key); derr != nil {
			s.log.Warn("failed to remove object of unsaved file", zap.String("key", key), zap.Error(derr))
		}
		return models.HeroFile{}, err
	}
	return f, nil
}

// Delete removes the row and then its object. A failed object removal is
// only logged; the row is already gone.
func (s *FileService) Delete(ctx context.Context, id int64) error {
	key, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if key == "" {
		return nil
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Warn("failed to remove file object", zap.Int64("id", id), zap.String("key", key), zap.Error(err))
	}
	return nil
}
