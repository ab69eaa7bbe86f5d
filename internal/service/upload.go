package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultFolder is the upload folder used when the request names none.
const DefaultFolder = "general"

// ObjectStore is the blob storage used for uploaded payloads.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// UploadRequest is the body of POST /upload.
type UploadRequest struct {
	File        string `json:"file"` // base64
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Folder      string `json:"folder"`
}

// UploadResult describes a stored upload.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// UploadService stores base64 payloads under generated keys.
type UploadService struct {
	store ObjectStore
	now   func() time.Time
}

func NewUploadService(store ObjectStore) *UploadService {
	return &UploadService{store: store, now: time.Now}
}

// Upload decodes req.File and stores it as folder/YYYYMMDD_xxxxxxxx.ext.
func (s *UploadService) Upload(ctx context.Context, req UploadRequest) (UploadResult, error) {
	if req.File == "" {
		return UploadResult{}, fmt.Errorf("%w: file data is required", ErrInvalidInput)
	}
	data, err := decodeBase64(req.File)
	if err != nil {
		return UploadResult{}, err
	}

	folder := strings.Trim(req.Folder, "/")
	if folder == "" {
		folder = DefaultFolder
	}
	key := fmt.Sprintf("%s/%s_%s.%s", folder, s.now().Format("20060102"), shortID(), extension(req.Filename))

	if err := s.store.Put(ctx, key, bytes.NewReader(data), req.ContentType); err != nil {
		return UploadResult{}, err
	}
	return UploadResult{URL: s.store.URL(key), Filename: key}, nil
}

// decodeBase64 accepts plain base64 and data URLs.
func decodeBase64(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: file is not valid base64", ErrInvalidInput)
	}
	return data, nil
}

func extension(filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		return "jpg"
	}
	return ext
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
