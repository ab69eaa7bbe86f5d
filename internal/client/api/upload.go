package api

import (
	"context"
	"encoding/base64"
	"errors"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/atinyakov/memorial/internal/models"
)

// UploadResult is the location of an uploaded file.
type UploadResult struct {
	// URL is the public address of the stored object.
	URL string `json:"url"`
	// Filename is the object key, e.g. "heroes/20240509_a1b2c3d4.jpg".
	Filename string `json:"filename"`
}

// UploadAPI groups the /upload endpoint.
type UploadAPI struct{ c *Client }

// UploadFile reads the file at path and stores it under folder.
func (a *UploadAPI) UploadFile(ctx context.Context, path, folder string) (UploadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return UploadResult{}, &ReadFailedError{Path: path, Err: err}
	}
	name := filepath.Base(path)

	var out UploadResult
	err = a.c.doJSON(ctx, call{
		resource: "upload",
		method:   http.MethodPost,
		path:     "/upload",
		body: map[string]string{
			"file":        base64.StdEncoding.EncodeToString(data),
			"filename":    name,
			"contentType": contentType(name, data),
			"folder":      folder,
		},
	}, &out)
	if err != nil {
		var rf *RequestFailedError
		if errors.As(err, &rf) {
			return UploadResult{}, &UploadFailedError{Filename: name, Status: rf.Status, Message: rf.Message}
		}
		return UploadResult{}, err
	}
	return out, nil
}

// contentType guesses by extension first and falls back to sniffing.
func contentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}

// FilesAPI groups the /files endpoints for per-hero attachments.
type FilesAPI struct{ c *Client }

// List returns the attachments of a hero, newest first.
func (a *FilesAPI) List(ctx context.Context, heroID int64) ([]models.HeroFile, error) {
	var out []models.HeroFile
	if err := a.c.doJSON(ctx, call{
		resource: "files",
		method:   http.MethodGet,
		path:     "/files",
		query:    idQuery("hero_id", heroID),
	}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.HeroFile{}
	}
	return out, nil
}

// Attach uploads the file at path as an attachment of the hero.
// fileType is "photo" or "document".
func (a *FilesAPI) Attach(ctx context.Context, heroID int64, path, fileType string) (models.HeroFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.HeroFile{}, &ReadFailedError{Path: path, Err: err}
	}

	var out models.HeroFile
	err = a.c.doJSON(ctx, call{
		resource: "files",
		method:   http.MethodPost,
		path:     "/files",
		body: map[string]any{
			"hero_id":   heroID,
			"file_name": filepath.Base(path),
			"file_type": fileType,
			"file_data": base64.StdEncoding.EncodeToString(data),
		},
	}, &out)
	return out, err
}

// Delete removes an attachment.
func (a *FilesAPI) Delete(ctx context.Context, id int64) error {
	return a.c.doJSON(ctx, call{
		resource: "files",
		method:   http.MethodDelete,
		path:     "/files",
		query:    idQuery("id", id),
	}, nil)
}
