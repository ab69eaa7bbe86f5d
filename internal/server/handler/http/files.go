package http

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/memorial/internal/models"
	"github.com/atinyakov/memorial/internal/service"
)

// UploadService stores a single base64 upload.
type UploadService interface {
	Upload(ctx context.Context, req service.UploadRequest) (service.UploadResult, error)
}

// FileService manages hero attachments.
type FileService interface {
	List(ctx context.Context, heroID int64) ([]models.HeroFile, error)
	Attach(ctx context.Context, req service.AttachRequest) (models.HeroFile, error)
	Delete(ctx context.Context, id int64) error
}

// SubmissionService queues visitor materials.
type SubmissionService interface {
	Submit(ctx context.Context, s models.Submission) (int64, error)
}

// FileHandler serves /upload and /files.
type FileHandler struct {
	UploadService UploadService
	FileService   FileService
	Log           *zap.Logger
}

// Upload handles POST /upload.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req service.UploadRequest
	if !decode(w, r, &req) {
		return
	}
	if req.File == "" {
		writeError(w, http.StatusBadRequest, "File data is required")
		return
	}
	res, err := h.UploadService.Upload(r.Context(), req)
	if err != nil {
		writeServiceError(w, nopIfNil(h.Log), err, "", "Upload failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"url":      res.URL,
		"filename": res.Filename,
		"message":  "File uploaded successfully",
	})
}

// List handles GET /files[?hero_id=].
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	heroID, _, err := queryID(r, "hero_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hero_id")
		return
	}
	files, err := h.FileService.List(r.Context(), heroID)
	if err != nil {
		writeServiceError(w, nopIfNil(h.Log), err, "", "Failed to list files")
		return
	}
	writeJSON(w, http.StatusOK, files)
}

// Attach handles POST /files and answers 201 with the stored metadata.
func (h *FileHandler) Attach(w http.ResponseWriter, r *http.Request) {
	var req service.AttachRequest
	if !decode(w, r, &req) {
		return
	}
	if req.HeroID == 0 || strings.TrimSpace(req.FileName) == "" || req.FileType == "" || req.FileData == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	f, err := h.FileService.Attach(r.Context(), req)
	if err != nil {
		writeServiceError(w, nopIfNil(h.Log), err, "", "Failed to attach file")
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// Delete handles DELETE /files?id=.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok, err := queryID(r, "id")
	if err != nil || !ok {
		writeError(w, http.StatusBadRequest, "Missing file ID")
		return
	}
	if err := h.FileService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, nopIfNil(h.Log), err, "File not found", "Failed to delete file")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// SubmissionHandler serves /submissions.
type SubmissionHandler struct {
	SubmissionService SubmissionService
	Log               *zap.Logger
}

// Submit handles POST /submissions.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var sub models.Submission
	if !decode(w, r, &sub) {
		return
	}
	if err := sub.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Hero name and email are required")
		return
	}
	id, err := h.SubmissionService.Submit(r.Context(), sub)
	if err != nil {
		writeServiceError(w, nopIfNil(h.Log), err, "", "Failed to save submission")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"submissionId": id,
		"message":      "Материалы успешно отправлены на модерацию",
	})
}
