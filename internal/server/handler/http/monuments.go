package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/memorial/internal/models"
)

// MonumentService defines the monument operations required by MonumentHandler.
type MonumentService interface {
	List(ctx context.Context) ([]models.Monument, error)
	Get(ctx context.Context, id int64) (models.Monument, error)
	Create(ctx context.Context, m models.Monument) (int64, error)
	Update(ctx context.Context, m models.Monument) error
	Delete(ctx context.Context, id int64) error
}

// MonumentHandler serves /monuments.
type MonumentHandler struct {
	MonumentService MonumentService
	Log             *zap.Logger
}

// Get returns {"monuments": [...]} or, with ?id=, one monument with photos.
func (h *MonumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := nopIfNil(h.Log)
	id, ok, err := queryID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	if ok {
		m, err := h.MonumentService.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, log, err, "Monument not found", "Failed to load monument")
			return
		}
		writeJSON(w, http.StatusOK, m)
		return
	}

	monuments, err := h.MonumentService.List(r.Context())
	if err != nil {
		writeServiceError(w, log, err, "Monument not found", "Failed to load monuments")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"monuments": monuments})
}

func (h *MonumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var m models.Monument
	if !decode(w, r, &m) {
		return
	}
	id, err := h.MonumentService.Create(r.Context(), m)
	if err != nil {
		writeServiceError(w, nopIfNil(h.Log), err, "Monument not found", "Failed to create monument")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "message": "Monument created"})
}

func (h *MonumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var m models.Monument
	if !decode(w, r, &m) {
		return
	}
	if err := h.MonumentService.Update(r.Context(), m); err != nil {
		writeServiceError(w, nopIfNil(h.Log), err, "Monument not found", "Failed to update monument")
		return
	}
	writeMessage(w, http.StatusOK, "Monument updated")
}

// Delete removes the monument and its photos.
func (h *MonumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok, err := queryID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "ID required")
		return
	}
	if err := h.MonumentService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, nopIfNil(h.Log), err, "Monument not found", "Failed to delete monument")
		return
	}
	writeMessage(w, http.StatusOK, "Monument deleted")
}
