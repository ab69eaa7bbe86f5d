package http

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/memorial/internal/models"
	"github.com/atinyakov/memorial/internal/search"
	"github.com/atinyakov/memorial/internal/service"
)

// HeroService defines the hero operations required by HeroHandler.
type HeroService interface {
	List(ctx context.Context) ([]models.Hero, error)
	Get(ctx context.Context, id int64) (models.Hero, error)
	Create(ctx context.Context, h models.Hero) (int64, error)
	Update(ctx context.Context, h models.Hero) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (service.Stats, error)
}

// HeroHandler serves /heroes.
type HeroHandler struct {
	HeroService HeroService
	Log         *zap.Logger
}

// Get returns {"heroes": [...]} or, with ?id=, a single hero. The list may be
// narrowed with ?search=, ?rank= and ?district= (alias ?region=).
func (h *HeroHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := nopIfNil(h.Log)
	id, ok, err := queryID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	if ok {
		hero, err := h.HeroService.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, log, err, "Hero not found", "Failed to load hero")
			return
		}
		writeJSON(w, http.StatusOK, hero)
		return
	}

	heroes, err := h.HeroService.List(r.Context())
	if err != nil {
		writeServiceError(w, log, err, "Hero not found", "Failed to load heroes")
		return
	}
	if query, facets := heroFilter(r); query != "" || facets != (search.HeroFacets{}) {
		heroes = search.FilterHeroes(heroes, query, facets)
	}
	writeJSON(w, http.StatusOK, map[string]any{"heroes": heroes})
}

func heroFilter(r *http.Request) (string, search.HeroFacets) {
	q := r.URL.Query()
	facets := search.HeroFacets{
		Rank:   strings.TrimSpace(q.Get("rank")),
		Region: strings.TrimSpace(q.Get("district")),
	}
	if facets.Region == "" {
		facets.Region = strings.TrimSpace(q.Get("region"))
	}
	return strings.TrimSpace(q.Get("search")), facets
}

// Stats handles GET /heroes/stats.
func (h *HeroHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.HeroService.Stats(r.Context())
	if err != nil {
		writeServiceError(w, nopIfNil(h.Log), err, "", "Failed to count heroes")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Create handles POST /heroes and answers 201 {id, message}.
func (h *HeroHandler) Create(w http.ResponseWriter, r *http.Request) {
	var hero models.Hero
	if !decode(w, r, &hero) {
		return
	}
	id, err := h.HeroService.Create(r.Context(), hero)
	if err != nil {
		writeServiceError(w, nopIfNil(h.Log), err, "Hero not found", "Failed to create hero")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "message": "Hero created"})
}

// Update handles PUT /heroes; the body carries the id.
func (h *HeroHandler) Update(w http.ResponseWriter, r *http.Request) {
	var hero models.Hero
	if !decode(w, r, &hero) {
		return
	}
	if err := h.HeroService.Update(r.Context(), hero); err != nil {
		writeServiceError(w, nopIfNil(h.Log), err, "Hero not found", "Failed to update hero")
		return
	}
	writeMessage(w, http.StatusOK, "Hero updated")
}

// Delete handles DELETE /heroes?id=.
func (h *HeroHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok, err := queryID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "ID required")
		return
	}
	if err := h.HeroService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, nopIfNil(h.Log), err, "Hero not found", "Failed to delete hero")
		return
	}
	writeMessage(w, http.StatusOK, "Hero deleted")
}
