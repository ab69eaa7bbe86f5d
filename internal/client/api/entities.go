package api

import (
	"context"
	"net/http"

	"github.com/atinyakov/memorial/internal/models"
)

// HeroesAPI groups the /heroes endpoints.
type HeroesAPI struct{ c *Client }

// GetAll fetches every hero in server order.
func (a *HeroesAPI) GetAll(ctx context.Context) ([]models.Hero, error) {
	var out struct {
		Heroes []models.Hero `json:"heroes"`
	}
	if err := a.c.doJSON(ctx, call{resource: "heroes", method: http.MethodGet, path: "/heroes"}, &out); err != nil {
		return nil, err
	}
	if out.Heroes == nil {
		out.Heroes = []models.Hero{}
	}
	return out.Heroes, nil
}

// GetByID fetches a single hero with its documents.
func (a *HeroesAPI) GetByID(ctx context.Context, id int64) (models.Hero, error) {
	var h models.Hero
	err := a.c.doJSON(ctx, call{
		resource: "heroes",
		method:   http.MethodGet,
		path:     "/heroes",
		query:    idQuery("id", id),
	}, &h)
	return h, err
}

// Create stores a draft and returns the id assigned by the server.
// Any ID set on draft is not sent.
func (a *HeroesAPI) Create(ctx context.Context, draft models.Hero) (int64, error) {
	draft.ID = 0
	return a.c.create(ctx, "heroes", "/heroes", draft)
}

// Update replaces the hero identified by h.ID.
func (a *HeroesAPI) Update(ctx context.Context, h models.Hero) error {
	return a.c.doJSON(ctx, call{resource: "heroes", method: http.MethodPut, path: "/heroes", body: h}, nil)
}

// Delete removes the hero with the given id.
func (a *HeroesAPI) Delete(ctx context.Context, id int64) error {
	return a.c.doJSON(ctx, call{
		resource: "heroes",
		method:   http.MethodDelete,
		path:     "/heroes",
		query:    idQuery("id", id),
	}, nil)
}

// MonumentsAPI groups the /monuments endpoints.
type MonumentsAPI struct{ c *Client }

// GetAll fetches every monument in server order.
func (a *MonumentsAPI) GetAll(ctx context.Context) ([]models.Monument, error) {
	var out struct {
		Monuments []models.Monument `json:"monuments"`
	}
	if err := a.c.doJSON(ctx, call{resource: "monuments", method: http.MethodGet, path: "/monuments"}, &out); err != nil {
		return nil, err
	}
	if out.Monuments == nil {
		out.Monuments = []models.Monument{}
	}
	return out.Monuments, nil
}

// GetByID fetches a single monument including its photo gallery.
func (a *MonumentsAPI) GetByID(ctx context.Context, id int64) (models.Monument, error) {
	var m models.Monument
	err := a.c.doJSON(ctx, call{
		resource: "monuments",
		method:   http.MethodGet,
		path:     "/monuments",
		query:    idQuery("id", id),
	}, &m)
	return m, err
}

// Create stores a draft and returns the id assigned by the server.
func (a *MonumentsAPI) Create(ctx context.Context, draft models.Monument) (int64, error) {
	draft.ID = 0
	return a.c.create(ctx, "monuments", "/monuments", draft)
}

// Update replaces the monument identified by m.ID.
func (a *MonumentsAPI) Update(ctx context.Context, m models.Monument) error {
	return a.c.doJSON(ctx, call{resource: "monuments", method: http.MethodPut, path: "/monuments", body: m}, nil)
}

// Delete removes the monument with the given id.
func (a *MonumentsAPI) Delete(ctx context.Context, id int64) error {
	return a.c.doJSON(ctx, call{
		resource: "monuments",
		method:   http.MethodDelete,
		path:     "/monuments",
		query:    idQuery("id", id),
	}, nil)
}

func (c *Client) create(ctx context.Context, resource, path string, body any) (int64, error) {
	var out created
	if err := c.doJSON(ctx, call{resource: resource, method: http.MethodPost, path: path, body: body}, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}
