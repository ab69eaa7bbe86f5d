package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/memorial/internal/middleware"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Heroes      *HeroHandler
	Monuments   *MonumentHandler
	Auth        *AuthHandler
	Files       *FileHandler
	Submissions *SubmissionHandler
}

// NewRouter constructs the HTTP handler of the memorial API.
//
// Routes:
//
//	GET    /heroes[?id=]        public
//	GET    /heroes/stats        public
//	POST   /heroes              token
//	PUT    /heroes              token
//	DELETE /heroes?id=          token
//	(same for /monuments, without stats)
//	POST   /auth                public, issues a token
//	GET    /auth                checks X-Auth-Token
//	POST   /upload              token
//	GET    /files[?hero_id=]    public
//	POST   /files               token
//	DELETE /files?id=           token
//	POST   /submissions         public
//
// Middleware chain (applied in order):
//  1. Recoverer                          turns panics into 500
//  2. AllowContentType("application/json") rejects non-JSON bodies
//  3. WithRequestLogging(logger)         logs every request
func NewRouter(h Handlers, verifier middleware.TokenVerifier, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))

	// Public endpoints
	r.Get("/heroes", h.Heroes.Get)
	r.Get("/heroes/stats", h.Heroes.Stats)
	r.Get("/monuments", h.Monuments.Get)
	r.Post("/auth", h.Auth.Login)
	r.Get("/auth", h.Auth.Verify)
	r.Get("/files", h.Files.List)
	r.Post("/submissions", h.Submissions.Submit)

	// Protected group: requires a valid X-Auth-Token
	r.Group(func(r chi.Router) {
		r.Use(middleware.TokenAuth(verifier))

		r.Post("/heroes", h.Heroes.Create)
		r.Put("/heroes", h.Heroes.Update)
		r.Delete("/heroes", h.Heroes.Delete)

		r.Post("/monuments", h.Monuments.Create)
		r.Put("/monuments", h.Monuments.Update)
		r.Delete("/monuments", h.Monuments.Delete)

		r.Post("/upload", h.Files.Upload)
		r.Post("/files", h.Files.Attach)
		r.Delete("/files", h.Files.Delete)
	})

	return r
}
