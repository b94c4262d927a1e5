// Package server exposes the memory store over HTTP. It is presentation
// glue: every handler goes through the store's public operations.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mnemo-dev/mnemo/internal/store"
)

// Server is the mnemo HTTP API server.
type Server struct {
	store   *store.Store
	router  chi.Router
	version string
	started time.Time
}

// New creates a Server over the given store.
func New(st *store.Store, version string) *Server {
	s := &Server{
		store:   st,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/memories", s.handleRemember)
		r.Delete("/memories", s.handleForgetWhere)
		r.Get("/memories/{id}", s.handleGet)
		r.Patch("/memories/{id}", s.handleUpdate)
		r.Delete("/memories/{id}", s.handleForget)

		r.Get("/recall", s.handleRecall)
		r.Post("/prune", s.handlePrune)
		r.Get("/stats", s.handleStats)
		r.Post("/save", s.handleSave)
	})

	s.router = r
}
