// Package api exposes the search and watchlist operations over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
	"github.com/KeenanSylo/TreasureHunt/internal/store"
)

// Searcher runs one treasure hunt end to end.
type Searcher interface {
	Handle(ctx context.Context, query model.SearchQuery) (*model.SearchResponse, error)
}

// Server holds the API dependencies.
type Server struct {
	searcher Searcher
	items    store.Store
	auth     Authenticator
}

// NewServer wires the API server.
func NewServer(searcher Searcher, items store.Store, auth Authenticator) *Server {
	return &Server{
		searcher: searcher,
		items:    items,
		auth:     auth,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/api/search", s.handleSearch)

	r.Route("/api/items", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.handleListItems)
		r.Post("/", s.handleSaveItem)
		r.Delete("/{id}", s.handleDeleteItem)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
