package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/KeenanSylo/TreasureHunt/internal/model"
	"github.com/KeenanSylo/TreasureHunt/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := model.SearchQuery{
		Text:   r.URL.Query().Get("q"),
		Bundle: r.URL.Query().Get("bundle") == "true",
	}

	if raw := r.URL.Query().Get("max_price"); raw != "" {
		maxPrice, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "max_price must be an integer")
			return
		}
		query.MaxPrice = maxPrice
	}

	resp, err := s.searcher.Handle(r.Context(), query)
	if err != nil {
		if errors.Is(err, model.ErrInvalidQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		zap.L().Error("search failed", zap.String("query", query.Text), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSaveItem(w http.ResponseWriter, r *http.Request) {
	var item model.SavedItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if item.ExternalID == "" || item.Marketplace == "" || item.DeclaredTitle == "" {
		writeError(w, http.StatusBadRequest, "external_id, marketplace, and title_vague are required")
		return
	}

	item.UserID = userID(r)
	saved, err := s.items.Save(r.Context(), item)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateItem) {
			writeError(w, http.StatusConflict, "item already saved")
			return
		}
		zap.L().Error("save item failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.items.List(r.Context(), userID(r))
	if err != nil {
		zap.L().Error("list items failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	if items == nil {
		items = []model.SavedItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	err := s.items.Delete(r.Context(), userID(r), itemID)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		zap.L().Error("delete item failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
