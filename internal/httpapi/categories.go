package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"project-tracker/tracker/internal/model"
	"project-tracker/tracker/internal/store"
)

type createCategoryRequest struct {
	Name            string  `json:"name"`
	ObjectiveWeight float64 `json:"objective_weight"`
	ScorecardYear   int     `json:"scorecard_year"`
}

type updateCategoryRequest struct {
	Name            *string  `json:"name"`
	ObjectiveWeight *float64 `json:"objective_weight"`
	ScorecardYear   *int     `json:"scorecard_year"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		categories, err := s.store.ListCategories(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "failed to list categories")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"categories": categories})

	case http.MethodPost:
		var req createCategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", "name is required")
			return
		}
		if req.ScorecardYear <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request", "scorecard_year is required")
			return
		}

		created, err := s.store.CreateCategory(r.Context(), model.Category{
			Name:            strings.TrimSpace(req.Name),
			ObjectiveWeight: req.ObjectiveWeight,
			ScorecardYear:   req.ScorecardYear,
		})
		if err != nil {
			if errors.Is(err, store.ErrConflict) {
				writeError(w, http.StatusConflict, "conflict", "category already exists for that year")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"category": created})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func (s *Server) handleCategoryDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "GET only")
		return
	}

	category, err := s.store.GetCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", "failed to get category")
		return
	}

	// Detail includes the category's projects, like the index view groups them.
	projects, err := s.store.ListProjects(r.Context(), store.ProjectFilter{CategoryID: category.ID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to list projects")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"category": category, "projects": projects})
}

func (s *Server) handleCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST only")
		return
	}

	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}

	updated, err := s.store.UpdateCategory(r.Context(), store.UpdateCategoryRequest{
		CategoryID:      r.PathValue("id"),
		Name:            req.Name,
		ObjectiveWeight: req.ObjectiveWeight,
		ScorecardYear:   req.ScorecardYear,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "category not found")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"category": updated})
}
