package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"project-tracker/tracker/internal/model"
	"project-tracker/tracker/internal/store"
)

type createProjectRequest struct {
	Name                    string             `json:"name"`
	CategoryID              string             `json:"category_id"`
	MeasureInitiativeWeight float64            `json:"measure_initiative_weight"`
	Phase                   model.ProjectPhase `json:"phase"`
	StatusID                string             `json:"status_id"`
	StretchTargetDate       string             `json:"stretch_target_date"` // YYYY-MM-DD
	OwnerID                 string             `json:"owner_id"`
	Budget                  *float64           `json:"budget"`
	Comment                 string             `json:"comment"`
}

type updateProjectRequest struct {
	Name                    *string             `json:"name"`
	Phase                   *model.ProjectPhase `json:"phase"`
	StatusID                *string             `json:"status_id"`
	OwnerID                 *string             `json:"owner_id"`
	StretchTargetDate       *string             `json:"stretch_target_date"` // YYYY-MM-DD
	MeasureInitiativeWeight *float64            `json:"measure_initiative_weight"`
	Budget                  *float64            `json:"budget"`
	Comment                 *string             `json:"comment"`
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		f := store.ProjectFilter{
			CategoryID: strings.TrimSpace(r.URL.Query().Get("category_id")),
		}
		projects, err := s.store.ListProjects(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "failed to list projects")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"projects": projects})

	case http.MethodPost:
		var req createProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", "name is required")
			return
		}
		if !model.ValidProjectPhase(req.Phase) {
			writeError(w, http.StatusBadRequest, "bad_request", "unknown phase")
			return
		}
		date, ok := parseDate(req.StretchTargetDate)
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", "stretch_target_date must be YYYY-MM-DD")
			return
		}

		created, err := s.store.CreateProject(r.Context(), model.Project{
			Name:                    strings.TrimSpace(req.Name),
			CategoryID:              strings.TrimSpace(req.CategoryID),
			MeasureInitiativeWeight: req.MeasureInitiativeWeight,
			Phase:                   req.Phase,
			StatusID:                strings.TrimSpace(req.StatusID),
			StretchTargetDate:       date,
			OwnerID:                 strings.TrimSpace(req.OwnerID),
			Budget:                  req.Budget,
			Comment:                 req.Comment,
		})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusBadRequest, "bad_reference", "category, status or owner not found")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"project": created})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func (s *Server) handleProjectDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "GET only")
		return
	}

	project, err := s.store.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", "failed to get project")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"project": project})
}

func (s *Server) handleProjectUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST only")
		return
	}

	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}

	var target *time.Time
	if req.StretchTargetDate != nil {
		date, ok := parseDate(*req.StretchTargetDate)
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", "stretch_target_date must be YYYY-MM-DD")
			return
		}
		target = &date
	}

	// A missing project is a 404; a dangling status/owner reference on an
	// existing project is a 400.
	if _, err := s.store.GetProject(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", "failed to get project")
		return
	}

	updated, err := s.store.UpdateProject(r.Context(), store.UpdateProjectRequest{
		ProjectID:               r.PathValue("id"),
		Name:                    req.Name,
		Phase:                   req.Phase,
		StatusID:                req.StatusID,
		OwnerID:                 req.OwnerID,
		StretchTargetDate:       target,
		MeasureInitiativeWeight: req.MeasureInitiativeWeight,
		Budget:                  req.Budget,
		Comment:                 req.Comment,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "bad_reference", "status or owner not found")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "project": updated})
}
