package httpapi

import (
	"net/http"

	"project-tracker/tracker/internal/model"
	"project-tracker/tracker/internal/store"
)

type categoryGroup struct {
	model.Category
	Projects []model.Project `json:"projects"`
}

// handleDashboard returns projects grouped by category plus the statuses and
// owners needed to populate edit forms, mirroring the index view of the
// tracker UI this API serves.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to list categories")
		return
	}

	projects, err := s.store.ListProjects(r.Context(), store.ProjectFilter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to list projects")
		return
	}

	statuses, err := s.store.ListStatuses(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to list statuses")
		return
	}

	owners, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to list users")
		return
	}

	byCategory := make(map[string][]model.Project, len(categories))
	for _, p := range projects {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}

	groups := make([]categoryGroup, len(categories))
	for i, c := range categories {
		projectsInCategory := byCategory[c.ID]
		if projectsInCategory == nil {
			projectsInCategory = []model.Project{}
		}
		groups[i] = categoryGroup{Category: c, Projects: projectsInCategory}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"categories": groups,
		"statuses":   statuses,
		"owners":     owners,
		"phases": []model.ProjectPhase{
			model.PhaseContracting,
			model.PhaseRequirement,
			model.PhaseApproval,
			model.PhaseDesign,
			model.PhaseDevelopment,
			model.PhaseTesting,
			model.PhaseDeployment,
			model.PhaseLive,
		},
	})
}
