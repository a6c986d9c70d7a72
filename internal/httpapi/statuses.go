package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"project-tracker/tracker/internal/model"
)

type createStatusRequest struct {
	Name    model.StatusName `json:"name"`
	Date    string           `json:"date"` // YYYY-MM-DD
	Comment string           `json:"comment"`
}

func parseDate(s string) (time.Time, bool) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func (s *Server) handleStatuses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		statuses, err := s.store.ListStatuses(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "failed to list statuses")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"statuses": statuses})

	case http.MethodPost:
		var req createStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
			return
		}
		if !model.ValidStatusName(req.Name) {
			writeError(w, http.StatusBadRequest, "bad_request", "unknown status name")
			return
		}
		date, ok := parseDate(req.Date)
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", "date must be YYYY-MM-DD")
			return
		}

		created, err := s.store.CreateStatus(r.Context(), model.Status{
			Name:    req.Name,
			Date:    date,
			Comment: req.Comment,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"status": created})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}
