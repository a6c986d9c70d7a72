package httpapi

import (
	"net/http"
	"time"

	"project-tracker/tracker/internal/config"
	"project-tracker/tracker/internal/mail"
	"project-tracker/tracker/internal/store"
)

type Server struct {
	cfg        config.Config
	store      store.Store
	mailer     mail.Sender
	mux        *http.ServeMux
	pendingKey []byte
}

func NewServer(cfg config.Config, st store.Store, mailer mail.Sender) *Server {
	s := &Server{
		cfg:        cfg,
		store:      st,
		mailer:     mailer,
		mux:        http.NewServeMux(),
		pendingKey: newPendingKey(cfg.PendingTokenSecret),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = recoverMiddleware(h)
	h = requestIDMiddleware(h)
	h = loggingMiddleware(h)
	h = s.authMiddleware(h)
	return h
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)

	s.mux.HandleFunc("/v1/auth/otp/request", s.handleOTPRequest)
	s.mux.HandleFunc("/v1/auth/otp/verify", s.handleOTPVerify)
	s.mux.HandleFunc("/v1/auth/logout", s.handleLogout)

	s.mux.HandleFunc("/v1/users/create", s.handleUserCreate)
	s.mux.HandleFunc("/v1/users", s.handleUsersList)

	s.mux.HandleFunc("/v1/categories", s.handleCategories)
	s.mux.HandleFunc("/v1/categories/{id}", s.handleCategoryDetail)
	s.mux.HandleFunc("/v1/categories/{id}/update", s.handleCategoryUpdate)

	s.mux.HandleFunc("/v1/statuses", s.handleStatuses)

	s.mux.HandleFunc("/v1/projects", s.handleProjects)
	s.mux.HandleFunc("/v1/projects/{id}", s.handleProjectDetail)
	s.mux.HandleFunc("/v1/projects/{id}/update", s.handleProjectUpdate)

	s.mux.HandleFunc("/v1/dashboard", s.handleDashboard)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339Nano),
	})
}
