package ui

import (
	"html/template"
	"net/http"
	"time"

	"gitea.jw6.us/james/countboard/internal/auth"
	"gitea.jw6.us/james/countboard/internal/config"
	"gitea.jw6.us/james/countboard/internal/event"
	"gitea.jw6.us/james/countboard/internal/http/csrf"
	httperrors "gitea.jw6.us/james/countboard/internal/http/errors"
)

// Handler serves the countdown display, the admin page and the config API.
type Handler struct {
	cfg         *config.Config
	events      *event.Store
	authService *auth.Service
	templates   map[string]*template.Template
}

func NewHandler(cfg *config.Config, events *event.Store, authService *auth.Service) *Handler {
	return &Handler{cfg: cfg, events: events, authService: authService, templates: templates}
}

// Countdown renders the public display page. The page re-polls the config
// endpoint, so the server-side countdown is only the initial value.
func (h *Handler) Countdown(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.events.Load(r.Context())
	if err != nil {
		httperrors.InternalError(w, r, err, "failed to load configuration")
		return
	}

	data := map[string]any{
		"Title": "Countdown",
		"Info":  cfg.Info,
		"Phase": string(cfg.Phase()),
	}
	if cfg.Start != nil {
		data["Start"] = *cfg.Start
		if start, parseErr := time.Parse(time.RFC3339, *cfg.Start); parseErr == nil {
			data["Remaining"] = event.Remaining(time.Now(), start).String()
		}
	}

	w.Header().Set("Cache-Control", "no-store")
	h.render(w, r, "index.html", data)
}

// Admin renders the admin page shell; the form itself talks to the config
// API with the CSRF token embedded here.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title":     "Admin",
		"CSRFToken": csrf.TokenFromContext(r.Context()),
	}
	w.Header().Set("Cache-Control", "no-store")
	h.render(w, r, "admin.html", data)
}
