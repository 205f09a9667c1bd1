package ui

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gitea.jw6.us/james/countboard/internal/http/errors"
)

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	tmpl, ok := h.templates[name]
	if !ok {
		errors.InternalError(w, r, fmt.Errorf("template not found"), fmt.Sprintf("template %q not found", name))
		return
	}

	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		errors.LogError(r, fmt.Sprintf("template render error for %q", name), err)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		errors.LogError(r, "failed to encode response", err)
	}
}
