package ui

import (
	"encoding/json"
	"net/http"

	"gitea.jw6.us/james/countboard/internal/event"
	httperrors "gitea.jw6.us/james/countboard/internal/http/errors"
)

// GetConfig serves the stored event configuration for the public display
// and the admin form. The payload is live operational state and must not
// be cached.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.events.Load(r.Context())
	if err != nil {
		httperrors.InternalError(w, r, err, "failed to load configuration")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	h.writeJSON(w, r, http.StatusOK, cfg)
}

// UpdateConfig folds an untrusted admin submission into a normalized
// record, persists it, and echoes the re-read stored state. A body that is
// not JSON is the only rejected input; semantic problems are repaired by
// the fold and visible only through the echoed, corrected record.
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var sub event.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		httperrors.BadRequestError(w, r, err, "invalid request body")
		return
	}

	stored, err := h.events.Persist(r.Context(), event.Normalize(sub))
	if err != nil {
		httperrors.InternalError(w, r, err, "failed to save configuration")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	h.writeJSON(w, r, http.StatusOK, stored)
}
