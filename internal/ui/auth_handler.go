package ui

import (
	"encoding/json"
	"net/http"

	httperrors "gitea.jw6.us/james/countboard/internal/http/errors"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the submitted credentials against the configured admin
// account and issues a session cookie on success.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.BadRequestError(w, r, err, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		httperrors.UnauthorizedError(w, "username or password missing")
		return
	}

	if !h.authService.VerifyCredentials(req.Username, req.Password) {
		httperrors.LogInfo(r, "rejected admin login attempt")
		httperrors.UnauthorizedError(w, "wrong credentials")
		return
	}

	if err := h.authService.Sessions().Issue(w, req.Username); err != nil {
		httperrors.InternalError(w, r, err, "failed to issue session")
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
}

// Logout expires the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.Sessions().Clear(w)
	h.writeJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
}
