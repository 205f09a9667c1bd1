package auth

import (
	"crypto/subtle"
	"net/http"

	"gitea.jw6.us/james/countboard/internal/config"
	httperrors "gitea.jw6.us/james/countboard/internal/http/errors"
	"golang.org/x/crypto/bcrypt"
)

// Service gates mutation of the event configuration. Credentials come from
// the environment; the session cookie issued on login is the only
// credential the rest of the system inspects.
type Service struct {
	cfg      *config.Config
	sessions *SessionManager
}

func NewService(cfg *config.Config, sessions *SessionManager) *Service {
	return &Service{cfg: cfg, sessions: sessions}
}

// VerifyCredentials checks a login attempt against the configured admin
// account. Comparison is constant-time; a bcrypt hash takes precedence
// over a plaintext password when both are configured.
func (s *Service) VerifyCredentials(username, password string) bool {
	if s.cfg.Admin.User == "" {
		return false
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Admin.User)) == 1

	passOK := false
	switch {
	case s.cfg.Admin.PasswordHash != "":
		passOK = bcrypt.CompareHashAndPassword([]byte(s.cfg.Admin.PasswordHash), []byte(password)) == nil
	case s.cfg.Admin.Password != "":
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Admin.Password)) == 1
	}

	return userOK && passOK
}

// Sessions exposes the session manager for login/logout handlers.
func (s *Service) Sessions() *SessionManager {
	return s.sessions
}

// RequireSession rejects requests without a valid admin session. Denial is
// terminal for the request; there is no fallback credential.
func (s *Service) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.sessions.CurrentUser(r)
		if !ok {
			httperrors.UnauthorizedError(w, "unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}
