package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"gitea.jw6.us/james/countboard/internal/auth"
	"gitea.jw6.us/james/countboard/internal/config"
	"gitea.jw6.us/james/countboard/internal/event"
	"gitea.jw6.us/james/countboard/internal/store"
)

func newTestRouter(t *testing.T) (http.Handler, *event.Store) {
	t.Helper()

	cfg := &config.Config{BaseURL: "http://localhost:8080"}
	cfg.Admin.User = "admin"
	cfg.Admin.Password = "geheim"
	cfg.Session.Secret = strings.Repeat("s", 32)

	kv := store.NewMemory()
	events := event.NewStore(kv)
	sessions := auth.NewSessionManager(cfg)
	authService := auth.NewService(cfg, sessions)

	return NewRouter(cfg, kv, events, authService), events
}

func cookieByName(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set; got %v", name, resp.Cookies())
	return nil
}

func TestHealthEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}

func TestGetConfigNeedsNoCredential(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}
}

func TestUnauthorizedPostLeavesStoredRecordUnchanged(t *testing.T) {
	r, events := newTestRouter(t)
	ctx := context.Background()

	seeded, err := events.Persist(ctx, event.Normalize(event.Submission{Info: "unangetastet"}))
	if err != nil {
		t.Fatalf("Persist() error: %v", err)
	}

	body := `{"live":true,"info":"eingebrochen"}`
	req := httptest.NewRequest(http.MethodPost, "/config", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	var errResp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("error response is not JSON: %v", err)
	}
	if errResp["error"] == "" {
		t.Errorf("error response = %v, want error field", errResp)
	}

	after, err := events.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(seeded, after) {
		t.Errorf("stored record changed by unauthorized write: before %+v, after %+v", seeded, after)
	}
}

func TestAdminUpdateFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	// The admin page issues the CSRF token.
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /admin status = %d", rec.Code)
	}
	csrfCookie := cookieByName(t, rec.Result(), "countboard_csrf")

	// Login with the configured credentials.
	req = httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"admin","password":"geheim"}`))
	req.AddCookie(csrfCookie)
	req.Header.Set("X-CSRF-Token", csrfCookie.Value)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	sessionCookie := cookieByName(t, rec.Result(), "countboard_session")

	// Mutate the configuration.
	body := `{"live":false,"ended":false,"start":"2099-06-01T08:00:00+02:00","info":"bald geht es los"}`
	req = httptest.NewRequest(http.MethodPost, "/config", strings.NewReader(body))
	req.AddCookie(csrfCookie)
	req.AddCookie(sessionCookie)
	req.Header.Set("X-CSRF-Token", csrfCookie.Value)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	// The public read reflects it.
	req = httptest.NewRequest(http.MethodGet, "/config", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var got event.Config
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if got.Info != "bald geht es los" {
		t.Errorf("Info = %q, want updated text", got.Info)
	}
	if got.Start == nil || *got.Start != "2099-06-01T08:00:00+02:00" {
		t.Errorf("Start = %v, want scheduled start with offset", got.Start)
	}
}

func TestPostConfigWithSessionButNoCSRF(t *testing.T) {
	r, _ := newTestRouter(t)

	// Get a CSRF token and a session.
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	csrfCookie := cookieByName(t, rec.Result(), "countboard_csrf")

	req = httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"admin","password":"geheim"}`))
	req.AddCookie(csrfCookie)
	req.Header.Set("X-CSRF-Token", csrfCookie.Value)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	sessionCookie := cookieByName(t, rec.Result(), "countboard_session")

	// Session but no token header: rejected before any write.
	req = httptest.NewRequest(http.MethodPost, "/config", strings.NewReader(`{"live":true}`))
	req.AddCookie(csrfCookie)
	req.AddCookie(sessionCookie)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
