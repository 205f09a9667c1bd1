package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"gitea.jw6.us/james/countboard/internal/auth"
	"gitea.jw6.us/james/countboard/internal/config"
	"gitea.jw6.us/james/countboard/internal/event"
	"gitea.jw6.us/james/countboard/internal/http/csrf"
	httperrors "gitea.jw6.us/james/countboard/internal/http/errors"
	"gitea.jw6.us/james/countboard/internal/http/ratelimit"
	"gitea.jw6.us/james/countboard/internal/metrics"
	"gitea.jw6.us/james/countboard/internal/store"
	"gitea.jw6.us/james/countboard/internal/ui"
)

// NewRouter wires all HTTP routes for the display, the admin API and the
// operational endpoints.
func NewRouter(cfg *config.Config, kv store.KV, events *event.Store, authService *auth.Service) http.Handler {
	r := chi.NewRouter()

	// Auth endpoints: 5 requests per second, burst of 10
	authRateLimiter := ratelimit.NewIPRateLimiter(rate.Limit(5), 10, 5*time.Minute, cfg.TrustedProxies)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := kv.HealthCheck(ctx); err != nil {
			httperrors.JSON(w, http.StatusServiceUnavailable, "unready")
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.PrometheusEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		})
	}

	uiHandler := ui.NewHandler(cfg, events, authService)

	// The display polls this; no credential needed.
	r.Get("/config", uiHandler.GetConfig)
	// The only mutation point in the system.
	r.With(authService.RequireSession, csrf.Middleware(cfg)).Post("/config", uiHandler.UpdateConfig)

	r.Route("/auth", func(r chi.Router) {
		r.Use(authRateLimiter.Middleware())
		r.Use(csrf.Middleware(cfg))
		r.Post("/login", uiHandler.Login)
		r.Post("/logout", uiHandler.Logout)
	})

	r.Get("/", uiHandler.Countdown)
	r.With(csrf.Middleware(cfg)).Get("/admin", uiHandler.Admin)

	return r
}
