package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	appauth "gitea.jw6.us/james/countboard/internal/auth"
	"gitea.jw6.us/james/countboard/internal/config"
	"gitea.jw6.us/james/countboard/internal/event"
	httpserver "gitea.jw6.us/james/countboard/internal/http"
	"gitea.jw6.us/james/countboard/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	log.Println("Starting Countboard server...")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var kv store.KV
	if cfg.DB.DSN != "" {
		pool, err := pgxpool.New(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatalf("failed to create db pool: %v", err)
		}
		defer pool.Close()

		if err := store.ApplyMigrations(ctx, pool); err != nil {
			log.Fatalf("failed to apply migrations: %v", err)
		}
		kv = store.NewPostgres(pool)
	} else {
		kv = store.NewMemory()
	}

	events := event.NewStore(kv)
	sessionManager := appauth.NewSessionManager(cfg)
	authService := appauth.NewService(cfg, sessionManager)

	r := httpserver.NewRouter(cfg, kv, events, authService)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
