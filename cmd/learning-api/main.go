// main is the entry point of the Learning Platform API.
//
// STARTUP SEQUENCE:
//  1. Load configuration (.env, then the YAML file)
//  2. Initialise the logger
//  3. Open the record store and load the example fixtures
//  4. Build the router and middleware stack
//  5. Start the HTTP server in a separate goroutine
//  6. Block until SIGINT / SIGTERM
//  7. Gracefully shut down, then close the store
//
// RUNNING THE SERVER:
//
//	go run ./cmd/learning-api --config=config/local.yaml
//
// or:
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/learning-api
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/learnhub/learning-api/internal/auth"
	"github.com/learnhub/learning-api/internal/config"
	"github.com/learnhub/learning-api/internal/http/router"
	"github.com/learnhub/learning-api/internal/storage"
	"github.com/learnhub/learning-api/internal/storage/memory"
	"github.com/learnhub/learning-api/internal/storage/sqlite"
	"github.com/learnhub/learning-api/internal/utils/response"
)

// demoPassword signs in the seeded example accounts.
const demoPassword = "password123"

func main() {
	started := time.Now()

	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	response.SetExposeInternal(!cfg.IsProduction())

	log.Info("starting learning-api",
		slog.String("env", cfg.Env),
		slog.String("version", router.Version),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	store, err := openStorage(cfg.Storage)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("storage initialised",
		slog.String("driver", cfg.Storage.Driver),
		slog.String("path", cfg.Storage.Path))

	if cfg.Storage.Seed {
		if err := seed(store); err != nil {
			log.Error("failed to seed storage", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// ── 4. Build Router ───────────────────────────────────────────────────
	handler := router.New(router.Deps{
		Config:  cfg,
		Storage: store,
		Tokens:  auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Logger:  log,
		Started: started,
	})
	if !cfg.Auth.Enforce {
		log.Warn("bearer authentication is not enforced on /users and /enrollments")
	}

	// ── 5. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	// ── 6. Start Server in a Goroutine ────────────────────────────────────
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
	}
	if err := store.Close(); err != nil {
		log.Error("failed to close storage", slog.String("error", err.Error()))
	}

	log.Info("server stopped gracefully")
}

// openStorage returns the backend named by cfg.Driver. The rest of the
// program only sees the storage.Storage interface.
func openStorage(cfg config.Storage) (storage.Storage, error) {
	switch cfg.Driver {
	case "sqlite":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create storage dir: %w", err)
			}
		}
		return sqlite.New(cfg)
	default:
		return memory.New(), nil
	}
}

// seed loads the example fixtures into an empty store. Both demo users
// sign in with demoPassword.
func seed(store storage.Storage) error {
	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return err
	}
	loaded, err := storage.Seed(store, storage.DefaultSeed(hash))
	if err != nil {
		return err
	}
	slog.Info("seed data", slog.Bool("loaded", loaded))
	return nil
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Staging: JSON at DEBUG level.
// Production (prod): JSON at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case config.EnvProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case config.EnvStaging:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
