// main is the entry point for the TrainerHub API server.
//
// It loads the configuration, opens the document store, seeds the demo
// account, registers the trainer and admin routes and serves until
// interrupted.
//
// ────────────────────────────────────────────────────────────────────
// LEARNING NOTE: wiring
// ────────────────────────────────────────────────────────────────────
// This file is the "composition root": the single place where the
// independent packages (config, logging, db, repository, handlers,
// admin, realtime) are wired together. Every other package receives its
// dependencies as struct fields, so tests can build them in isolation.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trainerhub/backend/internal/admin"
	"github.com/trainerhub/backend/internal/config"
	"github.com/trainerhub/backend/internal/db"
	"github.com/trainerhub/backend/internal/handlers"
	"github.com/trainerhub/backend/internal/logging"
	"github.com/trainerhub/backend/internal/middleware"
	"github.com/trainerhub/backend/internal/realtime"
	"github.com/trainerhub/backend/internal/repository"
	"github.com/trainerhub/backend/internal/seed"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "trainerhub:", err)
		os.Exit(1)
	}
}

func run() error {
	// ── Configuration ────────────────────────────────────────────────
	// CONFIG_FILE is optional; without it defaults plus environment
	// variables are used (see internal/config).
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}

	// ── Logging ──────────────────────────────────────────────────────
	// Console output goes through tint; the ring keeps recent records for
	// GET /api/admin/logs.
	ring := logging.NewRing(cfg.Log.Buffer)
	logger := logging.New(os.Stderr, cfg.Log.Level, ring)
	slog.SetDefault(logger)
	if cfg.InsecureSecret() {
		logger.Warn("using the built-in JWT secret; set JWT_SECRET outside development")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Storage ──────────────────────────────────────────────────────
	// The memory driver keeps nothing across restarts.
	backend, err := db.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer backend.Close()
	repo := repository.New(backend)

	if cfg.Server.SeedDemo {
		loaded, err := seed.Load(ctx, repo, time.Now())
		if err != nil {
			return err
		}
		if loaded {
			logger.Info("demo data loaded", "trainer", seed.TrainerEmail, "admin", seed.AdminEmail)
		}
	}

	// ── Realtime ─────────────────────────────────────────────────────
	hub := realtime.NewHub(logger)
	go hub.Run(ctx)

	// ── Routes ───────────────────────────────────────────────────────
	srv := &handlers.Server{
		Repo:   repo,
		Secret: cfg.Auth.JWTSecret,
		Hub:    hub,
		Logger: logger,
	}
	mux := srv.Routes()

	if !strings.EqualFold(cfg.Log.Level, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	console := &admin.Admin{Repo: repo, Hub: hub, Logs: ring, Logger: logger}
	mux.Handle("/api/admin/", console.Handler(cfg.Auth.JWTSecret))

	// RequestLogger outermost so preflights and rejected requests are
	// logged too; CORS answers preflights before any route sees them.
	handler := middleware.RequestLogger(logger)(middleware.CORS(mux))

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("TrainerHub API listening", "addr", cfg.Server.Addr, "db", cfg.Database.Driver)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
