// Package handlers contains the HTTP handlers of the trainer API.
//
// ────────────────────────────────────────────────────────────────────
// LEARNING NOTE: package structure
// ────────────────────────────────────────────────────────────────────
// All handler files share the "handlers" package so they can call each
// other's helpers without exporting them. Files are split by dashboard
// page (clients, schedule, revenue, reviews, coupons, conversations,
// profile) purely for readability.
//
// The central type is Server. It holds what every handler needs: the
// repository, the JWT secret, the realtime hub, a logger and a clock.
// Tests build their own Server over an in-memory backend and a fixed
// clock, so no test depends on the wall time or on another test's data.
//
// Every response uses the same envelope:
//
//	{"success": true,  "data": ...}
//	{"success": false, "error": "..."}
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/trainerhub/backend/internal/middleware"
	"github.com/trainerhub/backend/internal/realtime"
	"github.com/trainerhub/backend/internal/repository"
)

// respond writes data inside a success envelope.
// Content-Type must be set before WriteHeader flushes the headers.
func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring the encode error: if the client disconnected mid-write
	// there is nothing useful we can do.
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

// respondError writes a failure envelope, e.g.
// {"success": false, "error": "client not found"}.
func respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}

// decode reads and parses a JSON request body into v. Unknown fields are
// ignored so older dashboards keep working.
func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// Server holds shared dependencies for all handlers.
type Server struct {
	Repo *repository.Repo
	// Secret is the HMAC key used to sign and verify JWTs.
	Secret string
	// Hub is optional; without it no realtime messages are sent.
	Hub    *realtime.Hub
	Logger *slog.Logger
	// Now is the clock; nil means time.Now.
	Now func() time.Time

	// couponLocks holds one *sync.Mutex per trainer ID.
	couponLocks sync.Map
}

// lockCoupons serializes coupon writes for one trainer so the code
// uniqueness check and the write happen as one step. It returns the unlock
// func.
func (s *Server) lockCoupons(id string) func() {
	v, _ := s.couponLocks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// trainerID is the authenticated user. Every /api/trainer route is scoped
// to it.
func trainerID(r *http.Request) string {
	return middleware.GetUserID(r.Context())
}

// storageError maps a repository error to a response. Not-found becomes
// 404 with the given message; anything else is logged and becomes 500.
func (s *Server) storageError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, notFound)
		return
	}
	s.logger().ErrorContext(r.Context(), "storage error",
		"method", r.Method, "path", r.URL.Path, "err", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// maintenance reports the platform maintenance switch for the middleware.
func (s *Server) maintenance(ctx context.Context) (bool, string) {
	settings, err := s.Repo.Settings(ctx)
	if err != nil {
		s.logger().WarnContext(ctx, "read settings", "err", err)
		return false, ""
	}
	return settings.MaintenanceMode, settings.MaintenanceMessage
}

// push sends a realtime message to one trainer. Delivery is best effort.
func (s *Server) push(ctx context.Context, userID, typ string, payload any) {
	if s.Hub == nil {
		return
	}
	if _, err := s.Hub.Publish(ctx, realtime.ToUser(userID), typ, payload); err != nil {
		s.logger().WarnContext(ctx, "realtime push failed", "type", typ, "err", err)
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
