// Package middleware provides the HTTP middleware shared by the trainer
// API and the admin console.
//
// ────────────────────────────────────────────────────────────────────
// LEARNING NOTE: ordering
// ────────────────────────────────────────────────────────────────────
// Middleware wraps a handler and runs code before and/or after it:
//
//	RequestLogger(CORS(mux))
//	Authenticate(RequireRole("trainer")(Maintenance(handler)))
//
// The outermost wrapper runs first. RequestLogger is outermost so the
// access log also records requests that CORS or Authenticate reject.
// Maintenance sits inside RequireRole so that an anonymous caller still
// gets 401, not a maintenance page.
package middleware

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/trainerhub/backend/internal/auth"
)

// contextKey is a private type for context keys in this package.
type contextKey string

const (
	// ContextUserID is the key under which the authenticated user's ID
	// is stored in the request context after Authenticate runs.
	ContextUserID contextKey = "user_id"
	// ContextRole is the key for the user's role ("trainer"/"admin"/"client").
	ContextRole contextKey = "role"
)

// writeError sends the failure half of the response envelope. It matches
// what the handlers package writes so clients only parse one shape.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}

// bearerToken reads "Authorization: Bearer <token>". Browsers cannot set
// headers on a websocket handshake, so a "token" query parameter is
// accepted as well.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// Authenticate is a middleware factory configured with the JWT secret.
//
// Flow:
//  1. Read the bearer token.
//  2. Parse and validate the JWT.
//  3. Store user_id and role in the request context.
//  4. Call the next handler.
//
// If the token is missing or invalid, it responds with 401 and stops.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				writeError(w, http.StatusUnauthorized, "missing or invalid Authorization header")
				return
			}

			claims, err := auth.ParseToken(tokenStr, secret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID, claims.Role)))
		})
	}
}

// WithUser returns ctx carrying the given identity, as Authenticate does.
func WithUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, ContextUserID, userID)
	return context.WithValue(ctx, ContextRole, role)
}

// RequireRole returns a middleware that only allows requests whose context
// role matches one of the given roles. Must be used after Authenticate.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowed[GetRole(r.Context())] {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MaintenanceCheck reports whether the platform is in maintenance mode and
// the message to show while it is.
type MaintenanceCheck func(ctx context.Context) (enabled bool, message string)

// Maintenance answers 503 with the maintenance message while check reports
// the platform is down. A failing check lets the request through.
func Maintenance(check MaintenanceCheck) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if on, msg := check(r.Context()); on {
				if msg == "" {
					msg = "The platform is undergoing maintenance. Please try again later."
				}
				w.Header().Set("Retry-After", "300")
				writeError(w, http.StatusServiceUnavailable, msg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORS adds permissive CORS headers so the dashboard can call the API
// from a different origin (e.g. localhost:5173 in dev).
// The OPTIONS preflight is answered with 204 directly.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// Hijack lets the websocket upgrade take over the connection.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	if s.status == 0 {
		s.status = http.StatusSwitchingProtocols
	}
	return h.Hijack()
}

func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }

// RequestLogger writes one access-log line per request.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= 500 {
				level = slog.LevelError
			} else if status >= 400 {
				level = slog.LevelWarn
			}
			logger.LogAttrs(r.Context(), level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", rec.bytes),
				slog.Duration("latency", time.Since(start)),
			)
		})
	}
}

// GetUserID retrieves the authenticated user's ID from the context.
// Returns an empty string if Authenticate has not run.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(ContextUserID).(string)
	return id
}

// GetRole retrieves the authenticated user's role from the context.
func GetRole(ctx context.Context) string {
	role, _ := ctx.Value(ContextRole).(string)
	return role
}
