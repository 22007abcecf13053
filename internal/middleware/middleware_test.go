package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/trainerhub/backend/internal/auth"
)

const testSecret = "middleware-test-secret"

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORS_SetsHeaders(t *testing.T) {
	handler := CORS(ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("ACAO header: got %q, want *", got)
	}
}

func TestCORS_PreflightReturns204(t *testing.T) {
	handler := CORS(ok)

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status: got %d, want 204", rec.Code)
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	handler := Authenticate(testSecret)(ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != false || body["error"] == "" {
		t.Errorf("unexpected error envelope: %v", body)
	}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	token, err := auth.GenerateToken("trainer-1", "trainer", testSecret)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var capturedID string
	handler := Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if capturedID != "trainer-1" {
		t.Errorf("user_id: got %q, want trainer-1", capturedID)
	}
}

func TestAuthenticate_QueryToken(t *testing.T) {
	token, _ := auth.GenerateToken("trainer-1", "trainer", testSecret)
	handler := Authenticate(testSecret)(ok)

	req := httptest.NewRequest(http.MethodGet, "/api/trainer/ws?token="+token, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	token, _ := auth.GenerateToken("trainer-2", "trainer", testSecret)

	handler := Authenticate(testSecret)(RequireRole("admin")(ok))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestMaintenance(t *testing.T) {
	on := false
	handler := Maintenance(func(context.Context) (bool, string) {
		return on, "back at noon"
	})(ok)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 outside maintenance, got %d", rec.Code)
	}

	on = true
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "back at noon") {
		t.Errorf("body missing maintenance message: %s", rec.Body.String())
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/trainer/clients", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if line["status"] != float64(http.StatusTeapot) {
		t.Errorf("status: got %v", line["status"])
	}
	if line["path"] != "/api/trainer/clients" || line["method"] != "POST" {
		t.Errorf("unexpected request attrs: %v", line)
	}
	if line["level"] != "WARN" {
		t.Errorf("level: got %v, want WARN", line["level"])
	}
}

func TestRequestLogger_RecordsPreflight(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := RequestLogger(logger)(CORS(ok))

	req := httptest.NewRequest(http.MethodOptions, "/api/trainer/clients", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status: got %d, want 204", rec.Code)
	}
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("preflight was not logged: %v (%q)", err, buf.String())
	}
	if line["method"] != "OPTIONS" || line["status"] != float64(http.StatusNoContent) {
		t.Errorf("unexpected log attrs: %v", line)
	}
}
