package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/trainerhub/backend/internal/auth"
	"github.com/trainerhub/backend/internal/db"
	"github.com/trainerhub/backend/internal/middleware"
	"github.com/trainerhub/backend/internal/models"
	"github.com/trainerhub/backend/internal/repository"
	"github.com/trainerhub/backend/internal/seed"
)

const testSecret = "handler-test-secret"

// testNow is a Monday morning; the seed data is laid out around it.
var testNow = time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

// newTestServer creates a Server over a fresh in-memory backend loaded with
// the demo data and a fixed clock.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo := repository.New(db.NewMemory())
	if _, err := seed.Load(context.Background(), repo, testNow); err != nil {
		t.Fatalf("newTestServer: seed: %v", err)
	}
	return &Server{Repo: repo, Secret: testSecret, Now: func() time.Time { return testNow }}
}

// jsonBody encodes v to JSON and returns a bytes.Buffer.
func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("jsonBody: %v", err)
	}
	return buf
}

// ctxWithUser attaches a user_id and role to a request's context (simulates Authenticate middleware).
func ctxWithUser(r *http.Request, userID, role string) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), userID, role))
}

func tokenFor(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, role, testSecret)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

// do sends a request through the full route table.
func do(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		buf = jsonBody(t, body)
	} else {
		buf = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

// envelope decodes a success envelope's data into T.
func envelope[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Success bool   `json:"success"`
		Data    T      `json:"data"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !env.Success {
		t.Fatalf("expected success envelope, got error %q", env.Error)
	}
	return env.Data
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Success {
		t.Fatal("expected failure envelope")
	}
	return env.Error
}

// ---- Auth handler tests ----

func TestLogin_Success(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(t, models.LoginRequest{
		Email:    " SAM@trainerhub.test ",
		Password: seed.DemoPassword,
	}))
	rec := httptest.NewRecorder()
	srv.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "passwordHash") {
		t.Fatal("password hash leaked into the response")
	}
	resp := envelope[models.LoginResponse](t, rec)
	if resp.Token == "" {
		t.Error("expected non-empty token")
	}
	if resp.User.ID != seed.TrainerID || resp.User.Role != models.RoleTrainer {
		t.Errorf("user: got %+v", resp.User)
	}

	claims, err := auth.ParseToken(resp.Token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != seed.TrainerID {
		t.Errorf("token user: got %q", claims.UserID)
	}

	stored, _ := srv.Repo.Users().Get(context.Background(), seed.TrainerID)
	if stored.LastLoginAt == nil || !stored.LastLoginAt.Equal(testNow) {
		t.Errorf("lastLoginAt not recorded: %v", stored.LastLoginAt)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email: seed.TrainerEmail, Password: "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email: "nobody@trainerhub.test", Password: seed.DemoPassword,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: seed.TrainerEmail})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLogin_Suspended(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	u, _ := srv.Repo.Users().Get(ctx, seed.TrainerID)
	u.Status = models.UserSuspended
	if err := srv.Repo.Users().Put(ctx, u); err != nil {
		t.Fatalf("Put: %v", err)
	}

	rec := do(t, srv, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email: seed.TrainerEmail, Password: seed.DemoPassword,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestMe(t *testing.T) {
	srv := newTestServer(t)
	req := ctxWithUser(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), seed.AdminID, "admin")
	rec := httptest.NewRecorder()
	srv.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	u := envelope[models.User](t, rec)
	if u.Email != seed.AdminEmail {
		t.Errorf("email: got %q", u.Email)
	}
}

func TestMe_Unknown(t *testing.T) {
	srv := newTestServer(t)
	req := ctxWithUser(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), "ghost", "trainer")
	rec := httptest.NewRecorder()
	srv.Me(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
