package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/trainerhub/backend/internal/auth"
	"github.com/trainerhub/backend/internal/middleware"
	"github.com/trainerhub/backend/internal/models"
	"github.com/trainerhub/backend/internal/repository"
)

// Login handles POST /api/auth/login
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := s.Repo.UserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.storageError(w, r, err, "")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if user.Status == models.UserSuspended {
		respondError(w, http.StatusForbidden, "account suspended")
		return
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role), s.Secret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not generate token")
		return
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.Repo.Users().Put(r.Context(), user); err != nil {
		s.logger().WarnContext(r.Context(), "record last login", "userId", user.ID, "err", err)
	}

	s.logger().InfoContext(r.Context(), "user logged in", "userId", user.ID, "role", user.Role)
	respond(w, http.StatusOK, models.LoginResponse{Token: token, User: user.User})
}

// Me handles GET /api/auth/me
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	user, err := s.Repo.Users().Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		s.storageError(w, r, err, "user not found")
		return
	}
	respond(w, http.StatusOK, user.User)
}
