package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/trainerhub/backend/internal/models"
	"github.com/trainerhub/backend/internal/repository"
)

// ListClients handles GET /api/trainer/clients
//
// Query parameters (all optional):
//
//	status=active|inactive
//	q=<text>            matched against name and email, case-insensitive
//	sort=name|joined    default name; joined lists newest first
//	page=<n>&limit=<n>  without limit every match is returned
func (s *Server) ListClients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	status := models.ClientStatus(q.Get("status"))
	if status != "" && status != models.ClientActive && status != models.ClientInactive {
		respondError(w, http.StatusBadRequest, "status must be 'active' or 'inactive'")
		return
	}
	page, err := positiveInt(q.Get("page"), 1)
	if err != nil {
		respondError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	limit, err := positiveInt(q.Get("limit"), 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	all, err := s.Repo.Clients(trainerID(r)).List(r.Context())
	if err != nil {
		s.storageError(w, r, err, "")
		return
	}

	search := strings.TrimSpace(q.Get("q"))
	matched := make([]models.Client, 0, len(all))
	for _, c := range all {
		if status != "" && c.Status != status {
			continue
		}
		if search != "" && !containsFold(c.Name, search) && !containsFold(c.Email, search) {
			continue
		}
		matched = append(matched, c)
	}

	switch q.Get("sort") {
	case "", "name":
		sort.SliceStable(matched, func(i, j int) bool {
			return strings.ToLower(matched[i].Name) < strings.ToLower(matched[j].Name)
		})
	case "joined":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].JoinedAt.After(matched[j].JoinedAt) })
	default:
		respondError(w, http.StatusBadRequest, "sort must be 'name' or 'joined'")
		return
	}

	total := len(matched)
	if limit == 0 {
		limit = max(total, 1)
	}
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	// Pages past the end are empty.
	start, end := total, total
	if page <= totalPages {
		start = (page - 1) * limit
		end = start + min(limit, total-start)
	}

	respond(w, http.StatusOK, models.ClientList{
		Clients: matched[start:end],
		Pagination: models.Page{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

func positiveInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}

// applyClientRequest validates req and copies it onto c.
func (s *Server) applyClientRequest(ctx context.Context, trainerID string, req models.ClientRequest, c *models.Client) (string, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "client name is required", nil
	}
	if req.Status == "" {
		req.Status = models.ClientActive
	}
	if req.Status != models.ClientActive && req.Status != models.ClientInactive {
		return "status must be 'active' or 'inactive'", nil
	}
	if req.SessionsRemaining < 0 {
		return "sessionsRemaining must not be negative", nil
	}

	c.PackageName = ""
	if req.PackageID != "" {
		pkg, err := s.Repo.Packages(trainerID).Get(ctx, req.PackageID)
		if err != nil {
			return "unknown package", err
		}
		c.PackageName = pkg.Name
	}

	c.Name = req.Name
	c.Email = strings.TrimSpace(strings.ToLower(req.Email))
	c.Phone = strings.TrimSpace(req.Phone)
	c.Status = req.Status
	c.PackageID = req.PackageID
	c.SessionsRemaining = req.SessionsRemaining
	c.Goals = req.Goals
	return "", nil
}

// CreateClient handles POST /api/trainer/clients
func (s *Server) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req models.ClientRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	id := trainerID(r)
	c := models.Client{ID: uuid.NewString(), JoinedAt: s.now()}
	if msg, err := s.applyClientRequest(r.Context(), id, req, &c); msg != "" || err != nil {
		s.validationError(w, r, msg, err)
		return
	}

	if err := s.Repo.Clients(id).Put(r.Context(), c); err != nil {
		s.storageError(w, r, err, "")
		return
	}
	s.logger().InfoContext(r.Context(), "client created", "trainerId", id, "clientId", c.ID)
	respond(w, http.StatusCreated, c)
}

// UpdateClient handles PUT /api/trainer/clients/{id}
func (s *Server) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var req models.ClientRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	id := trainerID(r)
	clients := s.Repo.Clients(id)
	c, err := clients.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storageError(w, r, err, "client not found")
		return
	}
	if msg, err := s.applyClientRequest(r.Context(), id, req, &c); msg != "" || err != nil {
		s.validationError(w, r, msg, err)
		return
	}

	if err := clients.Put(r.Context(), c); err != nil {
		s.storageError(w, r, err, "")
		return
	}
	respond(w, http.StatusOK, c)
}

// DeleteClient handles DELETE /api/trainer/clients/{id}
func (s *Server) DeleteClient(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("id")
	if err := s.Repo.Clients(trainerID(r)).Delete(r.Context(), clientID); err != nil {
		s.storageError(w, r, err, "client not found")
		return
	}
	respond(w, http.StatusOK, map[string]string{"id": clientID})
}

// validationError answers 400 with msg, unless err is a storage failure
// other than not-found.
func (s *Server) validationError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.storageError(w, r, err, "")
		return
	}
	respondError(w, http.StatusBadRequest, msg)
}
