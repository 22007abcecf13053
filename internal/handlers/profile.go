package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/trainerhub/backend/internal/models"
	"github.com/trainerhub/backend/internal/repository"
)

// profile returns the stored profile, or a blank one built from the user
// record for a trainer who has never saved one.
func (s *Server) profile(ctx context.Context, trainerID string) (models.Profile, error) {
	p, err := s.Repo.Profiles().Get(ctx, trainerID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return models.Profile{}, err
	}
	u, err := s.Repo.Users().Get(ctx, trainerID)
	if err != nil {
		return models.Profile{}, err
	}
	return models.Profile{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Specializations: []string{},
		Certifications:  []string{},
		HourlyRate:      decimal.Zero,
	}, nil
}

// GetProfile handles GET /api/trainer/profile
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profile(r.Context(), trainerID(r))
	if err != nil {
		s.storageError(w, r, err, "trainer not found")
		return
	}
	respond(w, http.StatusOK, p)
}

// UpdateProfile handles PUT /api/trainer/profile
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.ExperienceYears < 0 {
		respondError(w, http.StatusBadRequest, "experienceYears must not be negative")
		return
	}
	if req.HourlyRate != nil && req.HourlyRate.IsNegative() {
		respondError(w, http.StatusBadRequest, "hourlyRate must not be negative")
		return
	}

	p, err := s.profile(r.Context(), trainerID(r))
	if err != nil {
		s.storageError(w, r, err, "trainer not found")
		return
	}
	p.Name = req.Name
	p.Phone = strings.TrimSpace(req.Phone)
	p.Bio = req.Bio
	p.Specializations = nonNil(req.Specializations)
	p.Certifications = nonNil(req.Certifications)
	p.ExperienceYears = req.ExperienceYears
	if req.HourlyRate != nil {
		p.HourlyRate = *req.HourlyRate
	}
	p.Location = strings.TrimSpace(req.Location)
	p.UpdatedAt = s.now()

	if err := s.Repo.Profiles().Put(r.Context(), p); err != nil {
		s.storageError(w, r, err, "")
		return
	}
	respond(w, http.StatusOK, p)
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// ListPackages handles GET /api/trainer/packages
func (s *Server) ListPackages(w http.ResponseWriter, r *http.Request) {
	pkgs, err := s.Repo.Packages(trainerID(r)).List(r.Context())
	if err != nil {
		s.storageError(w, r, err, "")
		return
	}
	sort.SliceStable(pkgs, func(i, j int) bool { return pkgs[i].Price.LessThan(pkgs[j].Price) })
	respond(w, http.StatusOK, pkgs)
}
