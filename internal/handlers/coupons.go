package handlers

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/trainerhub/backend/internal/models"
)

var hundred = decimal.NewFromInt(100)

// withValidity fills IsValid: inside the validity window and under the
// usage limit (0 = unlimited).
func withValidity(c models.Coupon, now time.Time) models.Coupon {
	c.IsValid = c.InWindow(now) && (c.UsageLimit == 0 || c.UsedCount < c.UsageLimit)
	return c
}

// ListCoupons handles GET /api/trainer/coupons (newest first)
func (s *Server) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := s.Repo.Coupons(trainerID(r)).List(r.Context())
	if err != nil {
		s.storageError(w, r, err, "")
		return
	}
	now := s.now()
	for i := range coupons {
		coupons[i] = withValidity(coupons[i], now)
	}
	sort.SliceStable(coupons, func(i, j int) bool { return coupons[i].CreatedAt.After(coupons[j].CreatedAt) })
	respond(w, http.StatusOK, coupons)
}

// applyCouponRequest validates req and copies it onto c. Codes are stored
// upper-case and must be unique among the trainer's coupons.
func (s *Server) applyCouponRequest(ctx context.Context, trainerID string, req models.CouponRequest, c *models.Coupon) (string, int, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return "coupon code is required", http.StatusBadRequest, nil
	}
	switch req.DiscountType {
	case models.DiscountPercentage:
		if req.DiscountValue.GreaterThan(hundred) {
			return "percentage discount cannot exceed 100", http.StatusBadRequest, nil
		}
	case models.DiscountFixed:
	default:
		return "discountType must be 'percentage' or 'fixed'", http.StatusBadRequest, nil
	}
	if !req.DiscountValue.IsPositive() {
		return "discountValue must be positive", http.StatusBadRequest, nil
	}
	if req.UsageLimit < 0 {
		return "usageLimit must not be negative", http.StatusBadRequest, nil
	}
	if req.ValidFrom != nil && req.ValidUntil != nil && req.ValidUntil.Before(*req.ValidFrom) {
		return "validUntil must be after validFrom", http.StatusBadRequest, nil
	}

	existing, err := s.Repo.Coupons(trainerID).List(ctx)
	if err != nil {
		return "", 0, err
	}
	for _, other := range existing {
		if other.ID != c.ID && other.Code == code {
			return "coupon code already exists", http.StatusConflict, nil
		}
	}

	c.Code = code
	c.Description = req.Description
	c.DiscountType = req.DiscountType
	c.DiscountValue = req.DiscountValue
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	c.ValidFrom = req.ValidFrom
	c.ValidUntil = req.ValidUntil
	c.UsageLimit = req.UsageLimit
	return "", 0, nil
}

// CreateCoupon handles POST /api/trainer/coupons
func (s *Server) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req models.CouponRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	id := trainerID(r)
	defer s.lockCoupons(id)()
	now := s.now()
	c := models.Coupon{ID: uuid.NewString(), IsActive: true, CreatedAt: now}
	msg, status, err := s.applyCouponRequest(r.Context(), id, req, &c)
	if err != nil {
		s.storageError(w, r, err, "")
		return
	}
	if msg != "" {
		respondError(w, status, msg)
		return
	}
	if err := s.Repo.Coupons(id).Put(r.Context(), c); err != nil {
		s.storageError(w, r, err, "")
		return
	}
	respond(w, http.StatusCreated, withValidity(c, now))
}

// UpdateCoupon handles PUT /api/trainer/coupons/{id}
func (s *Server) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	var req models.CouponRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	id := trainerID(r)
	defer s.lockCoupons(id)()
	coupons := s.Repo.Coupons(id)
	c, err := coupons.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storageError(w, r, err, "coupon not found")
		return
	}
	msg, status, err := s.applyCouponRequest(r.Context(), id, req, &c)
	if err != nil {
		s.storageError(w, r, err, "")
		return
	}
	if msg != "" {
		respondError(w, status, msg)
		return
	}
	if err := coupons.Put(r.Context(), c); err != nil {
		s.storageError(w, r, err, "")
		return
	}
	respond(w, http.StatusOK, withValidity(c, s.now()))
}

// DeleteCoupon handles DELETE /api/trainer/coupons/{id}
func (s *Server) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	couponID := r.PathValue("id")
	if err := s.Repo.Coupons(trainerID(r)).Delete(r.Context(), couponID); err != nil {
		s.storageError(w, r, err, "coupon not found")
		return
	}
	respond(w, http.StatusOK, map[string]string{"id": couponID})
}

// ToggleCoupon handles PATCH /api/trainer/coupons/{id}/toggle
func (s *Server) ToggleCoupon(w http.ResponseWriter, r *http.Request) {
	coupons := s.Repo.Coupons(trainerID(r))
	c, err := coupons.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storageError(w, r, err, "coupon not found")
		return
	}
	c.IsActive = !c.IsActive
	if err := coupons.Put(r.Context(), c); err != nil {
		s.storageError(w, r, err, "")
		return
	}
	respond(w, http.StatusOK, withValidity(c, s.now()))
}
