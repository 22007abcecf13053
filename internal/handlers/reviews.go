package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/trainerhub/backend/internal/models"
)

// ListReviews handles GET /api/trainer/reviews (newest first)
func (s *Server) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.Repo.Reviews(trainerID(r)).List(r.Context())
	if err != nil {
		s.storageError(w, r, err, "")
		return
	}
	sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })
	respond(w, http.StatusOK, reviews)
}

// RespondToReview handles POST /api/trainer/reviews/{id}/respond
//
// A review can be answered once; a second reply is rejected with 409 so
// two open dashboards cannot overwrite each other's answer.
func (s *Server) RespondToReview(w http.ResponseWriter, r *http.Request) {
	var req models.ReviewReplyRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Reply = strings.TrimSpace(req.Reply)
	if req.Reply == "" {
		respondError(w, http.StatusBadRequest, "reply is required")
		return
	}

	reviews := s.Repo.Reviews(trainerID(r))
	rv, err := reviews.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storageError(w, r, err, "review not found")
		return
	}
	if rv.Replied {
		respondError(w, http.StatusConflict, "review already has a reply")
		return
	}

	now := s.now()
	rv.Replied = true
	rv.Reply = req.Reply
	rv.RepliedAt = &now
	if err := reviews.Put(r.Context(), rv); err != nil {
		s.storageError(w, r, err, "")
		return
	}
	respond(w, http.StatusOK, rv)
}
