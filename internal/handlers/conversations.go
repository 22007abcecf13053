package handlers

import (
	"net/http"
	"sort"

	"github.com/trainerhub/backend/internal/models"
	"github.com/trainerhub/backend/internal/realtime"
	"github.com/trainerhub/backend/internal/store"
)

// ListConversations handles GET /api/trainer/conversations
// (most recent message first)
func (s *Server) ListConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := s.Repo.Conversations(trainerID(r)).List(r.Context())
	if err != nil {
		s.storageError(w, r, err, "")
		return
	}
	sort.SliceStable(convs, func(i, j int) bool { return convs[i].LastMessageAt.After(convs[j].LastMessageAt) })
	respond(w, http.StatusOK, convs)
}

// UnreadCount handles GET /api/trainer/conversations/unread-count
func (s *Server) UnreadCount(w http.ResponseWriter, r *http.Request) {
	convs, err := s.Repo.Conversations(trainerID(r)).List(r.Context())
	if err != nil {
		s.storageError(w, r, err, "")
		return
	}
	respond(w, http.StatusOK, models.UnreadCountResponse{UnreadCount: store.UnreadTotal(convs)})
}

// MarkConversationRead handles POST /api/trainer/conversations/{id}/read
//
// Other dashboards open for the same trainer are told through the
// realtime hub so their unread badge drops too.
func (s *Server) MarkConversationRead(w http.ResponseWriter, r *http.Request) {
	id := trainerID(r)
	convs := s.Repo.Conversations(id)
	c, err := convs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storageError(w, r, err, "conversation not found")
		return
	}
	if c.UnreadCount != 0 {
		c.UnreadCount = 0
		if err := convs.Put(r.Context(), c); err != nil {
			s.storageError(w, r, err, "")
			return
		}
		s.push(r.Context(), id, realtime.TypeConversationUpdated, c)
	}
	respond(w, http.StatusOK, c)
}
