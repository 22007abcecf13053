package handlers

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trainerhub/backend/internal/models"
)

// sessionsOn returns the sessions on date ordered by start time.
func sessionsOn(sessions []models.ScheduleEntry, date string) []models.ScheduleEntry {
	out := []models.ScheduleEntry{}
	for _, e := range sessions {
		if e.Date == date {
			out = append(out, e)
		}
	}
	// HH:MM sorts lexically
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// GetSchedule handles GET /api/trainer/schedule?date=YYYY-MM-DD
// Without a date, today's schedule is returned.
func (s *Server) GetSchedule(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.now().Format(models.DateLayout)
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	sessions, err := s.Repo.Sessions(trainerID(r)).List(r.Context())
	if err != nil {
		s.storageError(w, r, err, "")
		return
	}
	respond(w, http.StatusOK, sessionsOn(sessions, date))
}

var (
	sessionTypes    = map[models.SessionType]bool{models.SessionPersonal: true, models.SessionGroup: true, models.SessionOnline: true}
	sessionStatuses = map[models.SessionStatus]bool{
		models.SessionPending: true, models.SessionConfirmed: true,
		models.SessionCancelled: true, models.SessionCompleted: true,
	}
)

func (s *Server) applySessionRequest(ctx context.Context, trainerID string, req models.SessionRequest, e *models.ScheduleEntry) (string, error) {
	if req.Date == "" || req.Time == "" {
		return "date and time are required", nil
	}
	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		return "date must be YYYY-MM-DD", nil
	}
	if _, err := time.Parse(models.TimeLayout, req.Time); err != nil {
		return "time must be HH:MM", nil
	}
	if req.Duration == 0 {
		req.Duration = 60
	}
	if req.Duration < 0 {
		return "duration must be positive", nil
	}
	if req.Type == "" {
		req.Type = models.SessionPersonal
	}
	if !sessionTypes[req.Type] {
		return "type must be 'personal', 'group' or 'online'", nil
	}
	if req.Status == "" {
		req.Status = models.SessionPending
	}
	if !sessionStatuses[req.Status] {
		return "unknown session status", nil
	}
	if req.ClientID == "" {
		return "clientId is required", nil
	}
	client, err := s.Repo.Clients(trainerID).Get(ctx, req.ClientID)
	if err != nil {
		return "unknown client", err
	}

	e.Date = req.Date
	e.Time = req.Time
	e.Duration = req.Duration
	e.Type = req.Type
	e.Status = req.Status
	e.ClientID = client.ID
	e.ClientName = client.Name
	e.Location = strings.TrimSpace(req.Location)
	e.Notes = req.Notes
	return "", nil
}

// CreateSession handles POST /api/trainer/sessions
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.SessionRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	id := trainerID(r)
	e := models.ScheduleEntry{ID: uuid.NewString()}
	if msg, err := s.applySessionRequest(r.Context(), id, req, &e); msg != "" || err != nil {
		s.validationError(w, r, msg, err)
		return
	}
	if err := s.Repo.Sessions(id).Put(r.Context(), e); err != nil {
		s.storageError(w, r, err, "")
		return
	}
	respond(w, http.StatusCreated, e)
}

// UpdateSession handles PUT /api/trainer/sessions/{id}
func (s *Server) UpdateSession(w http.ResponseWriter, r *http.Request) {
	var req models.SessionRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	id := trainerID(r)
	sessions := s.Repo.Sessions(id)
	e, err := sessions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storageError(w, r, err, "session not found")
		return
	}
	if msg, err := s.applySessionRequest(r.Context(), id, req, &e); msg != "" || err != nil {
		s.validationError(w, r, msg, err)
		return
	}
	if err := sessions.Put(r.Context(), e); err != nil {
		s.storageError(w, r, err, "")
		return
	}
	respond(w, http.StatusOK, e)
}
