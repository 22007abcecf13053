package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/trainerhub/backend/internal/models"
	"github.com/trainerhub/backend/internal/store"
)

const recentActivityLimit = 5

func greeting(now time.Time, name string) string {
	first := strings.Fields(name)
	part := "evening"
	switch h := now.Hour(); {
	case h < 12:
		part = "morning"
	case h < 18:
		part = "afternoon"
	}
	if len(first) == 0 {
		return fmt.Sprintf("Good %s", part)
	}
	return fmt.Sprintf("Good %s, %s", part, first[0])
}

// dashboardData assembles the home page. The independent lists are read
// concurrently.
func (s *Server) dashboardData(ctx context.Context, trainerID string) (models.DashboardData, error) {
	var (
		profile  models.Profile
		clients  []models.Client
		sessions []models.ScheduleEntry
		reviews  []models.Review
		revenue  models.RevenueSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile, err = s.profile(gctx, trainerID)
		return err
	})
	g.Go(func() (err error) {
		clients, err = s.Repo.Clients(trainerID).List(gctx)
		return err
	})
	g.Go(func() (err error) {
		sessions, err = s.Repo.Sessions(trainerID).List(gctx)
		return err
	})
	g.Go(func() (err error) {
		reviews, err = s.Repo.Reviews(trainerID).List(gctx)
		return err
	})
	g.Go(func() (err error) {
		revenue, err = s.revenue(gctx, trainerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.DashboardData{}, err
	}

	now := s.now()
	today := now.Format(models.DateLayout)
	todaySchedule := sessionsOn(sessions, today)

	upcoming := 0
	for _, e := range sessions {
		if e.Date >= today && (e.Status == models.SessionPending || e.Status == models.SessionConfirmed) {
			upcoming++
		}
	}
	todayCount := 0
	for _, e := range todaySchedule {
		if e.Status != models.SessionCancelled {
			todayCount++
		}
	}

	total, active := store.ClientStats(clients)
	return models.DashboardData{
		Dashboard: models.Dashboard{
			TrainerName:      profile.Name,
			Greeting:         greeting(now, profile.Name),
			UpcomingSessions: upcoming,
			RecentActivity:   recentActivity(revenue.Transactions, reviews, clients),
		},
		Stats: models.Stats{
			TotalClients:    total,
			ActiveClients:   active,
			PendingBookings: store.PendingBookings(sessions),
			TodaySessions:   todayCount,
			MonthlyEarnings: revenue.Month,
			AverageRating:   store.AverageRating(reviews),
		},
		TodaySchedule: todaySchedule,
	}, nil
}

func recentActivity(txns []models.Transaction, reviews []models.Review, clients []models.Client) []models.Activity {
	out := []models.Activity{}
	for _, t := range txns {
		if t.Status != models.TransactionCompleted {
			continue
		}
		out = append(out, models.Activity{
			ID: "txn-" + t.ID, Kind: "payment", At: t.Date,
			Message: fmt.Sprintf("%s paid %s for %s", t.ClientName, t.Amount.StringFixed(2), t.Description),
		})
	}
	for _, rv := range reviews {
		out = append(out, models.Activity{
			ID: "review-" + rv.ID, Kind: "review", At: rv.CreatedAt,
			Message: fmt.Sprintf("%s left a %d-star review", rv.ClientName, rv.Rating),
		})
	}
	for _, c := range clients {
		out = append(out, models.Activity{
			ID: "client-" + c.ID, Kind: "client", At: c.JoinedAt,
			Message: fmt.Sprintf("%s joined", c.Name),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	if len(out) > recentActivityLimit {
		out = out[:recentActivityLimit]
	}
	return out
}

// GetDashboard handles GET /api/trainer/dashboard
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := s.dashboardData(r.Context(), trainerID(r))
	if err != nil {
		s.storageError(w, r, err, "trainer profile not found")
		return
	}
	respond(w, http.StatusOK, data)
}

// RefreshDashboard handles GET /api/trainer/dashboard/refresh
//
// It returns everything the home page and the two busiest pages need in
// one round trip, so the dashboard can repaint after being offline.
func (s *Server) RefreshDashboard(w http.ResponseWriter, r *http.Request) {
	id := trainerID(r)
	var out models.RefreshData

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		out.DashboardData, err = s.dashboardData(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		out.Clients, err = s.Repo.Clients(id).List(ctx)
		return err
	})
	g.Go(func() error {
		sessions, err := s.Repo.Sessions(id).List(ctx)
		out.Schedule = sessionsOn(sessions, s.now().Format(models.DateLayout))
		return err
	})
	g.Go(func() (err error) {
		out.Revenue, err = s.revenue(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		s.storageError(w, r, err, "trainer profile not found")
		return
	}
	respond(w, http.StatusOK, out)
}
