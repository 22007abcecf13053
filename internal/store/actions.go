package store

import (
	"time"

	"github.com/trainerhub/backend/internal/models"
)

// Action is a transition message. The set is closed: only the types in this
// file implement it.
type Action interface {
	apply(State) State
}

// Reduce maps a snapshot and a message to the next snapshot. It never fails
// and never modifies s; a nil action returns s unchanged.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

// SetLoading sets the global loading flag.
type SetLoading struct{ Loading bool }

func (a SetLoading) apply(s State) State {
	s.Loading = a.Loading
	return s
}

// SetClientsLoading sets the clients loading flag.
type SetClientsLoading struct{ Loading bool }

func (a SetClientsLoading) apply(s State) State {
	s.ClientsLoading = a.Loading
	return s
}

// SetScheduleLoading sets the schedule loading flag.
type SetScheduleLoading struct{ Loading bool }

func (a SetScheduleLoading) apply(s State) State {
	s.ScheduleLoading = a.Loading
	return s
}

// SetError records a failure message and clears the global loading flag.
type SetError struct{ Message string }

func (a SetError) apply(s State) State {
	s.Error = a.Message
	s.Loading = false
	return s
}

// ClearError drops the current error message.
type ClearError struct{}

func (ClearError) apply(s State) State {
	s.Error = ""
	return s
}

// SetDashboardData replaces the dashboard header, stats and today's schedule.
// Once a client list is held, the client counters keep following it rather
// than the server's figures.
type SetDashboardData struct {
	Data   models.DashboardData
	Source Source
}

func (a SetDashboardData) apply(s State) State {
	s.Dashboard = a.Data.Dashboard
	s.Dashboard.RecentActivity = clone(a.Data.Dashboard.RecentActivity)
	s.Stats = a.Data.Stats
	s.TodaySchedule = clone(a.Data.TodaySchedule)
	s.Sources.Dashboard = orLive(a.Source)
	s.Loading = false
	if len(s.Clients) > 0 {
		s = withClientStats(s)
	}
	return s
}

// SetClients replaces the client list.
type SetClients struct {
	Clients []models.Client
	Source  Source
}

func (a SetClients) apply(s State) State {
	s.Clients = clone(a.Clients)
	s.Sources.Clients = orLive(a.Source)
	s.ClientsLoading = false
	return withClientStats(s)
}

// AddClient appends one client.
type AddClient struct{ Client models.Client }

func (a AddClient) apply(s State) State {
	next := make([]models.Client, 0, len(s.Clients)+1)
	next = append(next, s.Clients...)
	s.Clients = append(next, a.Client)
	return withClientStats(s)
}

// UpdateClient replaces the client with the same ID. An unknown ID leaves
// the list as it was.
type UpdateClient struct{ Client models.Client }

func (a UpdateClient) apply(s State) State {
	next := clone(s.Clients)
	for i := range next {
		if next[i].ID == a.Client.ID {
			next[i] = a.Client
		}
	}
	s.Clients = next
	return withClientStats(s)
}

// RemoveClient drops the client with the given ID.
type RemoveClient struct{ ID string }

func (a RemoveClient) apply(s State) State {
	next := make([]models.Client, 0, len(s.Clients))
	for _, c := range s.Clients {
		if c.ID != a.ID {
			next = append(next, c)
		}
	}
	s.Clients = next
	return withClientStats(s)
}

func withClientStats(s State) State {
	s.Stats.TotalClients, s.Stats.ActiveClients = ClientStats(s.Clients)
	return s
}

// SetSchedule replaces the schedule list for the currently viewed date.
type SetSchedule struct {
	Schedule []models.ScheduleEntry
	Source   Source
}

func (a SetSchedule) apply(s State) State {
	s.Schedule = clone(a.Schedule)
	s.Stats.PendingBookings = PendingBookings(s.Schedule)
	s.Sources.Schedule = orLive(a.Source)
	s.ScheduleLoading = false
	return s
}

// SetRevenue replaces the finance snapshot.
type SetRevenue struct {
	Revenue models.RevenueSummary
	Source  Source
}

func (a SetRevenue) apply(s State) State {
	s.Revenue = a.Revenue
	s.Revenue.Transactions = clone(a.Revenue.Transactions)
	s.Sources.Revenue = orLive(a.Source)
	return s
}

// SetProfile replaces the trainer profile.
type SetProfile struct {
	Profile models.Profile
	Source  Source
}

func (a SetProfile) apply(s State) State {
	s.Profile = a.Profile
	s.Profile.Specializations = clone(a.Profile.Specializations)
	s.Profile.Certifications = clone(a.Profile.Certifications)
	s.Sources.Profile = orLive(a.Source)
	return s
}

// SetPackages replaces the package list.
type SetPackages struct {
	Packages []models.Package
	Source   Source
}

func (a SetPackages) apply(s State) State {
	s.Packages = clone(a.Packages)
	s.Sources.Packages = orLive(a.Source)
	return s
}

// SetConversations replaces the conversation list and recomputes the unread
// total.
type SetConversations struct {
	Conversations []models.Conversation
	Source        Source
}

func (a SetConversations) apply(s State) State {
	s.Conversations = clone(a.Conversations)
	s.UnreadCount = UnreadTotal(s.Conversations)
	s.Sources.Conversations = orLive(a.Source)
	return s
}

// SetReviews replaces the review list and recomputes count and average.
type SetReviews struct {
	Reviews []models.Review
	Source  Source
}

func (a SetReviews) apply(s State) State {
	s.Reviews = clone(a.Reviews)
	s.TotalReviews = len(s.Reviews)
	s.AverageRating = AverageRating(s.Reviews)
	s.Sources.Reviews = orLive(a.Source)
	return s
}

// SetCoupons replaces the coupon list and recomputes the active subset as
// of At.
type SetCoupons struct {
	Coupons []models.Coupon
	At      time.Time
	Source  Source
}

func (a SetCoupons) apply(s State) State {
	s.Coupons = clone(a.Coupons)
	s.ActiveCoupons = ActiveCoupons(s.Coupons, a.At)
	s.Sources.Coupons = orLive(a.Source)
	return s
}
