package dashboard

import (
	"context"
	"strings"

	"github.com/trainerhub/backend/internal/models"
	"github.com/trainerhub/backend/internal/store"
)

// ---- Dashboard ----

func (d *Dashboard) LoadDashboard(ctx context.Context) error {
	d.dispatch(ctx, store.SetLoading{Loading: true})
	data, err := d.api.GetDashboardData(ctx)
	if err != nil {
		return d.fail(ctx, "loadDashboard", err, "Failed to load dashboard", globalDone)
	}
	d.dispatch(ctx, store.SetDashboardData{Data: data})
	return nil
}

// RefreshDashboard re-fetches the home page, clients, today's schedule and
// revenue in one call and applies the four transitions together.
func (d *Dashboard) RefreshDashboard(ctx context.Context) error {
	d.dispatch(ctx, store.SetLoading{Loading: true})
	data, err := d.api.RefreshDashboard(ctx)
	if err != nil {
		return d.fail(ctx, "refreshDashboard", err, "Failed to refresh dashboard", globalDone)
	}
	d.dispatch(ctx,
		store.SetDashboardData{Data: data.DashboardData},
		store.SetClients{Clients: data.Clients},
		store.SetSchedule{Schedule: data.Schedule},
		store.SetRevenue{Revenue: data.Revenue},
	)
	return nil
}

// ---- Clients ----

func (d *Dashboard) LoadClients(ctx context.Context) error {
	d.dispatch(ctx, store.SetClientsLoading{Loading: true})
	clients, err := d.api.GetClients(ctx)
	if err != nil {
		err = d.fail(ctx, "loadClients", err, "Failed to load clients", clientsDone)
		if d.fallback != nil {
			d.dispatch(ctx, store.SetClients{Clients: d.fallback.Clients, Source: store.SourceFallback})
		}
		return err
	}
	d.dispatch(ctx, store.SetClients{Clients: clients})
	return nil
}

func validClient(req models.ClientRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return invalid("client name is required")
	}
	return nil
}

func (d *Dashboard) AddClient(ctx context.Context, req models.ClientRequest) (models.Client, error) {
	if err := validClient(req); err != nil {
		return models.Client{}, err
	}
	d.dispatch(ctx, store.SetClientsLoading{Loading: true})
	c, err := d.api.AddClient(ctx, req)
	if err != nil {
		return models.Client{}, d.fail(ctx, "addClient", err, "Failed to add client", clientsDone)
	}
	d.dispatch(ctx, store.AddClient{Client: c}, clientsDone)
	return c, nil
}

func (d *Dashboard) UpdateClient(ctx context.Context, id string, req models.ClientRequest) (models.Client, error) {
	if err := validClient(req); err != nil {
		return models.Client{}, err
	}
	d.dispatch(ctx, store.SetClientsLoading{Loading: true})
	c, err := d.api.UpdateClient(ctx, id, req)
	if err != nil {
		return models.Client{}, d.fail(ctx, "updateClient", err, "Failed to update client", clientsDone)
	}
	d.dispatch(ctx, store.UpdateClient{Client: c}, clientsDone)
	return c, nil
}

func (d *Dashboard) RemoveClient(ctx context.Context, id string) error {
	d.dispatch(ctx, store.SetClientsLoading{Loading: true})
	if err := d.api.RemoveClient(ctx, id); err != nil {
		return d.fail(ctx, "removeClient", err, "Failed to remove client", clientsDone)
	}
	d.dispatch(ctx, store.RemoveClient{ID: id}, clientsDone)
	return nil
}

// ---- Schedule ----

func (d *Dashboard) LoadSchedule(ctx context.Context, date string) error {
	d.dispatch(ctx, store.SetScheduleLoading{Loading: true})
	entries, err := d.api.GetSchedule(ctx, date)
	if err != nil {
		return d.fail(ctx, "loadSchedule", err, "Failed to load schedule", scheduleDone)
	}
	d.dispatch(ctx, store.SetSchedule{Schedule: entries})
	return nil
}

func validSession(req models.SessionRequest) error {
	if strings.TrimSpace(req.Date) == "" || strings.TrimSpace(req.Time) == "" {
		return invalid("date and time are required")
	}
	return nil
}

// CreateSession books a session and reloads that day's schedule.
func (d *Dashboard) CreateSession(ctx context.Context, req models.SessionRequest) (models.ScheduleEntry, error) {
	if err := validSession(req); err != nil {
		return models.ScheduleEntry{}, err
	}
	d.dispatch(ctx, store.SetScheduleLoading{Loading: true})
	e, err := d.api.CreateSession(ctx, req)
	if err != nil {
		return models.ScheduleEntry{}, d.fail(ctx, "createSession", err, "Failed to create session", scheduleDone)
	}
	return e, d.LoadSchedule(ctx, sessionDate(e, req))
}

func (d *Dashboard) UpdateSession(ctx context.Context, id string, req models.SessionRequest) (models.ScheduleEntry, error) {
	if err := validSession(req); err != nil {
		return models.ScheduleEntry{}, err
	}
	d.dispatch(ctx, store.SetScheduleLoading{Loading: true})
	e, err := d.api.UpdateSession(ctx, id, req)
	if err != nil {
		return models.ScheduleEntry{}, d.fail(ctx, "updateSession", err, "Failed to update session", scheduleDone)
	}
	return e, d.LoadSchedule(ctx, sessionDate(e, req))
}

func sessionDate(e models.ScheduleEntry, req models.SessionRequest) string {
	if e.Date != "" {
		return e.Date
	}
	return req.Date
}

// ---- Revenue ----

func (d *Dashboard) LoadRevenue(ctx context.Context) error {
	d.dispatch(ctx, store.SetLoading{Loading: true})
	rev, err := d.api.GetRevenue(ctx)
	if err != nil {
		return d.fail(ctx, "loadRevenue", err, "Failed to load revenue", globalDone)
	}
	d.dispatch(ctx, store.SetRevenue{Revenue: rev}, globalDone)
	return nil
}

// ---- Reviews ----

func (d *Dashboard) LoadReviews(ctx context.Context) error {
	d.dispatch(ctx, store.SetLoading{Loading: true})
	reviews, err := d.api.GetReviews(ctx)
	if err != nil {
		err = d.fail(ctx, "loadReviews", err, "Failed to load reviews", globalDone)
		if d.fallback != nil {
			d.dispatch(ctx, store.SetReviews{Reviews: d.fallback.Reviews, Source: store.SourceFallback})
		}
		return err
	}
	d.dispatch(ctx, store.SetReviews{Reviews: reviews}, globalDone)
	return nil
}

func (d *Dashboard) RespondToReview(ctx context.Context, id, reply string) error {
	if strings.TrimSpace(reply) == "" {
		return invalid("reply is required")
	}
	d.dispatch(ctx, store.SetLoading{Loading: true})
	if err := d.api.RespondToReview(ctx, id, reply); err != nil {
		return d.fail(ctx, "respondToReview", err, "Failed to respond to review", globalDone)
	}
	return d.LoadReviews(ctx)
}

// ---- Coupons ----

func (d *Dashboard) LoadCoupons(ctx context.Context) error {
	d.dispatch(ctx, store.SetLoading{Loading: true})
	coupons, err := d.api.GetCoupons(ctx)
	if err != nil {
		err = d.fail(ctx, "loadCoupons", err, "Failed to load coupons", globalDone)
		if d.fallback != nil {
			d.dispatch(ctx, store.SetCoupons{Coupons: d.fallback.Coupons, At: d.now(), Source: store.SourceFallback})
		}
		return err
	}
	d.dispatch(ctx, store.SetCoupons{Coupons: coupons, At: d.now()}, globalDone)
	return nil
}

func validCoupon(req models.CouponRequest) error {
	if strings.TrimSpace(req.Code) == "" {
		return invalid("coupon code is required")
	}
	return nil
}

// couponWrite runs one coupon mutation and reloads the list.
func (d *Dashboard) couponWrite(ctx context.Context, op, msg string, call func() error) error {
	d.dispatch(ctx, store.SetLoading{Loading: true})
	if err := call(); err != nil {
		return d.fail(ctx, op, err, msg, globalDone)
	}
	return d.LoadCoupons(ctx)
}

func (d *Dashboard) CreateCoupon(ctx context.Context, req models.CouponRequest) error {
	if err := validCoupon(req); err != nil {
		return err
	}
	return d.couponWrite(ctx, "createCoupon", "Failed to create coupon", func() error {
		_, err := d.api.CreateCoupon(ctx, req)
		return err
	})
}

func (d *Dashboard) UpdateCoupon(ctx context.Context, id string, req models.CouponRequest) error {
	if err := validCoupon(req); err != nil {
		return err
	}
	return d.couponWrite(ctx, "updateCoupon", "Failed to update coupon", func() error {
		_, err := d.api.UpdateCoupon(ctx, id, req)
		return err
	})
}

func (d *Dashboard) DeleteCoupon(ctx context.Context, id string) error {
	return d.couponWrite(ctx, "deleteCoupon", "Failed to delete coupon", func() error {
		return d.api.DeleteCoupon(ctx, id)
	})
}

func (d *Dashboard) ToggleCoupon(ctx context.Context, id string) error {
	return d.couponWrite(ctx, "toggleCoupon", "Failed to toggle coupon", func() error {
		_, err := d.api.ToggleCoupon(ctx, id)
		return err
	})
}

// ---- Conversations ----

func (d *Dashboard) LoadConversations(ctx context.Context) error {
	d.dispatch(ctx, store.SetLoading{Loading: true})
	convs, err := d.api.GetConversations(ctx)
	if err != nil {
		err = d.fail(ctx, "loadConversations", err, "Failed to load conversations", globalDone)
		if d.fallback != nil {
			d.dispatch(ctx, store.SetConversations{Conversations: d.fallback.Conversations, Source: store.SourceFallback})
		}
		return err
	}
	d.dispatch(ctx, store.SetConversations{Conversations: convs}, globalDone)
	return nil
}

// UpdateUnreadCount polls the server's unread total and reloads the
// conversations when it no longer matches the store. It is a background
// poll, so it does not raise the loading flag.
func (d *Dashboard) UpdateUnreadCount(ctx context.Context) (int, error) {
	n, err := d.api.UpdateUnreadCount(ctx)
	if err != nil {
		return 0, d.fail(ctx, "updateUnreadCount", err, "Failed to update unread count", globalDone)
	}
	if n != d.store.Snapshot().UnreadCount {
		if err := d.LoadConversations(ctx); err != nil {
			return n, err
		}
	}
	return n, nil
}

// ---- Profile & packages ----

func (d *Dashboard) LoadProfile(ctx context.Context) error {
	d.dispatch(ctx, store.SetLoading{Loading: true})
	p, err := d.api.GetProfile(ctx)
	if err != nil {
		return d.fail(ctx, "loadProfile", err, "Failed to load profile", globalDone)
	}
	d.dispatch(ctx, store.SetProfile{Profile: p}, globalDone)
	return nil
}

func (d *Dashboard) UpdateProfile(ctx context.Context, req models.ProfileRequest) (models.Profile, error) {
	d.dispatch(ctx, store.SetLoading{Loading: true})
	p, err := d.api.UpdateProfile(ctx, req)
	if err != nil {
		return models.Profile{}, d.fail(ctx, "updateProfile", err, "Failed to update profile", globalDone)
	}
	d.dispatch(ctx, store.SetProfile{Profile: p}, globalDone)
	return p, nil
}

func (d *Dashboard) LoadPackages(ctx context.Context) error {
	d.dispatch(ctx, store.SetLoading{Loading: true})
	pkgs, err := d.api.GetPackages(ctx)
	if err != nil {
		err = d.fail(ctx, "loadPackages", err, "Failed to load packages", globalDone)
		if d.fallback != nil {
			d.dispatch(ctx, store.SetPackages{Packages: d.fallback.Packages, Source: store.SourceFallback})
		}
		return err
	}
	d.dispatch(ctx, store.SetPackages{Packages: pkgs}, globalDone)
	return nil
}
