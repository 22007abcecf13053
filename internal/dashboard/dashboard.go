// Package dashboard runs the trainer dashboard's actions: each one makes
// an API call and turns the outcome into store transitions.
//
// ────────────────────────────────────────────────────────────────────
// LEARNING NOTE: the action pattern
// ────────────────────────────────────────────────────────────────────
// Every action follows the same four steps:
//
//  1. dispatch "loading = true" for the slice it touches
//  2. call the API with the caller's ctx
//  3. on success dispatch the Set* transition with the payload
//  4. on failure dispatch SetError plus "loading = false" and return the
//     error to the caller as well
//
// Transitions are dispatched with context.WithoutCancel: once a response
// has arrived it is always written, even if the caller gave up meanwhile.
// Two overlapping calls of the same action are not deduplicated; whichever
// response arrives last is what the store ends up holding.
//
// Writes to sessions, reviews and coupons reload the list from the server
// afterwards instead of patching it locally. Client writes patch locally.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trainerhub/backend/internal/models"
	"github.com/trainerhub/backend/internal/store"
)

// ErrValidation marks input rejected before any network call.
var ErrValidation = errors.New("validation failed")

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// API is the trainer API as the dashboard uses it. *apiclient.Client
// implements it.
type API interface {
	GetDashboardData(ctx context.Context) (models.DashboardData, error)
	RefreshDashboard(ctx context.Context) (models.RefreshData, error)
	GetClients(ctx context.Context) ([]models.Client, error)
	AddClient(ctx context.Context, req models.ClientRequest) (models.Client, error)
	UpdateClient(ctx context.Context, id string, req models.ClientRequest) (models.Client, error)
	RemoveClient(ctx context.Context, id string) error
	GetSchedule(ctx context.Context, date string) ([]models.ScheduleEntry, error)
	CreateSession(ctx context.Context, req models.SessionRequest) (models.ScheduleEntry, error)
	UpdateSession(ctx context.Context, id string, req models.SessionRequest) (models.ScheduleEntry, error)
	GetRevenue(ctx context.Context) (models.RevenueSummary, error)
	GetReviews(ctx context.Context) ([]models.Review, error)
	RespondToReview(ctx context.Context, id, reply string) error
	GetCoupons(ctx context.Context) ([]models.Coupon, error)
	CreateCoupon(ctx context.Context, req models.CouponRequest) (models.Coupon, error)
	UpdateCoupon(ctx context.Context, id string, req models.CouponRequest) (models.Coupon, error)
	DeleteCoupon(ctx context.Context, id string) error
	ToggleCoupon(ctx context.Context, id string) (models.Coupon, error)
	GetConversations(ctx context.Context) ([]models.Conversation, error)
	UpdateUnreadCount(ctx context.Context) (int, error)
	GetProfile(ctx context.Context) (models.Profile, error)
	UpdateProfile(ctx context.Context, req models.ProfileRequest) (models.Profile, error)
	GetPackages(ctx context.Context) ([]models.Package, error)
}

// Dashboard binds an API to a store.
type Dashboard struct {
	api      API
	store    *store.Store
	logger   *slog.Logger
	now      func() time.Time
	fallback *Fallback
}

// Option configures a Dashboard.
type Option func(*Dashboard)

func WithLogger(l *slog.Logger) Option {
	return func(d *Dashboard) { d.logger = l }
}

// WithClock sets the clock used for the coupon validity window.
func WithClock(now func() time.Time) Option {
	return func(d *Dashboard) { d.now = now }
}

// WithFallback makes failed list loads install f's data, tagged
// store.SourceFallback. Without it a failed load keeps the previous data.
func WithFallback(f Fallback) Option {
	return func(d *Dashboard) { d.fallback = &f }
}

func New(api API, st *store.Store, opts ...Option) *Dashboard {
	d := &Dashboard{
		api:    api,
		store:  st,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Store returns the store the dashboard writes to.
func (d *Dashboard) Store() *store.Store { return d.store }

// State is shorthand for Store().Snapshot().
func (d *Dashboard) State() store.State { return d.store.Snapshot() }

// ClearError dismisses the current error banner.
func (d *Dashboard) ClearError(ctx context.Context) {
	d.dispatch(ctx, store.ClearError{})
}

func (d *Dashboard) dispatch(ctx context.Context, actions ...store.Action) {
	if _, err := d.store.Dispatch(context.WithoutCancel(ctx), actions...); err != nil {
		d.logger.WarnContext(ctx, "dashboard transition dropped", "err", err)
	}
}

// fail records err in the store, clears the loading flag via done and
// returns err unchanged.
func (d *Dashboard) fail(ctx context.Context, op string, err error, fallbackMsg string, done store.Action) error {
	msg := err.Error()
	if msg == "" {
		msg = fallbackMsg
	}
	d.logger.WarnContext(ctx, "dashboard action failed", "action", op, "err", err)
	d.dispatch(ctx, store.SetError{Message: msg}, done)
	return err
}

var (
	globalDone   = store.SetLoading{Loading: false}
	clientsDone  = store.SetClientsLoading{Loading: false}
	scheduleDone = store.SetScheduleLoading{Loading: false}
)
