// Package seed holds the demo data set.
//
// The same fixtures serve two purposes: the API server loads them into an
// empty store at startup so the dashboard has something to show, and the
// dashboard client can substitute them (tagged as fallback) when a list
// fails to load.
//
// DEMO SCENARIO
// ─────────────────────────────────────────────────────────────────────────
// Trainer : "Sam Rivera"   (sam@trainerhub.test   / demo1234)
// Admin   : "Ops Admin"    (admin@trainerhub.test / demo1234)
//
// Clients : four, one of them inactive
// Schedule: two sessions today (one pending), one tomorrow (pending)
// Reviews : three, one already replied to
// Coupons : WELCOME10 (active), SUMMER25 (inactive), OLD5 (expired)
// Inbox   : two conversations with 2 and 1 unread messages
//
// Fixed ids keep Load idempotent across restarts.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trainerhub/backend/internal/auth"
	"github.com/trainerhub/backend/internal/models"
	"github.com/trainerhub/backend/internal/repository"
)

const (
	TrainerID    = "seed-trainer-0000-0000-0000-000000000001"
	AdminID      = "seed-admin-00000-0000-0000-000000000002"
	TrainerEmail = "sam@trainerhub.test"
	AdminEmail   = "admin@trainerhub.test"
	DemoPassword = "demo1234"
)

// Data is one complete fixture set for the demo trainer.
type Data struct {
	Users         []models.User
	Profile       models.Profile
	Clients       []models.Client
	Sessions      []models.ScheduleEntry
	Transactions  []models.Transaction
	Reviews       []models.Review
	Coupons       []models.Coupon
	Conversations []models.Conversation
	Packages      []models.Package
}

func seedID(kind string, n int) string {
	return fmt.Sprintf("seed-%s-%04d", kind, n)
}

func ptr[T any](v T) *T { return &v }

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Fixtures builds the demo data with dates relative to now.
func Fixtures(now time.Time) Data {
	now = now.UTC()
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }
	date := func(offset int) string { return day(offset).Format(models.DateLayout) }

	packages := []models.Package{
		{ID: seedID("package", 1), Name: "Starter 5", Description: "Five one-to-one sessions", Price: money("275.00"), SessionCount: 5, DurationDays: 60, IsActive: true},
		{ID: seedID("package", 2), Name: "Transform 12", Description: "Twelve sessions with a nutrition plan", Price: money("600.00"), SessionCount: 12, DurationDays: 90, IsActive: true},
		{ID: seedID("package", 3), Name: "Online Monthly", Description: "Weekly video check-ins", Price: money("120.00"), SessionCount: 4, DurationDays: 30, IsActive: false},
	}

	clients := []models.Client{
		{ID: seedID("client", 1), Name: "Alex Kim", Email: "alex@example.com", Phone: "+1 555 0101", Status: models.ClientActive,
			PackageID: packages[1].ID, PackageName: packages[1].Name, SessionsRemaining: 7, Goals: "Marathon prep", JoinedAt: day(-120), LastSessionAt: ptr(day(-2))},
		{ID: seedID("client", 2), Name: "Bianca Costa", Email: "bianca@example.com", Phone: "+1 555 0102", Status: models.ClientActive,
			PackageID: packages[0].ID, PackageName: packages[0].Name, SessionsRemaining: 3, Goals: "Strength", JoinedAt: day(-45), LastSessionAt: ptr(day(-1))},
		{ID: seedID("client", 3), Name: "Chen Wei", Email: "chen@example.com", Phone: "+1 555 0103", Status: models.ClientActive,
			PackageID: packages[0].ID, PackageName: packages[0].Name, SessionsRemaining: 5, Goals: "Mobility", JoinedAt: day(-10)},
		{ID: seedID("client", 4), Name: "Dana Fox", Email: "dana@example.com", Phone: "+1 555 0104", Status: models.ClientInactive,
			SessionsRemaining: 0, Goals: "Weight loss", JoinedAt: day(-300), LastSessionAt: ptr(day(-90))},
	}

	sessions := []models.ScheduleEntry{
		{ID: seedID("session", 1), Date: date(0), Time: "08:00", Duration: 60, Type: models.SessionPersonal, Status: models.SessionConfirmed,
			ClientID: clients[0].ID, ClientName: clients[0].Name, Location: "Studio A"},
		{ID: seedID("session", 2), Date: date(0), Time: "17:30", Duration: 45, Type: models.SessionOnline, Status: models.SessionPending,
			ClientID: clients[2].ID, ClientName: clients[2].Name, Notes: "First assessment"},
		{ID: seedID("session", 3), Date: date(1), Time: "09:00", Duration: 60, Type: models.SessionPersonal, Status: models.SessionPending,
			ClientID: clients[1].ID, ClientName: clients[1].Name, Location: "Studio A"},
		{ID: seedID("session", 4), Date: date(-2), Time: "07:00", Duration: 60, Type: models.SessionPersonal, Status: models.SessionCompleted,
			ClientID: clients[0].ID, ClientName: clients[0].Name, Location: "Park"},
	}

	transactions := []models.Transaction{
		{ID: seedID("txn", 1), Date: now.Add(-2 * time.Hour), ClientID: clients[1].ID, ClientName: clients[1].Name, Description: "Single session", Amount: money("55.00"), Status: models.TransactionCompleted},
		{ID: seedID("txn", 2), Date: day(-3), ClientID: clients[0].ID, ClientName: clients[0].Name, Description: "Transform 12", Amount: money("600.00"), Status: models.TransactionCompleted},
		{ID: seedID("txn", 3), Date: day(-20), ClientID: clients[2].ID, ClientName: clients[2].Name, Description: "Starter 5", Amount: money("275.00"), Status: models.TransactionPending},
		{ID: seedID("txn", 4), Date: day(-200), ClientID: clients[3].ID, ClientName: clients[3].Name, Description: "Starter 5", Amount: money("275.00"), Status: models.TransactionRefunded},
	}

	reviews := []models.Review{
		{ID: seedID("review", 1), ClientID: clients[0].ID, ClientName: clients[0].Name, Rating: 5, Comment: "Best coach I have had.", CreatedAt: day(-30),
			Replied: true, Reply: "Thanks Alex, see you Tuesday!", RepliedAt: ptr(day(-29))},
		{ID: seedID("review", 2), ClientID: clients[1].ID, ClientName: clients[1].Name, Rating: 4, Comment: "Great sessions, sometimes runs late.", CreatedAt: day(-7)},
		{ID: seedID("review", 3), ClientID: clients[3].ID, ClientName: clients[3].Name, Rating: 4, Comment: "Good plan, I just got busy.", CreatedAt: day(-95)},
	}

	coupons := []models.Coupon{
		{ID: seedID("coupon", 1), Code: "WELCOME10", Description: "10% off the first package", DiscountType: models.DiscountPercentage, DiscountValue: money("10"),
			IsActive: true, IsValid: true, UsageLimit: 100, UsedCount: 12, CreatedAt: day(-60)},
		{ID: seedID("coupon", 2), Code: "SUMMER25", Description: "Summer promo", DiscountType: models.DiscountFixed, DiscountValue: money("25.00"),
			IsActive: false, IsValid: true, ValidFrom: ptr(day(-10)), ValidUntil: ptr(day(50)), UsageLimit: 20, CreatedAt: day(-12)},
		{ID: seedID("coupon", 3), Code: "OLD5", DiscountType: models.DiscountFixed, DiscountValue: money("5.00"),
			IsActive: true, IsValid: true, ValidUntil: ptr(day(-1)), UsageLimit: 10, UsedCount: 10, CreatedAt: day(-200)},
	}

	conversations := []models.Conversation{
		{ID: seedID("conv", 1), ClientID: clients[1].ID, ClientName: clients[1].Name, LastMessage: "Can we move tomorrow to 10?", LastMessageAt: now.Add(-30 * time.Minute), UnreadCount: 2},
		{ID: seedID("conv", 2), ClientID: clients[2].ID, ClientName: clients[2].Name, LastMessage: "Looking forward to it", LastMessageAt: now.Add(-5 * time.Hour), UnreadCount: 1},
		{ID: seedID("conv", 3), ClientID: clients[0].ID, ClientName: clients[0].Name, LastMessage: "Done, thanks!", LastMessageAt: day(-2)},
	}

	return Data{
		Users: []models.User{
			{ID: TrainerID, Email: TrainerEmail, Name: "Sam Rivera", Role: models.RoleTrainer, Status: models.UserActive, CreatedAt: day(-400)},
			{ID: AdminID, Email: AdminEmail, Name: "Ops Admin", Role: models.RoleAdmin, Status: models.UserActive, CreatedAt: day(-500)},
		},
		Profile: models.Profile{
			ID: TrainerID, Name: "Sam Rivera", Email: TrainerEmail, Phone: "+1 555 0100",
			Bio:             "Strength and endurance coach.",
			Specializations: []string{"strength", "running"},
			Certifications:  []string{"NASM-CPT"},
			ExperienceYears: 8, HourlyRate: money("55.00"), Location: "Lisbon", IsVerified: true, UpdatedAt: day(-5),
		},
		Clients:       clients,
		Sessions:      sessions,
		Transactions:  transactions,
		Reviews:       reviews,
		Coupons:       coupons,
		Conversations: conversations,
		Packages:      packages,
	}
}

// Load writes the fixtures into repo unless the demo trainer already exists.
// It reports whether anything was written.
func Load(ctx context.Context, repo *repository.Repo, now time.Time) (bool, error) {
	exists, err := repo.Users().Exists(ctx, TrainerID)
	if err != nil {
		return false, fmt.Errorf("check seed: %w", err)
	}
	if exists {
		return false, nil
	}

	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return false, err
	}

	d := Fixtures(now)
	var errs []error
	for _, u := range d.Users {
		errs = append(errs, repo.Users().Put(ctx, models.UserRecord{User: u, PasswordHash: hash}))
	}
	errs = append(errs, repo.Profiles().Put(ctx, d.Profile))
	errs = append(errs, putAll(ctx, repo.Clients(TrainerID), d.Clients)...)
	errs = append(errs, putAll(ctx, repo.Sessions(TrainerID), d.Sessions)...)
	errs = append(errs, putAll(ctx, repo.Transactions(TrainerID), d.Transactions)...)
	errs = append(errs, putAll(ctx, repo.Reviews(TrainerID), d.Reviews)...)
	errs = append(errs, putAll(ctx, repo.Coupons(TrainerID), d.Coupons)...)
	errs = append(errs, putAll(ctx, repo.Conversations(TrainerID), d.Conversations)...)
	errs = append(errs, putAll(ctx, repo.Packages(TrainerID), d.Packages)...)
	if err := errors.Join(errs...); err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	return true, nil
}

func putAll[T any](ctx context.Context, c repository.Collection[T], items []T) []error {
	errs := make([]error, 0, len(items))
	for _, it := range items {
		errs = append(errs, c.Put(ctx, it))
	}
	return errs
}
