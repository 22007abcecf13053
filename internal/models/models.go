// Package models holds the entities and request/response shapes shared by the
// trainer API server, the API client and the dashboard state store.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserRole defines the type of account.
type UserRole string

const (
	RoleTrainer UserRole = "trainer"
	RoleAdmin   UserRole = "admin"
	RoleClient  UserRole = "client"
)

// UserStatus is an account's standing on the platform.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
)

// ClientStatus marks whether a trainer's client is currently training.
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

// SessionStatus is the booking state of a schedule entry.
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionConfirmed SessionStatus = "confirmed"
	SessionCancelled SessionStatus = "cancelled"
	SessionCompleted SessionStatus = "completed"
)

// SessionType describes how a session is delivered.
type SessionType string

const (
	SessionPersonal SessionType = "personal"
	SessionGroup    SessionType = "group"
	SessionOnline   SessionType = "online"
)

// DiscountType selects how a coupon's value is applied.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// TransactionStatus tracks a payment.
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
	TransactionRefunded  TransactionStatus = "refunded"
)

// DateLayout is the wire format of ScheduleEntry.Date.
const DateLayout = "2006-01-02"

// TimeLayout is the wire format of ScheduleEntry.Time.
const TimeLayout = "15:04"

// User is an account that can sign in: trainers, admins and clients.
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        UserRole   `json:"role"`
	Status      UserStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// UserRecord is the stored form of a User. It is never written to an API
// response.
type UserRecord struct {
	User
	PasswordHash string `json:"passwordHash"`
}

// Profile is the trainer's public marketplace profile.
type Profile struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Bio             string          `json:"bio"`
	Specializations []string        `json:"specializations"`
	Certifications  []string        `json:"certifications"`
	ExperienceYears int             `json:"experienceYears"`
	HourlyRate      decimal.Decimal `json:"hourlyRate"`
	Location        string          `json:"location"`
	AvatarURL       string          `json:"avatarUrl,omitempty"`
	IsVerified      bool            `json:"isVerified"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Client is a person training with the trainer.
type Client struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	Phone             string       `json:"phone"`
	Status            ClientStatus `json:"status"`
	PackageID         string       `json:"packageId,omitempty"`
	PackageName       string       `json:"packageName,omitempty"`
	SessionsRemaining int          `json:"sessionsRemaining"`
	Goals             string       `json:"goals,omitempty"`
	JoinedAt          time.Time    `json:"joinedAt"`
	LastSessionAt     *time.Time   `json:"lastSessionAt,omitempty"`
}

// ScheduleEntry is one booked session on the trainer's calendar.
type ScheduleEntry struct {
	ID         string        `json:"id"`
	Date       string        `json:"date"`
	Time       string        `json:"time"`
	Duration   int           `json:"duration"`
	Type       SessionType   `json:"type"`
	Status     SessionStatus `json:"status"`
	ClientID   string        `json:"clientId"`
	ClientName string        `json:"clientName"`
	Location   string        `json:"location,omitempty"`
	Notes      string        `json:"notes,omitempty"`
}

// Transaction is a single payment behind the revenue summary.
type Transaction struct {
	ID          string            `json:"id"`
	Date        time.Time         `json:"date"`
	ClientID    string            `json:"clientId"`
	ClientName  string            `json:"clientName"`
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	Status      TransactionStatus `json:"status"`
}

// RevenueSummary is the server-computed finance snapshot.
type RevenueSummary struct {
	Today          decimal.Decimal `json:"today"`
	Week           decimal.Decimal `json:"week"`
	Month          decimal.Decimal `json:"month"`
	Year           decimal.Decimal `json:"year"`
	NetIncome      decimal.Decimal `json:"netIncome"`
	PlatformFees   decimal.Decimal `json:"platformFees"`
	PendingPayouts decimal.Decimal `json:"pendingPayouts"`
	FeeRate        decimal.Decimal `json:"feeRate"`
	Transactions   []Transaction   `json:"transactions"`
}

// Review is a client's rating of the trainer, with an optional reply.
type Review struct {
	ID         string     `json:"id"`
	ClientID   string     `json:"clientId"`
	ClientName string     `json:"clientName"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
	CreatedAt  time.Time  `json:"createdAt"`
	Replied    bool       `json:"replied"`
	Reply      string     `json:"reply,omitempty"`
	RepliedAt  *time.Time `json:"repliedAt,omitempty"`
}

// Coupon is a discount code the trainer hands out.
type Coupon struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Description   string          `json:"description,omitempty"`
	DiscountType  DiscountType    `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	IsActive      bool            `json:"isActive"`
	IsValid       bool            `json:"isValid"`
	ValidFrom     *time.Time      `json:"validFrom,omitempty"`
	ValidUntil    *time.Time      `json:"validUntil,omitempty"`
	UsageLimit    int             `json:"usageLimit"`
	UsedCount     int             `json:"usedCount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// InWindow reports whether at falls inside the coupon's validity window.
// Unset bounds are open.
func (c Coupon) InWindow(at time.Time) bool {
	if c.ValidFrom != nil && at.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && at.After(*c.ValidUntil) {
		return false
	}
	return true
}

// Conversation is a message thread with one client.
type Conversation struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"clientId"`
	ClientName    string    `json:"clientName"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int       `json:"unreadCount"`
}

// Package is a bundle of sessions the trainer sells.
type Package struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	SessionCount int             `json:"sessionCount"`
	DurationDays int             `json:"durationDays"`
	IsActive     bool            `json:"isActive"`
}

// Activity is one line of the dashboard's recent-activity feed.
type Activity struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Dashboard is the header block of the trainer home page.
type Dashboard struct {
	TrainerName      string     `json:"trainerName"`
	Greeting         string     `json:"greeting"`
	UpcomingSessions int        `json:"upcomingSessions"`
	RecentActivity   []Activity `json:"recentActivity"`
}

// Stats holds the headline counters. TotalClients, ActiveClients and
// PendingBookings are recomputed by the store from its own slices.
type Stats struct {
	TotalClients    int             `json:"totalClients"`
	ActiveClients   int             `json:"activeClients"`
	PendingBookings int             `json:"pendingBookings"`
	TodaySessions   int             `json:"todaySessions"`
	MonthlyEarnings decimal.Decimal `json:"monthlyEarnings"`
	AverageRating   float64         `json:"averageRating"`
}

// DashboardData is the payload of GET /api/trainer/dashboard.
type DashboardData struct {
	Dashboard     Dashboard       `json:"dashboard"`
	Stats         Stats           `json:"stats"`
	TodaySchedule []ScheduleEntry `json:"todaySchedule"`
}

// RefreshData is the payload of GET /api/trainer/dashboard/refresh.
type RefreshData struct {
	DashboardData
	Clients  []Client        `json:"clients"`
	Schedule []ScheduleEntry `json:"schedule"`
	Revenue  RevenueSummary  `json:"revenue"`
}

// Settings are the platform-wide knobs edited from the admin console.
type Settings struct {
	PlatformName       string          `json:"platformName"`
	CommissionRate     decimal.Decimal `json:"commissionRate"`
	RegistrationOpen   bool            `json:"registrationOpen"`
	MaintenanceMode    bool            `json:"maintenanceMode"`
	MaintenanceMessage string          `json:"maintenanceMessage,omitempty"`
	SupportEmail       string          `json:"supportEmail"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// LogEntry is a captured log record served by the admin console.
type LogEntry struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// Broadcast is an announcement pushed to connected dashboards.
type Broadcast struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	HTML      string    `json:"html"`
	Audience  string    `json:"audience"`
	SentAt    time.Time `json:"sentAt"`
	Delivered int       `json:"delivered"`
}
