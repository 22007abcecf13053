package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Envelope is the one response shape every endpoint writes:
//
//	{"success": true,  "data": ...}
//	{"success": false, "error": "..."}
//
// Older endpoints answered with a bare payload or without "success"; the API
// client still accepts both.
type Envelope struct {
	Success *bool           `json:"success,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Page describes one page of a paginated list.
type Page struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ---- Request / Response DTOs ----

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ClientRequest struct {
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	Phone             string       `json:"phone"`
	Status            ClientStatus `json:"status,omitempty"`
	PackageID         string       `json:"packageId,omitempty"`
	SessionsRemaining int          `json:"sessionsRemaining"`
	Goals             string       `json:"goals,omitempty"`
}

type SessionRequest struct {
	Date     string        `json:"date"`
	Time     string        `json:"time"`
	Duration int           `json:"duration"`
	Type     SessionType   `json:"type,omitempty"`
	Status   SessionStatus `json:"status,omitempty"`
	ClientID string        `json:"clientId"`
	Location string        `json:"location,omitempty"`
	Notes    string        `json:"notes,omitempty"`
}

type ReviewReplyRequest struct {
	Reply string `json:"reply"`
}

type CouponRequest struct {
	Code          string          `json:"code"`
	Description   string          `json:"description,omitempty"`
	DiscountType  DiscountType    `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	IsActive      *bool           `json:"isActive,omitempty"`
	ValidFrom     *time.Time      `json:"validFrom,omitempty"`
	ValidUntil    *time.Time      `json:"validUntil,omitempty"`
	UsageLimit    int             `json:"usageLimit"`
}

type ProfileRequest struct {
	Name            string           `json:"name"`
	Phone           string           `json:"phone"`
	Bio             string           `json:"bio"`
	Specializations []string         `json:"specializations"`
	Certifications  []string         `json:"certifications"`
	ExperienceYears int              `json:"experienceYears"`
	HourlyRate      *decimal.Decimal `json:"hourlyRate,omitempty"`
	Location        string           `json:"location"`
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unreadCount"`
}

type ClientList struct {
	Clients    []Client `json:"clients"`
	Pagination Page     `json:"pagination"`
}

// ---- Admin DTOs ----

type AdminStats struct {
	TotalUsers     int             `json:"totalUsers"`
	Trainers       int             `json:"trainers"`
	ActiveTrainers int             `json:"activeTrainers"`
	Clients        int             `json:"clients"`
	Sessions       int             `json:"sessions"`
	Reviews        int             `json:"reviews"`
	Revenue        decimal.Decimal `json:"revenue"`
	Maintenance    bool            `json:"maintenance"`
}

type UserUpdateRequest struct {
	Name   string     `json:"name,omitempty"`
	Role   UserRole   `json:"role,omitempty"`
	Status UserStatus `json:"status,omitempty"`
}

type TrainerReport struct {
	TrainerID     string          `json:"trainerId"`
	TrainerName   string          `json:"trainerName"`
	Clients       int             `json:"clients"`
	ActiveClients int             `json:"activeClients"`
	Sessions      int             `json:"sessions"`
	Revenue       decimal.Decimal `json:"revenue"`
	AverageRating float64         `json:"averageRating"`
	Reviews       int             `json:"reviews"`
}

type MaintenanceRequest struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

type BroadcastRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Audience string `json:"audience"`
}
