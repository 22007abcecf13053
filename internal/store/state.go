// Package store is the trainer dashboard's application state container.
//
// All cross-page data lives in one State value. State only changes by
// running an Action through Reduce, a pure function, and the Store applies
// actions one at a time on a single goroutine, so no two transitions can
// interleave. Derived fields (client counts, pending bookings, review
// average, unread total, active coupons) are recomputed inside the
// transition that changes their source slice and are never set directly.
package store

import (
	"github.com/trainerhub/backend/internal/models"
)

// Source tells whether a slice holds data returned by the API or locally
// substituted demo data.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Sources records the provenance of each data slice.
type Sources struct {
	Dashboard     Source `json:"dashboard"`
	Clients       Source `json:"clients"`
	Schedule      Source `json:"schedule"`
	Revenue       Source `json:"revenue"`
	Profile       Source `json:"profile"`
	Packages      Source `json:"packages"`
	Conversations Source `json:"conversations"`
	Reviews       Source `json:"reviews"`
	Coupons       Source `json:"coupons"`
}

// State is one immutable snapshot of the dashboard. Slices reachable from a
// published State are never modified afterwards; treat them as read-only.
type State struct {
	Loading         bool   `json:"loading"`
	ClientsLoading  bool   `json:"clientsLoading"`
	ScheduleLoading bool   `json:"scheduleLoading"`
	Error           string `json:"error,omitempty"`

	Dashboard     models.Dashboard       `json:"dashboard"`
	Stats         models.Stats           `json:"stats"`
	TodaySchedule []models.ScheduleEntry `json:"todaySchedule"`
	Clients       []models.Client        `json:"clients"`
	Schedule      []models.ScheduleEntry `json:"schedule"`
	Revenue       models.RevenueSummary  `json:"revenue"`
	Profile       models.Profile         `json:"profile"`
	Packages      []models.Package       `json:"packages"`
	Conversations []models.Conversation  `json:"conversations"`
	Reviews       []models.Review        `json:"reviews"`
	Coupons       []models.Coupon        `json:"coupons"`

	TotalReviews  int             `json:"totalReviews"`
	AverageRating float64         `json:"averageRating"`
	UnreadCount   int             `json:"unreadCount"`
	ActiveCoupons []models.Coupon `json:"activeCoupons"`

	Sources Sources `json:"sources"`
}

// Initial returns the empty snapshot a session starts from.
func Initial() State {
	return State{
		TodaySchedule: []models.ScheduleEntry{},
		Clients:       []models.Client{},
		Schedule:      []models.ScheduleEntry{},
		Packages:      []models.Package{},
		Conversations: []models.Conversation{},
		Reviews:       []models.Review{},
		Coupons:       []models.Coupon{},
		ActiveCoupons: []models.Coupon{},
		Revenue:       models.RevenueSummary{Transactions: []models.Transaction{}},
		Sources: Sources{
			Dashboard:     SourceLive,
			Clients:       SourceLive,
			Schedule:      SourceLive,
			Revenue:       SourceLive,
			Profile:       SourceLive,
			Packages:      SourceLive,
			Conversations: SourceLive,
			Reviews:       SourceLive,
			Coupons:       SourceLive,
		},
	}
}

// clone copies list into a fresh non-nil slice so the caller's backing array
// is never shared with a published snapshot.
func clone[T any](list []T) []T {
	out := make([]T, len(list))
	copy(out, list)
	return out
}

func orLive(src Source) Source {
	if src == "" {
		return SourceLive
	}
	return src
}
