package store

import (
	"math"
	"time"

	"github.com/trainerhub/backend/internal/models"
)

// ClientStats counts all clients and those with status active.
func ClientStats(clients []models.Client) (total, active int) {
	for _, c := range clients {
		if c.Status == models.ClientActive {
			active++
		}
	}
	return len(clients), active
}

// PendingBookings counts schedule entries still awaiting confirmation.
func PendingBookings(schedule []models.ScheduleEntry) int {
	n := 0
	for _, e := range schedule {
		if e.Status == models.SessionPending {
			n++
		}
	}
	return n
}

// AverageRating is the mean rating rounded to one decimal place, or 0 for no
// reviews.
func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*10) / 10
}

// UnreadTotal sums the unread counters of all conversations.
func UnreadTotal(conversations []models.Conversation) int {
	n := 0
	for _, c := range conversations {
		n += c.UnreadCount
	}
	return n
}

// ActiveCoupons returns the coupons that are switched on and currently valid.
// A zero at skips the date-window check and trusts IsValid alone.
func ActiveCoupons(coupons []models.Coupon, at time.Time) []models.Coupon {
	out := []models.Coupon{}
	for _, c := range coupons {
		if !c.IsActive || !c.IsValid {
			continue
		}
		if !at.IsZero() && !c.InWindow(at) {
			continue
		}
		out = append(out, c)
	}
	return out
}
