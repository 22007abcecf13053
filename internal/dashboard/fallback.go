package dashboard

import (
	"time"

	"github.com/trainerhub/backend/internal/models"
	"github.com/trainerhub/backend/internal/seed"
)

// Fallback is the data shown in place of a list that failed to load.
type Fallback struct {
	Clients       []models.Client
	Reviews       []models.Review
	Coupons       []models.Coupon
	Packages      []models.Package
	Conversations []models.Conversation
}

// DemoFallback builds a Fallback from the demo fixtures, dated around now.
func DemoFallback(now time.Time) Fallback {
	d := seed.Fixtures(now)
	return Fallback{
		Clients:       d.Clients,
		Reviews:       d.Reviews,
		Coupons:       d.Coupons,
		Packages:      d.Packages,
		Conversations: d.Conversations,
	}
}
