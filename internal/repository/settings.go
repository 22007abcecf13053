package repository

import (
	"github.com/shopspring/decimal"

	"github.com/trainerhub/backend/internal/models"
)

// DefaultCommissionRate is the platform fee taken from each payment.
var DefaultCommissionRate = decimal.RequireFromString("0.10")

func DefaultSettings() models.Settings {
	return models.Settings{
		PlatformName:     "TrainerHub",
		CommissionRate:   DefaultCommissionRate,
		RegistrationOpen: true,
		SupportEmail:     "support@trainerhub.local",
	}
}
