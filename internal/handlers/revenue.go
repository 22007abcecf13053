package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trainerhub/backend/internal/models"
)

// maxTransactions is how many recent transactions the summary lists.
const maxTransactions = 20

// summarizeRevenue totals completed payments in calendar windows ending at
// now. Fees are taken from the year total; pending payments are reported
// as pending payouts.
func summarizeRevenue(txns []models.Transaction, now time.Time, feeRate decimal.Decimal) models.RevenueSummary {
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	weekAgo := startOfDay.AddDate(0, 0, -6)
	startOfMonth := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	startOfYear := time.Date(y, time.January, 1, 0, 0, 0, 0, now.Location())

	sum := models.RevenueSummary{
		Today:          decimal.Zero,
		Week:           decimal.Zero,
		Month:          decimal.Zero,
		Year:           decimal.Zero,
		PendingPayouts: decimal.Zero,
		FeeRate:        feeRate,
	}
	for _, t := range txns {
		at := t.Date.In(now.Location())
		if at.After(now) {
			continue
		}
		switch t.Status {
		case models.TransactionPending:
			sum.PendingPayouts = sum.PendingPayouts.Add(t.Amount)
			continue
		case models.TransactionCompleted:
		default:
			continue
		}
		if !at.Before(startOfDay) {
			sum.Today = sum.Today.Add(t.Amount)
		}
		if !at.Before(weekAgo) {
			sum.Week = sum.Week.Add(t.Amount)
		}
		if !at.Before(startOfMonth) {
			sum.Month = sum.Month.Add(t.Amount)
		}
		if !at.Before(startOfYear) {
			sum.Year = sum.Year.Add(t.Amount)
		}
	}
	sum.PlatformFees = sum.Year.Mul(feeRate).Round(2)
	sum.NetIncome = sum.Year.Sub(sum.PlatformFees)

	recent := append([]models.Transaction(nil), txns...)
	sort.Slice(recent, func(i, j int) bool { return recent[i].Date.After(recent[j].Date) })
	if len(recent) > maxTransactions {
		recent = recent[:maxTransactions]
	}
	if recent == nil {
		recent = []models.Transaction{}
	}
	sum.Transactions = recent
	return sum
}

func (s *Server) revenue(ctx context.Context, trainerID string) (models.RevenueSummary, error) {
	txns, err := s.Repo.Transactions(trainerID).List(ctx)
	if err != nil {
		return models.RevenueSummary{}, err
	}
	settings, err := s.Repo.Settings(ctx)
	if err != nil {
		return models.RevenueSummary{}, err
	}
	return summarizeRevenue(txns, s.now(), settings.CommissionRate), nil
}

// GetRevenue handles GET /api/trainer/revenue
func (s *Server) GetRevenue(w http.ResponseWriter, r *http.Request) {
	sum, err := s.revenue(r.Context(), trainerID(r))
	if err != nil {
		s.storageError(w, r, err, "")
		return
	}
	respond(w, http.StatusOK, sum)
}
