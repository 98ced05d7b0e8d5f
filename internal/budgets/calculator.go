package budgets

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbenali/mediaops-backend/pkg/db/models"
	"github.com/rbenali/mediaops-backend/pkg/enums"
)

var hundred = decimal.NewFromInt(100)

// BudgetStatus is a read-only projection of one budget against its period's
// spend. Remaining may be negative once the budget is exceeded.
type BudgetStatus struct {
	BudgetID        uuid.UUID       `json:"budgetId"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	SourceID        *uuid.UUID      `json:"sourceId,omitempty"`
	SourceName      string          `json:"sourceName,omitempty"`
	BudgetAmount    decimal.Decimal `json:"budgetAmount"`
	CurrentSpendDZD decimal.Decimal `json:"currentSpendDZD"`
	CurrentSpendUSD decimal.Decimal `json:"currentSpendUSD"`
	SpendPercentage decimal.Decimal `json:"spendPercentage"`
	IsOverBudget    bool            `json:"isOverBudget"`
	IsNearThreshold bool            `json:"isNearThreshold"`
	AlertThreshold  int             `json:"alertThreshold"`
	Remaining       decimal.Decimal `json:"remaining"`
	EntryCount      int             `json:"entryCount"`
}

// ComputeStatus projects a budget against its period entries. The entries
// must already be restricted to the budget's month window and source scope.
// BudgetAmount is positive; creation validation rejects zero amounts.
func ComputeStatus(budget models.MediaBuyingBudget, periodEntries []models.MediaBuyingEntry) BudgetStatus {
	spendDZD := SumSpendDZD(periodEntries)
	spendUSD := sumSpendUSD(periodEntries)

	percentage := spendDZD.Div(budget.BudgetAmount).Mul(hundred)
	threshold := decimal.NewFromInt(int64(budget.AlertThreshold))

	status := BudgetStatus{
		BudgetID:        budget.ID,
		Month:           budget.Month,
		Year:            budget.Year,
		SourceID:        budget.SourceID,
		BudgetAmount:    budget.BudgetAmount,
		CurrentSpendDZD: spendDZD,
		CurrentSpendUSD: spendUSD,
		SpendPercentage: percentage,
		IsOverBudget:    spendDZD.GreaterThan(budget.BudgetAmount),
		IsNearThreshold: percentage.GreaterThanOrEqual(threshold),
		AlertThreshold:  budget.AlertThreshold,
		Remaining:       budget.BudgetAmount.Sub(spendDZD),
		EntryCount:      len(periodEntries),
	}
	if budget.Source != nil {
		status.SourceName = budget.Source.Name
	}
	return status
}

// SumSpendDZD totals the DZD value of entries, falling back to the raw
// TotalSpend when spend_in_dzd was never derived.
func SumSpendDZD(entries []models.MediaBuyingEntry) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		if entry.SpendInDZD != nil {
			total = total.Add(*entry.SpendInDZD)
			continue
		}
		total = total.Add(entry.TotalSpend)
	}
	return total
}

func sumSpendUSD(entries []models.MediaBuyingEntry) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		switch {
		case entry.Currency == enums.CurrencyUSD:
			total = total.Add(entry.TotalSpend)
		case entry.ExchangeRate != nil && entry.ExchangeRate.Sign() > 0:
			total = total.Add(entry.TotalSpend.Div(*entry.ExchangeRate))
		default:
			// No per-entry rate recorded; the DZD amount passes through
			// unconverted.
			total = total.Add(entry.TotalSpend)
		}
	}
	return total
}

// PeriodWindow returns the inclusive first day and exclusive first day of
// the following month for a budget period.
func PeriodWindow(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
