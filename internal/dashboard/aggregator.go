package dashboard

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbenali/mediaops-backend/internal/fx"
	"github.com/rbenali/mediaops-backend/pkg/db/models"
)

var hundred = decimal.NewFromInt(100)

// Bucket sums spend and leads over one slice of the requested range.
type Bucket struct {
	TotalSpendDZD decimal.Decimal `json:"totalSpendDZD"`
	TotalLeads    int             `json:"totalLeads"`
	EntryCount    int             `json:"entryCount"`
}

// SourceAnalytics is the per-source rollup over a date range.
type SourceAnalytics struct {
	SourceID      uuid.UUID       `json:"sourceId"`
	SourceName    string          `json:"sourceName"`
	SourceColor   string          `json:"sourceColor,omitempty"`
	TotalSpend    decimal.Decimal `json:"totalSpend"`
	TotalSpendDZD decimal.Decimal `json:"totalSpendDZD"`
	TotalLeads    int             `json:"totalLeads"`
	CostPerLead   decimal.Decimal `json:"costPerLead"`
	SpendShare    decimal.Decimal `json:"spendShare"`
	EntryCount    int             `json:"entryCount"`
}

// TrendPoint is one day of the daily spend/leads trend.
type TrendPoint struct {
	Date     string          `json:"date"`
	SpendDZD decimal.Decimal `json:"spendDZD"`
	Leads    int             `json:"leads"`
}

// PeriodComparison reports percentage deltas against the immediately
// preceding window of equal length. A zero prior value yields a zero
// delta, never an infinite one.
type PeriodComparison struct {
	SpendChange decimal.Decimal `json:"spendChange"`
	LeadsChange decimal.Decimal `json:"leadsChange"`
	CPLChange   decimal.Decimal `json:"cplChange"`
}

// DashboardStats is the full aggregation returned for a date range.
type DashboardStats struct {
	Today          Bucket            `json:"today"`
	ThisWeek       Bucket            `json:"thisWeek"`
	Range          Bucket            `json:"range"`
	BySource       []SourceAnalytics `json:"bySource"`
	BestPerformer  *SourceAnalytics  `json:"bestPerformer,omitempty"`
	DailyTrend     []TrendPoint      `json:"dailyTrend"`
	Comparison     PeriodComparison  `json:"comparison"`
	ConversionRate decimal.Decimal   `json:"conversionRate"`
}

// AggregateInput carries everything Aggregate needs. Now is explicit so
// the today/this-week buckets are deterministic under test.
type AggregateInput struct {
	Entries      []models.MediaBuyingEntry
	PriorEntries []models.MediaBuyingEntry
	Conversions  int64
	Now          time.Time
	Normalizer   fx.Normalizer
}

// Aggregate computes the dashboard projection for a range of entries. It
// is pure: all inputs are loaded by the caller.
func Aggregate(input AggregateInput) DashboardStats {
	norm := input.Normalizer
	startOfDay := time.Date(input.Now.Year(), input.Now.Month(), input.Now.Day(), 0, 0, 0, 0, input.Now.Location())
	weekStart := input.Now.AddDate(0, 0, -7)

	var today, week, full Bucket
	for _, entry := range input.Entries {
		dzd := entryDZD(entry, norm)
		addToBucket(&full, dzd, entry.TotalLeads)
		if !entry.Date.Before(startOfDay) {
			addToBucket(&today, dzd, entry.TotalLeads)
		}
		if !entry.Date.Before(weekStart) {
			addToBucket(&week, dzd, entry.TotalLeads)
		}
	}

	bySource := RollupBySource(input.Entries, norm)
	best := BestPerformer(bySource)

	priorSpend, priorLeads := sumEntries(input.PriorEntries, norm)

	stats := DashboardStats{
		Today:          today,
		ThisWeek:       week,
		Range:          full,
		BySource:       bySource,
		BestPerformer:  best,
		DailyTrend:     DailyTrend(input.Entries, norm),
		Comparison:     comparePeriods(full.TotalSpendDZD, full.TotalLeads, priorSpend, priorLeads),
		ConversionRate: conversionRate(input.Conversions, full.TotalLeads),
	}
	return stats
}

// RollupBySource groups entries by source in first-seen order and computes
// each source's share of total DZD spend.
func RollupBySource(entries []models.MediaBuyingEntry, norm fx.Normalizer) []SourceAnalytics {
	var order []uuid.UUID
	rollups := make(map[uuid.UUID]*SourceAnalytics)

	totalDZD := decimal.Zero
	for _, entry := range entries {
		rollup, ok := rollups[entry.SourceID]
		if !ok {
			rollup = &SourceAnalytics{
				SourceID:      entry.SourceID,
				TotalSpend:    decimal.Zero,
				TotalSpendDZD: decimal.Zero,
				CostPerLead:   decimal.Zero,
				SpendShare:    decimal.Zero,
			}
			if entry.Source != nil {
				rollup.SourceName = entry.Source.Name
				rollup.SourceColor = entry.Source.Color
			}
			rollups[entry.SourceID] = rollup
			order = append(order, entry.SourceID)
		}
		dzd := entryDZD(entry, norm)
		rollup.TotalSpend = rollup.TotalSpend.Add(entry.TotalSpend)
		rollup.TotalSpendDZD = rollup.TotalSpendDZD.Add(dzd)
		rollup.TotalLeads += entry.TotalLeads
		rollup.EntryCount++
		totalDZD = totalDZD.Add(dzd)
	}

	result := make([]SourceAnalytics, 0, len(order))
	for _, id := range order {
		rollup := rollups[id]
		if rollup.TotalLeads > 0 {
			rollup.CostPerLead = rollup.TotalSpendDZD.Div(decimal.NewFromInt(int64(rollup.TotalLeads)))
		}
		if totalDZD.Sign() > 0 {
			rollup.SpendShare = rollup.TotalSpendDZD.Div(totalDZD).Mul(hundred)
		}
		result = append(result, *rollup)
	}
	return result
}

// BestPerformer returns the source minimizing cost per lead among sources
// with at least one lead. Ties keep the earlier source in scan order.
func BestPerformer(rollups []SourceAnalytics) *SourceAnalytics {
	var best *SourceAnalytics
	for i := range rollups {
		rollup := &rollups[i]
		if rollup.TotalLeads == 0 {
			continue
		}
		if best == nil || rollup.CostPerLead.LessThan(best.CostPerLead) {
			best = rollup
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

// DailyTrend groups entries by ISO calendar date, ascending.
func DailyTrend(entries []models.MediaBuyingEntry, norm fx.Normalizer) []TrendPoint {
	byDay := make(map[string]*TrendPoint)
	for _, entry := range entries {
		key := entry.Date.Format("2006-01-02")
		point, ok := byDay[key]
		if !ok {
			point = &TrendPoint{Date: key, SpendDZD: decimal.Zero}
			byDay[key] = point
		}
		point.SpendDZD = point.SpendDZD.Add(entryDZD(entry, norm))
		point.Leads += entry.TotalLeads
	}

	keys := make([]string, 0, len(byDay))
	for key := range byDay {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	trend := make([]TrendPoint, 0, len(keys))
	for _, key := range keys {
		trend = append(trend, *byDay[key])
	}
	return trend
}

// PriorWindow returns the immediately preceding window of equal length for
// a requested [start, end] range.
func PriorWindow(start, end time.Time) (time.Time, time.Time) {
	length := end.Sub(start) + 24*time.Hour
	priorEnd := start.Add(-24 * time.Hour)
	priorStart := priorEnd.Add(-length + 24*time.Hour)
	return priorStart, priorEnd
}

func comparePeriods(spend decimal.Decimal, leads int, priorSpend decimal.Decimal, priorLeads int) PeriodComparison {
	comparison := PeriodComparison{
		SpendChange: percentChange(spend, priorSpend),
		LeadsChange: percentChange(decimal.NewFromInt(int64(leads)), decimal.NewFromInt(int64(priorLeads))),
	}

	cpl := decimal.Zero
	if leads > 0 {
		cpl = spend.Div(decimal.NewFromInt(int64(leads)))
	}
	priorCPL := decimal.Zero
	if priorLeads > 0 {
		priorCPL = priorSpend.Div(decimal.NewFromInt(int64(priorLeads)))
	}
	comparison.CPLChange = percentChange(cpl, priorCPL)
	return comparison
}

func percentChange(current, prior decimal.Decimal) decimal.Decimal {
	if prior.Sign() == 0 {
		return decimal.Zero
	}
	return current.Sub(prior).Div(prior).Mul(hundred)
}

func conversionRate(conversions int64, totalLeads int) decimal.Decimal {
	if totalLeads == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(conversions).Div(decimal.NewFromInt(int64(totalLeads))).Mul(hundred)
}

func sumEntries(entries []models.MediaBuyingEntry, norm fx.Normalizer) (decimal.Decimal, int) {
	total := decimal.Zero
	leads := 0
	for _, entry := range entries {
		total = total.Add(entryDZD(entry, norm))
		leads += entry.TotalLeads
	}
	return total, leads
}

func entryDZD(entry models.MediaBuyingEntry, norm fx.Normalizer) decimal.Decimal {
	if entry.SpendInDZD != nil {
		return *entry.SpendInDZD
	}
	return norm.Normalize(entry.TotalSpend, entry.Currency, entry.ExchangeRate).DZD
}

func addToBucket(bucket *Bucket, dzd decimal.Decimal, leads int) {
	bucket.TotalSpendDZD = bucket.TotalSpendDZD.Add(dzd)
	bucket.TotalLeads += leads
	bucket.EntryCount++
}
