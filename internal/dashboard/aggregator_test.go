package dashboard

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbenali/mediaops-backend/internal/fx"
	"github.com/rbenali/mediaops-backend/pkg/db/models"
	"github.com/rbenali/mediaops-backend/pkg/enums"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func dzdEntry(sourceID uuid.UUID, name string, date time.Time, spend string, leads int) models.MediaBuyingEntry {
	return models.MediaBuyingEntry{
		ID:         uuid.New(),
		Date:       date,
		SourceID:   sourceID,
		Source:     &models.AdSource{ID: sourceID, Name: name},
		TotalSpend: dec(spend),
		TotalLeads: leads,
		Currency:   enums.CurrencyDZD,
		SpendInDZD: decPtr(spend),
	}
}

func defaultNormalizer() fx.Normalizer {
	return fx.NewNormalizer(dec("140"))
}

func TestAggregateBuckets(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	source := uuid.New()
	entries := []models.MediaBuyingEntry{
		dzdEntry(source, "Facebook", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), "1000", 5),
		dzdEntry(source, "Facebook", time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC), "2000", 10),
		dzdEntry(source, "Facebook", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "4000", 20),
	}

	stats := Aggregate(AggregateInput{Entries: entries, Now: now, Normalizer: defaultNormalizer()})

	if !stats.Today.TotalSpendDZD.Equal(dec("1000")) || stats.Today.TotalLeads != 5 {
		t.Fatalf("today bucket wrong: %+v", stats.Today)
	}
	if !stats.ThisWeek.TotalSpendDZD.Equal(dec("3000")) || stats.ThisWeek.TotalLeads != 15 {
		t.Fatalf("week bucket wrong: %+v", stats.ThisWeek)
	}
	if !stats.Range.TotalSpendDZD.Equal(dec("7000")) || stats.Range.EntryCount != 3 {
		t.Fatalf("range bucket wrong: %+v", stats.Range)
	}
}

func TestAggregateNormalizesUSDWithoutStoredDZD(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	source := uuid.New()
	entry := models.MediaBuyingEntry{
		ID:         uuid.New(),
		Date:       time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		SourceID:   source,
		Source:     &models.AdSource{ID: source, Name: "TikTok"},
		TotalSpend: dec("100"),
		TotalLeads: 4,
		Currency:   enums.CurrencyUSD,
	}

	stats := Aggregate(AggregateInput{
		Entries:    []models.MediaBuyingEntry{entry},
		Now:        now,
		Normalizer: defaultNormalizer(),
	})

	// 100 USD at the 140 default rate.
	if !stats.Range.TotalSpendDZD.Equal(dec("14000")) {
		t.Fatalf("expected 14000 DZD, got %s", stats.Range.TotalSpendDZD)
	}
}

func TestRollupBySourceSharesAndCPL(t *testing.T) {
	facebook := uuid.New()
	tiktok := uuid.New()
	entries := []models.MediaBuyingEntry{
		dzdEntry(facebook, "Facebook", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "6000", 30),
		dzdEntry(tiktok, "TikTok", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), "2000", 5),
		dzdEntry(facebook, "Facebook", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), "2000", 10),
	}

	rollups := RollupBySource(entries, defaultNormalizer())
	if len(rollups) != 2 {
		t.Fatalf("expected 2 rollups, got %d", len(rollups))
	}

	fb := rollups[0]
	if fb.SourceID != facebook || fb.SourceName != "Facebook" {
		t.Fatalf("expected first-seen order, got %+v", fb)
	}
	if !fb.TotalSpendDZD.Equal(dec("8000")) || fb.TotalLeads != 40 || fb.EntryCount != 2 {
		t.Fatalf("facebook rollup wrong: %+v", fb)
	}
	if !fb.CostPerLead.Equal(dec("200")) {
		t.Fatalf("expected CPL 200, got %s", fb.CostPerLead)
	}
	if !fb.SpendShare.Equal(dec("80")) {
		t.Fatalf("expected 80%% share, got %s", fb.SpendShare)
	}
	if !rollups[1].SpendShare.Equal(dec("20")) {
		t.Fatalf("expected 20%% share, got %s", rollups[1].SpendShare)
	}
}

func TestBestPerformerSkipsZeroLeadSources(t *testing.T) {
	noLeads := uuid.New()
	cheap := uuid.New()
	pricey := uuid.New()
	entries := []models.MediaBuyingEntry{
		dzdEntry(noLeads, "Display", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "500", 0),
		dzdEntry(pricey, "Facebook", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), "3000", 10),
		dzdEntry(cheap, "TikTok", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), "1000", 10),
	}

	best := BestPerformer(RollupBySource(entries, defaultNormalizer()))
	if best == nil || best.SourceID != cheap {
		t.Fatalf("expected cheapest source, got %+v", best)
	}
}

func TestBestPerformerTieKeepsScanOrder(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	entries := []models.MediaBuyingEntry{
		dzdEntry(first, "Facebook", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "1000", 10),
		dzdEntry(second, "TikTok", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), "2000", 20),
	}

	best := BestPerformer(RollupBySource(entries, defaultNormalizer()))
	if best == nil || best.SourceID != first {
		t.Fatalf("expected first source on tie, got %+v", best)
	}
}

func TestBestPerformerNilWhenNoLeads(t *testing.T) {
	entries := []models.MediaBuyingEntry{
		dzdEntry(uuid.New(), "Display", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "500", 0),
	}
	if best := BestPerformer(RollupBySource(entries, defaultNormalizer())); best != nil {
		t.Fatalf("expected nil best performer, got %+v", best)
	}
}

func TestDailyTrendAscendingByDate(t *testing.T) {
	source := uuid.New()
	entries := []models.MediaBuyingEntry{
		dzdEntry(source, "Facebook", time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), "300", 3),
		dzdEntry(source, "Facebook", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "100", 1),
		dzdEntry(source, "Facebook", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "150", 2),
	}

	trend := DailyTrend(entries, defaultNormalizer())
	if len(trend) != 2 {
		t.Fatalf("expected 2 trend points, got %d", len(trend))
	}
	if trend[0].Date != "2025-06-01" || !trend[0].SpendDZD.Equal(dec("250")) || trend[0].Leads != 3 {
		t.Fatalf("first point wrong: %+v", trend[0])
	}
	if trend[1].Date != "2025-06-03" {
		t.Fatalf("expected ascending dates, got %+v", trend)
	}
}

func TestComparisonDeltas(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	source := uuid.New()
	current := []models.MediaBuyingEntry{
		dzdEntry(source, "Facebook", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), "3000", 30),
	}
	prior := []models.MediaBuyingEntry{
		dzdEntry(source, "Facebook", time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), "2000", 40),
	}

	stats := Aggregate(AggregateInput{
		Entries:      current,
		PriorEntries: prior,
		Now:          now,
		Normalizer:   defaultNormalizer(),
	})

	if !stats.Comparison.SpendChange.Equal(dec("50")) {
		t.Fatalf("expected +50%% spend, got %s", stats.Comparison.SpendChange)
	}
	if !stats.Comparison.LeadsChange.Equal(dec("-25")) {
		t.Fatalf("expected -25%% leads, got %s", stats.Comparison.LeadsChange)
	}
	// CPL moved from 50 to 100.
	if !stats.Comparison.CPLChange.Equal(dec("100")) {
		t.Fatalf("expected +100%% CPL, got %s", stats.Comparison.CPLChange)
	}
}

func TestComparisonZeroPriorYieldsZeroDelta(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	source := uuid.New()
	current := []models.MediaBuyingEntry{
		dzdEntry(source, "Facebook", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), "3000", 30),
	}

	stats := Aggregate(AggregateInput{Entries: current, Now: now, Normalizer: defaultNormalizer()})

	if stats.Comparison.SpendChange.Sign() != 0 || stats.Comparison.LeadsChange.Sign() != 0 || stats.Comparison.CPLChange.Sign() != 0 {
		t.Fatalf("expected zero deltas against empty prior window, got %+v", stats.Comparison)
	}
}

func TestConversionRate(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	source := uuid.New()
	entries := []models.MediaBuyingEntry{
		dzdEntry(source, "Facebook", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), "3000", 40),
	}

	stats := Aggregate(AggregateInput{
		Entries:     entries,
		Conversions: 10,
		Now:         now,
		Normalizer:  defaultNormalizer(),
	})
	if !stats.ConversionRate.Equal(dec("25")) {
		t.Fatalf("expected 25%% conversion rate, got %s", stats.ConversionRate)
	}

	empty := Aggregate(AggregateInput{Conversions: 10, Now: now, Normalizer: defaultNormalizer()})
	if empty.ConversionRate.Sign() != 0 {
		t.Fatalf("expected 0 conversion rate with no leads, got %s", empty.ConversionRate)
	}
}

func TestPriorWindowEqualLength(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	priorStart, priorEnd := PriorWindow(start, end)
	if !priorEnd.Equal(time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected prior end May 31, got %s", priorEnd)
	}
	if !priorStart.Equal(time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected prior start May 2, got %s", priorStart)
	}
}
