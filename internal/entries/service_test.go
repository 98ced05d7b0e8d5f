package entries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rbenali/mediaops-backend/pkg/db/models"
	"github.com/rbenali/mediaops-backend/pkg/enums"
	pkgerrors "github.com/rbenali/mediaops-backend/pkg/errors"
	"github.com/rbenali/mediaops-backend/pkg/pagination"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

type stubRepo struct {
	entry    *models.MediaBuyingEntry
	createFn func(ctx context.Context, entry *models.MediaBuyingEntry) (*models.MediaBuyingEntry, error)
	updateFn func(ctx context.Context, entry *models.MediaBuyingEntry) error
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }
func (s *stubRepo) Create(ctx context.Context, entry *models.MediaBuyingEntry) (*models.MediaBuyingEntry, error) {
	if s.createFn != nil {
		return s.createFn(ctx, entry)
	}
	return entry, nil
}
func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.MediaBuyingEntry, error) {
	if s.entry != nil && s.entry.ID == id {
		return s.entry, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *stubRepo) List(ctx context.Context, query ListQuery) ([]models.MediaBuyingEntry, *pagination.Cursor, error) {
	return nil, nil, nil
}
func (s *stubRepo) FindForPeriod(ctx context.Context, start, end time.Time, sourceID *uuid.UUID) ([]models.MediaBuyingEntry, error) {
	return nil, nil
}
func (s *stubRepo) FindForRange(ctx context.Context, start, end time.Time) ([]models.MediaBuyingEntry, error) {
	return nil, nil
}
func (s *stubRepo) Update(ctx context.Context, entry *models.MediaBuyingEntry) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, entry)
	}
	return nil
}
func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type stubSources struct {
	source *models.AdSource
}

func (s *stubSources) FindByID(ctx context.Context, id uuid.UUID) (*models.AdSource, error) {
	if s.source != nil && s.source.ID == id {
		return s.source, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubAlerts struct {
	calls []uuid.UUID
	err   error
}

func (s *stubAlerts) CheckBudgetAlerts(ctx context.Context, sourceID uuid.UUID, date time.Time) error {
	s.calls = append(s.calls, sourceID)
	return s.err
}

func activeSource() *models.AdSource {
	return &models.AdSource{ID: uuid.New(), Name: "Facebook", Slug: "facebook", IsActive: true}
}

func newTestService(t *testing.T, repo Repository, sources sourceFinder, alerts alertChecker) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Sources: sources, Alerts: alerts})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func validInput(sourceID uuid.UUID) CreateEntryInput {
	return CreateEntryInput{
		Date:       time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		SourceID:   sourceID,
		TotalSpend: dec("500"),
		TotalLeads: 10,
		Currency:   enums.CurrencyDZD,
	}
}

func TestCreateEntryDZDDerivesSpend(t *testing.T) {
	source := activeSource()
	alerts := &stubAlerts{}
	svc := newTestService(t, &stubRepo{}, &stubSources{source: source}, alerts)

	entry, err := svc.CreateEntry(context.Background(), uuid.New(), validInput(source.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if entry.SpendInDZD == nil || !entry.SpendInDZD.Equal(dec("500")) {
		t.Fatalf("expected spend_in_dzd 500, got %v", entry.SpendInDZD)
	}
	if len(alerts.calls) != 1 || alerts.calls[0] != source.ID {
		t.Fatalf("expected alert check for source, got %v", alerts.calls)
	}
}

func TestCreateEntryUSDWithRate(t *testing.T) {
	source := activeSource()
	svc := newTestService(t, &stubRepo{}, &stubSources{source: source}, &stubAlerts{})

	input := validInput(source.ID)
	input.Currency = enums.CurrencyUSD
	input.TotalSpend = dec("1000")
	input.ExchangeRate = decPtr("140")

	entry, err := svc.CreateEntry(context.Background(), uuid.New(), input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if entry.SpendInDZD == nil || !entry.SpendInDZD.Equal(dec("140000")) {
		t.Fatalf("expected spend_in_dzd 140000, got %v", entry.SpendInDZD)
	}
}

func TestCreateEntryUSDWithoutRateLeavesNull(t *testing.T) {
	source := activeSource()
	svc := newTestService(t, &stubRepo{}, &stubSources{source: source}, &stubAlerts{})

	input := validInput(source.ID)
	input.Currency = enums.CurrencyUSD

	entry, err := svc.CreateEntry(context.Background(), uuid.New(), input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if entry.SpendInDZD != nil {
		t.Fatalf("expected nil spend_in_dzd, got %s", *entry.SpendInDZD)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	source := activeSource()
	svc := newTestService(t, &stubRepo{}, &stubSources{source: source}, &stubAlerts{})
	userID := uuid.New()

	negSpend := validInput(source.ID)
	negSpend.TotalSpend = dec("-5")

	negLeads := validInput(source.ID)
	negLeads.TotalLeads = -1

	badRate := validInput(source.ID)
	badRate.ExchangeRate = decPtr("0")

	noDate := validInput(source.ID)
	noDate.Date = time.Time{}

	cases := []struct {
		name  string
		input CreateEntryInput
	}{
		{"negative spend", negSpend},
		{"negative leads", negLeads},
		{"zero rate", badRate},
		{"missing date", noDate},
		{"unknown source", validInput(uuid.New())},
	}
	for _, tc := range cases {
		if _, err := svc.CreateEntry(context.Background(), userID, tc.input); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		} else if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Errorf("%s: expected validation code, got %v", tc.name, err)
		}
	}
}

func TestCreateEntryRejectsInactiveSource(t *testing.T) {
	source := activeSource()
	source.IsActive = false
	svc := newTestService(t, &stubRepo{}, &stubSources{source: source}, &stubAlerts{})

	_, err := svc.CreateEntry(context.Background(), uuid.New(), validInput(source.ID))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation, got %v", err)
	}
}

func TestCreateEntrySucceedsWhenAlertCheckFails(t *testing.T) {
	source := activeSource()
	alerts := &stubAlerts{err: errors.New("alert store down")}
	svc := newTestService(t, &stubRepo{}, &stubSources{source: source}, alerts)

	entry, err := svc.CreateEntry(context.Background(), uuid.New(), validInput(source.ID))
	if err != nil {
		t.Fatalf("entry creation must not fail on alert errors, got %v", err)
	}
	if entry == nil {
		t.Fatal("expected created entry")
	}
}

func TestUpdateEntryRederivesSpend(t *testing.T) {
	source := activeSource()
	existing := &models.MediaBuyingEntry{
		ID:         uuid.New(),
		Date:       time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		SourceID:   source.ID,
		TotalSpend: dec("1000"),
		Currency:   enums.CurrencyUSD,
	}
	repo := &stubRepo{entry: existing}
	alerts := &stubAlerts{}
	svc := newTestService(t, repo, &stubSources{source: source}, alerts)

	updated, err := svc.UpdateEntry(context.Background(), existing.ID, UpdateEntryInput{
		ExchangeRate: decPtr("140"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.SpendInDZD == nil || !updated.SpendInDZD.Equal(dec("140000")) {
		t.Fatalf("expected re-derived 140000, got %v", updated.SpendInDZD)
	}
	if len(alerts.calls) != 1 {
		t.Fatalf("expected alert check after update, got %d", len(alerts.calls))
	}
}

func TestUpdateEntryClearRate(t *testing.T) {
	source := activeSource()
	rate := dec("140")
	derived := dec("140000")
	existing := &models.MediaBuyingEntry{
		ID:           uuid.New(),
		Date:         time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		SourceID:     source.ID,
		TotalSpend:   dec("1000"),
		Currency:     enums.CurrencyUSD,
		ExchangeRate: &rate,
		SpendInDZD:   &derived,
	}
	svc := newTestService(t, &stubRepo{entry: existing}, &stubSources{source: source}, &stubAlerts{})

	updated, err := svc.UpdateEntry(context.Background(), existing.ID, UpdateEntryInput{ClearRate: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ExchangeRate != nil {
		t.Fatal("expected rate cleared")
	}
	if updated.SpendInDZD != nil {
		t.Fatalf("expected spend_in_dzd cleared, got %s", *updated.SpendInDZD)
	}
}

func TestDeleteEntryNotFound(t *testing.T) {
	source := activeSource()
	svc := newTestService(t, &stubRepo{}, &stubSources{source: source}, &stubAlerts{})

	err := svc.DeleteEntry(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected not found")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
