package budgets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbenali/mediaops-backend/pkg/db/models"
	pkgerrors "github.com/rbenali/mediaops-backend/pkg/errors"
)

type stubRepo struct {
	createFn        func(ctx context.Context, budget *models.MediaBuyingBudget) (*models.MediaBuyingBudget, error)
	findForPeriodFn func(ctx context.Context, month, year int) ([]models.MediaBuyingBudget, error)
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }
func (s *stubRepo) Create(ctx context.Context, budget *models.MediaBuyingBudget) (*models.MediaBuyingBudget, error) {
	if s.createFn != nil {
		return s.createFn(ctx, budget)
	}
	return budget, nil
}
func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.MediaBuyingBudget, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubRepo) List(ctx context.Context, query ListQuery) ([]models.MediaBuyingBudget, error) {
	return nil, nil
}
func (s *stubRepo) FindForPeriod(ctx context.Context, month, year int) ([]models.MediaBuyingBudget, error) {
	if s.findForPeriodFn != nil {
		return s.findForPeriodFn(ctx, month, year)
	}
	return nil, nil
}
func (s *stubRepo) Update(ctx context.Context, budget *models.MediaBuyingBudget) error { return nil }
func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error                     { return nil }

type stubEntries struct {
	findFn func(ctx context.Context, start, end time.Time, sourceID *uuid.UUID) ([]models.MediaBuyingEntry, error)
}

func (s *stubEntries) FindForPeriod(ctx context.Context, start, end time.Time, sourceID *uuid.UUID) ([]models.MediaBuyingEntry, error) {
	if s.findFn != nil {
		return s.findFn(ctx, start, end, sourceID)
	}
	return nil, nil
}

func TestCreateBudgetValidation(t *testing.T) {
	svc, _ := NewService(&stubRepo{}, &stubEntries{}, 80)
	badThreshold := 120

	cases := []struct {
		name  string
		input CreateBudgetInput
	}{
		{"zero amount", CreateBudgetInput{Month: 6, Year: 2025}},
		{"bad month", CreateBudgetInput{Month: 13, Year: 2025, BudgetAmount: dec("1000")}},
		{"bad year", CreateBudgetInput{Month: 6, Year: 1900, BudgetAmount: dec("1000")}},
		{"bad threshold", CreateBudgetInput{Month: 6, Year: 2025, BudgetAmount: dec("1000"), AlertThreshold: &badThreshold}},
		{"bad currency", CreateBudgetInput{Month: 6, Year: 2025, BudgetAmount: dec("1000"), Currency: "EUR"}},
	}
	for _, tc := range cases {
		if _, err := svc.CreateBudget(context.Background(), tc.input); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		} else if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Errorf("%s: expected validation code, got %v", tc.name, err)
		}
	}
}

func TestCreateBudgetAppliesDefaults(t *testing.T) {
	var captured *models.MediaBuyingBudget
	repo := &stubRepo{
		createFn: func(_ context.Context, budget *models.MediaBuyingBudget) (*models.MediaBuyingBudget, error) {
			captured = budget
			return budget, nil
		},
	}
	svc, _ := NewService(repo, &stubEntries{}, 75)
	_, err := svc.CreateBudget(context.Background(), CreateBudgetInput{
		Month:        6,
		Year:         2025,
		BudgetAmount: dec("100000"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if captured.AlertThreshold != 75 {
		t.Fatalf("expected default threshold 75, got %d", captured.AlertThreshold)
	}
	if !captured.AlertEnabled {
		t.Fatal("expected alerts enabled by default")
	}
	if captured.Currency != "DZD" {
		t.Fatalf("expected DZD default, got %s", captured.Currency)
	}
}

func TestCreateBudgetMapsDuplicatePeriod(t *testing.T) {
	repo := &stubRepo{
		createFn: func(_ context.Context, _ *models.MediaBuyingBudget) (*models.MediaBuyingBudget, error) {
			return nil, errors.New(`duplicate key value violates unique constraint "uix_budgets_period_source"`)
		},
	}
	svc, _ := NewService(repo, &stubEntries{}, 80)
	_, err := svc.CreateBudget(context.Background(), CreateBudgetInput{
		Month:        6,
		Year:         2025,
		BudgetAmount: dec("100000"),
	})
	if err == nil {
		t.Fatal("expected conflict")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestStatusScopesEntriesPerBudget(t *testing.T) {
	sourceID := uuid.New()
	global := testBudget("100000", 80)
	scoped := testBudget("50000", 80)
	scoped.SourceID = &sourceID

	repo := &stubRepo{
		findForPeriodFn: func(_ context.Context, month, year int) ([]models.MediaBuyingBudget, error) {
			return []models.MediaBuyingBudget{global, scoped}, nil
		},
	}
	var scopes []*uuid.UUID
	entries := &stubEntries{
		findFn: func(_ context.Context, start, end time.Time, id *uuid.UUID) ([]models.MediaBuyingEntry, error) {
			scopes = append(scopes, id)
			if id == nil {
				return []models.MediaBuyingEntry{dzdEntry("120000")}, nil
			}
			return []models.MediaBuyingEntry{dzdEntry("20000")}, nil
		},
	}
	svc, _ := NewService(repo, entries, 80)

	statuses, err := svc.Status(context.Background(), 6, 2025)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if len(scopes) != 2 || scopes[0] != nil || scopes[1] == nil {
		t.Fatalf("expected global then scoped entry queries, got %v", scopes)
	}
	if !statuses[0].IsOverBudget {
		t.Fatal("expected global budget over")
	}
	if statuses[1].IsOverBudget {
		t.Fatal("expected scoped budget under")
	}
	if !statuses[1].SpendPercentage.Equal(dec("40")) {
		t.Fatalf("expected 40%%, got %s", statuses[1].SpendPercentage)
	}
}

func TestStatusValidatesPeriod(t *testing.T) {
	svc, _ := NewService(&stubRepo{}, &stubEntries{}, 80)
	if _, err := svc.Status(context.Background(), 0, 2025); err == nil {
		t.Fatal("expected validation error")
	}
}
