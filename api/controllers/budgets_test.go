package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbenali/mediaops-backend/internal/budgets"
	"github.com/rbenali/mediaops-backend/pkg/db/models"
	"github.com/rbenali/mediaops-backend/pkg/enums"
)

type testBudgetsService struct {
	createFn func(ctx context.Context, input budgets.CreateBudgetInput) (*models.MediaBuyingBudget, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*models.MediaBuyingBudget, error)
	listFn   func(ctx context.Context, query budgets.ListQuery) ([]models.MediaBuyingBudget, error)
	updateFn func(ctx context.Context, id uuid.UUID, input budgets.UpdateBudgetInput) (*models.MediaBuyingBudget, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
	statusFn func(ctx context.Context, month, year int) ([]budgets.BudgetStatus, error)
}

func (s *testBudgetsService) CreateBudget(ctx context.Context, input budgets.CreateBudgetInput) (*models.MediaBuyingBudget, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return nil, nil
}

func (s *testBudgetsService) GetBudget(ctx context.Context, id uuid.UUID) (*models.MediaBuyingBudget, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, nil
}

func (s *testBudgetsService) ListBudgets(ctx context.Context, query budgets.ListQuery) ([]models.MediaBuyingBudget, error) {
	if s.listFn != nil {
		return s.listFn(ctx, query)
	}
	return nil, nil
}

func (s *testBudgetsService) UpdateBudget(ctx context.Context, id uuid.UUID, input budgets.UpdateBudgetInput) (*models.MediaBuyingBudget, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, input)
	}
	return nil, nil
}

func (s *testBudgetsService) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *testBudgetsService) Status(ctx context.Context, month, year int) ([]budgets.BudgetStatus, error) {
	if s.statusFn != nil {
		return s.statusFn(ctx, month, year)
	}
	return nil, nil
}

func TestBudgetCreateSuccess(t *testing.T) {
	var captured budgets.CreateBudgetInput
	svc := &testBudgetsService{
		createFn: func(ctx context.Context, input budgets.CreateBudgetInput) (*models.MediaBuyingBudget, error) {
			captured = input
			return &models.MediaBuyingBudget{ID: uuid.New()}, nil
		},
	}

	body := `{"month":6,"year":2026,"budgetAmount":"100000","currency":"DZD","alertThreshold":90}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	BudgetCreate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if captured.Month != 6 || captured.Year != 2026 {
		t.Fatalf("period not carried through: %+v", captured)
	}
	if captured.Currency != enums.CurrencyDZD {
		t.Fatalf("unexpected currency %s", captured.Currency)
	}
	if !captured.BudgetAmount.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("unexpected amount %s", captured.BudgetAmount)
	}
	if captured.AlertThreshold == nil || *captured.AlertThreshold != 90 {
		t.Fatal("threshold not carried through")
	}
}

func TestBudgetCreateRejectsBadMonth(t *testing.T) {
	svc := &testBudgetsService{
		createFn: func(ctx context.Context, input budgets.CreateBudgetInput) (*models.MediaBuyingBudget, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	body := `{"month":13,"year":2026,"budgetAmount":"100000","currency":"DZD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	BudgetCreate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestBudgetStatusDefaultsToCurrentPeriod(t *testing.T) {
	var gotMonth, gotYear int
	svc := &testBudgetsService{
		statusFn: func(ctx context.Context, month, year int) ([]budgets.BudgetStatus, error) {
			gotMonth, gotYear = month, year
			return []budgets.BudgetStatus{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets/status", nil)
	resp := httptest.NewRecorder()
	BudgetStatus(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	now := time.Now().UTC()
	if gotMonth != int(now.Month()) || gotYear != now.Year() {
		t.Fatalf("unexpected period %d/%d", gotMonth, gotYear)
	}
}

func TestBudgetStatusExplicitPeriod(t *testing.T) {
	var gotMonth, gotYear int
	svc := &testBudgetsService{
		statusFn: func(ctx context.Context, month, year int) ([]budgets.BudgetStatus, error) {
			gotMonth, gotYear = month, year
			return []budgets.BudgetStatus{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets/status?month=2&year=2025", nil)
	resp := httptest.NewRecorder()
	BudgetStatus(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if gotMonth != 2 || gotYear != 2025 {
		t.Fatalf("unexpected period %d/%d", gotMonth, gotYear)
	}
}
