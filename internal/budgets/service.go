package budgets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rbenali/mediaops-backend/pkg/db"
	"github.com/rbenali/mediaops-backend/pkg/db/models"
	"github.com/rbenali/mediaops-backend/pkg/enums"
	pkgerrors "github.com/rbenali/mediaops-backend/pkg/errors"
)

type entriesRepository interface {
	FindForPeriod(ctx context.Context, start, end time.Time, sourceID *uuid.UUID) ([]models.MediaBuyingEntry, error)
}

// CreateBudgetInput holds the fields accepted when creating a budget.
type CreateBudgetInput struct {
	Month          int
	Year           int
	SourceID       *uuid.UUID
	BudgetAmount   decimal.Decimal
	Currency       enums.Currency
	AlertThreshold *int
	AlertEnabled   *bool
}

// UpdateBudgetInput holds the mutable budget fields. Nil fields are left
// untouched.
type UpdateBudgetInput struct {
	BudgetAmount   *decimal.Decimal
	AlertThreshold *int
	AlertEnabled   *bool
}

// Service exposes budget management and the per-period status projection.
type Service interface {
	CreateBudget(ctx context.Context, input CreateBudgetInput) (*models.MediaBuyingBudget, error)
	GetBudget(ctx context.Context, id uuid.UUID) (*models.MediaBuyingBudget, error)
	ListBudgets(ctx context.Context, query ListQuery) ([]models.MediaBuyingBudget, error)
	UpdateBudget(ctx context.Context, id uuid.UUID, input UpdateBudgetInput) (*models.MediaBuyingBudget, error)
	DeleteBudget(ctx context.Context, id uuid.UUID) error
	Status(ctx context.Context, month, year int) ([]BudgetStatus, error)
}

type service struct {
	repo             Repository
	entries          entriesRepository
	defaultThreshold int
}

// NewService builds a budgets service. defaultThreshold applies when a
// budget is created without an explicit alert threshold.
func NewService(repo Repository, entries entriesRepository, defaultThreshold int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("budgets repository required")
	}
	if entries == nil {
		return nil, fmt.Errorf("entries repository required")
	}
	if defaultThreshold <= 0 || defaultThreshold > 100 {
		defaultThreshold = 80
	}
	return &service{
		repo:             repo,
		entries:          entries,
		defaultThreshold: defaultThreshold,
	}, nil
}

func (s *service) CreateBudget(ctx context.Context, input CreateBudgetInput) (*models.MediaBuyingBudget, error) {
	if err := validatePeriod(input.Month, input.Year); err != nil {
		return nil, err
	}
	if input.BudgetAmount.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "budget amount must be positive")
	}
	currency := input.Currency
	if currency == "" {
		currency = enums.CurrencyDZD
	}
	if !currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency")
	}
	threshold := s.defaultThreshold
	if input.AlertThreshold != nil {
		threshold = *input.AlertThreshold
	}
	if threshold <= 0 || threshold > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "alert threshold must be between 1 and 100")
	}
	enabled := true
	if input.AlertEnabled != nil {
		enabled = *input.AlertEnabled
	}

	budget := &models.MediaBuyingBudget{
		Month:          input.Month,
		Year:           input.Year,
		SourceID:       input.SourceID,
		BudgetAmount:   input.BudgetAmount,
		Currency:       currency,
		AlertThreshold: threshold,
		AlertEnabled:   enabled,
	}
	created, err := s.repo.Create(ctx, budget)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "budget already exists for this period and source")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create budget")
	}
	return created, nil
}

func (s *service) GetBudget(ctx context.Context, id uuid.UUID) (*models.MediaBuyingBudget, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "budget id required")
	}
	budget, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "budget not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find budget")
	}
	return budget, nil
}

func (s *service) ListBudgets(ctx context.Context, query ListQuery) ([]models.MediaBuyingBudget, error) {
	budgets, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list budgets")
	}
	return budgets, nil
}

func (s *service) UpdateBudget(ctx context.Context, id uuid.UUID, input UpdateBudgetInput) (*models.MediaBuyingBudget, error) {
	budget, err := s.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.BudgetAmount != nil {
		if input.BudgetAmount.Sign() <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "budget amount must be positive")
		}
		budget.BudgetAmount = *input.BudgetAmount
	}
	if input.AlertThreshold != nil {
		if *input.AlertThreshold <= 0 || *input.AlertThreshold > 100 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "alert threshold must be between 1 and 100")
		}
		budget.AlertThreshold = *input.AlertThreshold
	}
	if input.AlertEnabled != nil {
		budget.AlertEnabled = *input.AlertEnabled
	}
	if err := s.repo.Update(ctx, budget); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update budget")
	}
	return budget, nil
}

func (s *service) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetBudget(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete budget")
	}
	return nil
}

func (s *service) Status(ctx context.Context, month, year int) ([]BudgetStatus, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	periodBudgets, err := s.repo.FindForPeriod(ctx, month, year)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load budgets for period")
	}

	start, end := PeriodWindow(month, year)
	statuses := make([]BudgetStatus, 0, len(periodBudgets))
	for _, budget := range periodBudgets {
		entries, err := s.entries.FindForPeriod(ctx, start, end, budget.SourceID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load period entries")
		}
		statuses = append(statuses, ComputeStatus(budget, entries))
	}
	return statuses, nil
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return pkgerrors.New(pkgerrors.CodeValidation, "month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "year out of range")
	}
	return nil
}
