package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/rbenali/mediaops-backend/internal/budgets"
	"github.com/rbenali/mediaops-backend/pkg/db/models"
	"github.com/rbenali/mediaops-backend/pkg/enums"
	pkgerrors "github.com/rbenali/mediaops-backend/pkg/errors"
	"github.com/rbenali/mediaops-backend/pkg/logger"
	"github.com/rbenali/mediaops-backend/pkg/pagination"
)

const exceededThreshold = 100

var hundred = decimal.NewFromInt(100)

type budgetsRepository interface {
	FindForPeriod(ctx context.Context, month, year int) ([]models.MediaBuyingBudget, error)
}

type entriesRepository interface {
	FindForPeriod(ctx context.Context, start, end time.Time, sourceID *uuid.UUID) ([]models.MediaBuyingEntry, error)
}

// ListAlertsParams carries the inputs accepted by ListAlerts.
type ListAlertsParams struct {
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListAlertsResult bundles one page of alerts with the follow-up cursor.
type ListAlertsResult struct {
	Alerts      []models.BudgetAlert `json:"alerts"`
	UnreadCount int64                `json:"unreadCount"`
	NextCursor  *string              `json:"nextCursor,omitempty"`
}

// Service decides when budget alerts fire and exposes the alert inbox.
type Service interface {
	CheckBudgetAlerts(ctx context.Context, sourceID uuid.UUID, date time.Time) error
	SweepBudget(ctx context.Context, budget models.MediaBuyingBudget) error
	ListAlerts(ctx context.Context, params ListAlertsParams) (*ListAlertsResult, error)
	MarkRead(ctx context.Context, alertID, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo        Repository
	budgetsRepo budgetsRepository
	entriesRepo entriesRepository
	log         *logger.Logger
	nowFn       func() time.Time
}

// ServiceParams bundles the dependencies required to build an alerts service.
type ServiceParams struct {
	Repo        Repository
	BudgetsRepo budgetsRepository
	EntriesRepo entriesRepository
	Logger      *logger.Logger
	Now         func() time.Time
}

// NewService constructs an alerts service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("alerts repository required")
	}
	if params.BudgetsRepo == nil {
		return nil, fmt.Errorf("budgets repository required")
	}
	if params.EntriesRepo == nil {
		return nil, fmt.Errorf("entries repository required")
	}
	nowFn := params.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &service{
		repo:        params.Repo,
		budgetsRepo: params.BudgetsRepo,
		entriesRepo: params.EntriesRepo,
		log:         params.Logger,
		nowFn:       nowFn,
	}, nil
}

// CheckBudgetAlerts re-evaluates the alert decision for the entry's period.
// Up to two budgets apply: the one scoped to sourceID and the global one.
// Only alert-enabled budgets are considered.
func (s *service) CheckBudgetAlerts(ctx context.Context, sourceID uuid.UUID, date time.Time) error {
	month := int(date.Month())
	year := date.Year()

	periodBudgets, err := s.budgetsRepo.FindForPeriod(ctx, month, year)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load budgets for alert check")
	}

	var errs error
	for _, budget := range periodBudgets {
		if !budget.AlertEnabled {
			continue
		}
		if budget.SourceID != nil && *budget.SourceID != sourceID {
			continue
		}
		if err := s.evaluateBudget(ctx, budget); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// SweepBudget runs the alert decision for one budget outside the entry
// flow, used by the scheduled sweep to catch budgets created after spend
// already landed.
func (s *service) SweepBudget(ctx context.Context, budget models.MediaBuyingBudget) error {
	if !budget.AlertEnabled {
		return nil
	}
	return s.evaluateBudget(ctx, budget)
}

func (s *service) evaluateBudget(ctx context.Context, budget models.MediaBuyingBudget) error {
	if budget.BudgetAmount.Sign() <= 0 {
		return nil
	}
	start, end := budgets.PeriodWindow(budget.Month, budget.Year)
	entries, err := s.entriesRepo.FindForPeriod(ctx, start, end, budget.SourceID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load entries for alert check")
	}

	// DZD totals only here; the USD projection is a reporting concern.
	spend := budgets.SumSpendDZD(entries)
	percentage := spend.Div(budget.BudgetAmount).Mul(hundred)

	var alertType enums.BudgetAlertType
	var threshold int
	switch {
	case percentage.GreaterThanOrEqual(hundred):
		alertType = enums.BudgetAlertBudgetExceeded
		threshold = exceededThreshold
	case percentage.GreaterThanOrEqual(decimal.NewFromInt(int64(budget.AlertThreshold))):
		alertType = enums.BudgetAlertThresholdWarning
		threshold = budget.AlertThreshold
	default:
		return nil
	}

	alert := &models.BudgetAlert{
		ID:           uuid.New(),
		BudgetID:     budget.ID,
		AlertType:    alertType,
		Threshold:    threshold,
		CurrentSpend: spend,
		BudgetAmount: budget.BudgetAmount,
		PeriodStart:  start,
	}
	inserted, err := s.repo.CreateIfAbsent(ctx, alert)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert budget alert")
	}
	if inserted && s.log != nil {
		logCtx := s.log.WithFields(ctx, map[string]any{
			"budget_id":  budget.ID.String(),
			"alert_type": string(alertType),
			"percentage": percentage.StringFixed(2),
		})
		s.log.Info(logCtx, "budget alert created")
	}
	return nil
}

func (s *service) ListAlerts(ctx context.Context, params ListAlertsParams) (*ListAlertsResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	alerts, next, err := s.repo.List(ctx, ListParams{
		Limit:      params.Limit,
		Cursor:     cursor,
		UnreadOnly: params.UnreadOnly,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list alerts")
	}
	unread, err := s.repo.CountUnread(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count unread alerts")
	}
	result := &ListAlertsResult{Alerts: alerts, UnreadCount: unread}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		result.NextCursor = &encoded
	}
	return result, nil
}

func (s *service) MarkRead(ctx context.Context, alertID, userID uuid.UUID) error {
	if alertID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "alert id required")
	}
	mark, err := s.repo.MarkRead(ctx, alertID, userID, s.nowFn())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark alert read")
	}
	if !mark.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "alert not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	updated, err := s.repo.MarkAllRead(ctx, userID, s.nowFn())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark all alerts read")
	}
	return updated, nil
}
