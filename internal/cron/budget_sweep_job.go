package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/rbenali/mediaops-backend/pkg/db/models"
	"github.com/rbenali/mediaops-backend/pkg/logger"
)

type budgetsSweepRepo interface {
	FindForPeriod(ctx context.Context, month, year int) ([]models.MediaBuyingBudget, error)
}

type budgetSweeper interface {
	SweepBudget(ctx context.Context, budget models.MediaBuyingBudget) error
}

// BudgetSweepJobParams configure the budget sweep job.
type BudgetSweepJobParams struct {
	Logger  *logger.Logger
	Budgets budgetsSweepRepo
	Alerts  budgetSweeper
}

// NewBudgetSweepJob builds the job that re-evaluates every current-month
// budget. It backstops the per-entry alert check: alerts still fire for
// budgets created after the spend happened.
func NewBudgetSweepJob(params BudgetSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Budgets == nil {
		return nil, fmt.Errorf("budgets repository required")
	}
	if params.Alerts == nil {
		return nil, fmt.Errorf("alerts service required")
	}
	return &budgetSweepJob{
		logg:    params.Logger,
		budgets: params.Budgets,
		alerts:  params.Alerts,
		now:     time.Now,
	}, nil
}

type budgetSweepJob struct {
	logg    *logger.Logger
	budgets budgetsSweepRepo
	alerts  budgetSweeper
	now     func() time.Time
}

func (j *budgetSweepJob) Name() string { return "budget-sweep" }

func (j *budgetSweepJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	budgets, err := j.budgets.FindForPeriod(ctx, int(now.Month()), now.Year())
	if err != nil {
		return fmt.Errorf("budget sweep: load budgets: %w", err)
	}

	var swept int
	var errs error
	for _, budget := range budgets {
		if !budget.AlertEnabled {
			continue
		}
		if err := j.alerts.SweepBudget(ctx, budget); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("budget %s: %w", budget.ID, err))
			continue
		}
		swept++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"month":          int(now.Month()),
		"year":           now.Year(),
		"budgets_swept":  swept,
		"budgets_loaded": len(budgets),
	})
	j.logg.Info(logCtx, "budget sweep complete")
	return errs
}
