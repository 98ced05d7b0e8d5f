package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbenali/mediaops-backend/pkg/db/models"
	"github.com/rbenali/mediaops-backend/pkg/logger"
)

type fakeBudgetsRepo struct {
	budgets []models.MediaBuyingBudget
	month   int
	year    int
	err     error
}

func (f *fakeBudgetsRepo) FindForPeriod(ctx context.Context, month, year int) ([]models.MediaBuyingBudget, error) {
	f.month = month
	f.year = year
	if f.err != nil {
		return nil, f.err
	}
	return f.budgets, nil
}

type fakeSweeper struct {
	swept []uuid.UUID
	fail  map[uuid.UUID]error
}

func (f *fakeSweeper) SweepBudget(ctx context.Context, budget models.MediaBuyingBudget) error {
	if err := f.fail[budget.ID]; err != nil {
		return err
	}
	f.swept = append(f.swept, budget.ID)
	return nil
}

func sweepBudget(enabled bool) models.MediaBuyingBudget {
	return models.MediaBuyingBudget{
		ID:           uuid.New(),
		Month:        6,
		Year:         2025,
		BudgetAmount: decimal.RequireFromString("100000"),
		AlertEnabled: enabled,
	}
}

func newBudgetSweepJob(t *testing.T, repo *fakeBudgetsRepo, sweeper *fakeSweeper) *budgetSweepJob {
	t.Helper()
	jobIface, err := NewBudgetSweepJob(BudgetSweepJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Budgets: repo,
		Alerts:  sweeper,
	})
	if err != nil {
		t.Fatalf("NewBudgetSweepJob: %v", err)
	}
	job, ok := jobIface.(*budgetSweepJob)
	if !ok {
		t.Fatalf("expected budgetSweepJob, got %T", jobIface)
	}
	return job
}

func TestBudgetSweepJobSweepsEnabledBudgets(t *testing.T) {
	enabled := sweepBudget(true)
	disabled := sweepBudget(false)
	repo := &fakeBudgetsRepo{budgets: []models.MediaBuyingBudget{enabled, disabled}}
	sweeper := &fakeSweeper{}
	job := newBudgetSweepJob(t, repo, sweeper)
	job.now = func() time.Time { return time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC) }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if repo.month != 6 || repo.year != 2025 {
		t.Fatalf("expected current period load, got %d/%d", repo.month, repo.year)
	}
	if len(sweeper.swept) != 1 || sweeper.swept[0] != enabled.ID {
		t.Fatalf("expected only enabled budget swept, got %v", sweeper.swept)
	}
}

func TestBudgetSweepJobContinuesPastFailures(t *testing.T) {
	failing := sweepBudget(true)
	healthy := sweepBudget(true)
	repo := &fakeBudgetsRepo{budgets: []models.MediaBuyingBudget{failing, healthy}}
	sweeper := &fakeSweeper{fail: map[uuid.UUID]error{failing.ID: errors.New("boom")}}
	job := newBudgetSweepJob(t, repo, sweeper)
	job.now = func() time.Time { return time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC) }

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if len(sweeper.swept) != 1 || sweeper.swept[0] != healthy.ID {
		t.Fatalf("expected healthy budget still swept, got %v", sweeper.swept)
	}
}

func TestBudgetSweepJobPropagatesLoadErrors(t *testing.T) {
	repo := &fakeBudgetsRepo{err: errors.New("db down")}
	job := newBudgetSweepJob(t, repo, &fakeSweeper{})

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
