package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/rbenali/mediaops-backend/internal/fx"
	"github.com/rbenali/mediaops-backend/pkg/db/models"
	pkgerrors "github.com/rbenali/mediaops-backend/pkg/errors"
)

type entriesRepository interface {
	FindForRange(ctx context.Context, start, end time.Time) ([]models.MediaBuyingEntry, error)
}

type conversionsRepository interface {
	CountForEntryRange(ctx context.Context, start, end time.Time) (int64, error)
}

// Service computes dashboard projections over a date range.
type Service interface {
	Stats(ctx context.Context, start, end, now time.Time) (*DashboardStats, error)
	BySource(ctx context.Context, start, end time.Time) ([]SourceAnalytics, error)
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Entries     entriesRepository
	Conversions conversionsRepository
	Normalizer  fx.Normalizer
}

type service struct {
	entries     entriesRepository
	conversions conversionsRepository
	normalizer  fx.Normalizer
}

// NewService builds a dashboard service.
func NewService(params ServiceParams) (Service, error) {
	if params.Entries == nil {
		return nil, errors.New("dashboard: entries repository is required")
	}
	if params.Conversions == nil {
		return nil, errors.New("dashboard: conversions repository is required")
	}
	return &service{
		entries:     params.Entries,
		conversions: params.Conversions,
		normalizer:  params.Normalizer,
	}, nil
}

// Stats aggregates the requested range plus the immediately preceding
// window for comparisons. The reference time is explicit so callers and
// tests control the today/this-week buckets.
func (s *service) Stats(ctx context.Context, start, end, now time.Time) (*DashboardStats, error) {
	if end.Before(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "endDate must not precede startDate")
	}

	entries, err := s.entries.FindForRange(ctx, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load entries")
	}

	priorStart, priorEnd := PriorWindow(start, end)
	priorEntries, err := s.entries.FindForRange(ctx, priorStart, priorEnd)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load prior entries")
	}

	conversions, err := s.conversions.CountForEntryRange(ctx, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to count conversions")
	}

	stats := Aggregate(AggregateInput{
		Entries:      entries,
		PriorEntries: priorEntries,
		Conversions:  conversions,
		Now:          now,
		Normalizer:   s.normalizer,
	})
	return &stats, nil
}

func (s *service) BySource(ctx context.Context, start, end time.Time) ([]SourceAnalytics, error) {
	if end.Before(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "endDate must not precede startDate")
	}
	entries, err := s.entries.FindForRange(ctx, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load entries")
	}
	return RollupBySource(entries, s.normalizer), nil
}
