package entries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbenali/mediaops-backend/internal/fx"
	"github.com/rbenali/mediaops-backend/pkg/db/models"
	pkgerrors "github.com/rbenali/mediaops-backend/pkg/errors"
	"github.com/rbenali/mediaops-backend/pkg/logger"
	"github.com/rbenali/mediaops-backend/pkg/pagination"
)

type sourceFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.AdSource, error)
}

type alertChecker interface {
	CheckBudgetAlerts(ctx context.Context, sourceID uuid.UUID, date time.Time) error
}

// Service exposes spend entry management. Creating or updating an entry
// derives its DZD value once and then re-runs the budget alert decision.
type Service interface {
	CreateEntry(ctx context.Context, userID uuid.UUID, input CreateEntryInput) (*models.MediaBuyingEntry, error)
	GetEntry(ctx context.Context, id uuid.UUID) (*models.MediaBuyingEntry, error)
	ListEntries(ctx context.Context, params ListEntriesParams) (*ListEntriesResult, error)
	UpdateEntry(ctx context.Context, id uuid.UUID, input UpdateEntryInput) (*models.MediaBuyingEntry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    Repository
	sources sourceFinder
	alerts  alertChecker
	log     *logger.Logger
}

// ServiceParams bundles the dependencies required to build an entries service.
type ServiceParams struct {
	Repo    Repository
	Sources sourceFinder
	Alerts  alertChecker
	Logger  *logger.Logger
}

// NewService constructs an entries service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("entries repository required")
	}
	if params.Sources == nil {
		return nil, fmt.Errorf("sources repository required")
	}
	if params.Alerts == nil {
		return nil, fmt.Errorf("alerts service required")
	}
	return &service{
		repo:    params.Repo,
		sources: params.Sources,
		alerts:  params.Alerts,
		log:     params.Logger,
	}, nil
}

func (s *service) CreateEntry(ctx context.Context, userID uuid.UUID, input CreateEntryInput) (*models.MediaBuyingEntry, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if input.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entry date required")
	}
	if input.SourceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source id required")
	}
	if input.TotalSpend.Sign() < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total spend cannot be negative")
	}
	if input.TotalLeads < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total leads cannot be negative")
	}
	if !input.Currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency")
	}
	if input.ExchangeRate != nil && input.ExchangeRate.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "exchange rate must be positive")
	}
	source, err := s.sources.FindByID(ctx, input.SourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown source")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup source")
	}
	if !source.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source is deactivated")
	}

	entry := &models.MediaBuyingEntry{
		Date:         input.Date,
		SourceID:     input.SourceID,
		TotalSpend:   input.TotalSpend,
		TotalLeads:   input.TotalLeads,
		Currency:     input.Currency,
		ExchangeRate: input.ExchangeRate,
		SpendInDZD:   fx.DeriveSpendInDZD(input.TotalSpend, input.Currency, input.ExchangeRate),
		StoreID:      input.StoreID,
		ProductID:    input.ProductID,
		Metadata:     input.Metadata,
		CreatedByID:  userID,
	}
	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create entry")
	}

	s.runAlertCheck(ctx, created.SourceID, created.Date)
	return created, nil
}

func (s *service) GetEntry(ctx context.Context, id uuid.UUID) (*models.MediaBuyingEntry, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entry id required")
	}
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find entry")
	}
	return entry, nil
}

func (s *service) ListEntries(ctx context.Context, params ListEntriesParams) (*ListEntriesResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range end precedes start")
	}
	rows, next, err := s.repo.List(ctx, ListQuery{
		From:     params.From,
		To:       params.To,
		SourceID: params.SourceID,
		StoreID:  params.StoreID,
		Limit:    params.Limit,
		Cursor:   cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list entries")
	}
	result := &ListEntriesResult{Entries: rows}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		result.NextCursor = &encoded
	}
	return result, nil
}

func (s *service) UpdateEntry(ctx context.Context, id uuid.UUID, input UpdateEntryInput) (*models.MediaBuyingEntry, error) {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Date != nil {
		if input.Date.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "entry date required")
		}
		entry.Date = *input.Date
	}
	if input.TotalSpend != nil {
		if input.TotalSpend.Sign() < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "total spend cannot be negative")
		}
		entry.TotalSpend = *input.TotalSpend
	}
	if input.TotalLeads != nil {
		if *input.TotalLeads < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "total leads cannot be negative")
		}
		entry.TotalLeads = *input.TotalLeads
	}
	if input.Currency != nil {
		if !input.Currency.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency")
		}
		entry.Currency = *input.Currency
	}
	if input.ClearRate {
		entry.ExchangeRate = nil
	} else if input.ExchangeRate != nil {
		if input.ExchangeRate.Sign() <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "exchange rate must be positive")
		}
		entry.ExchangeRate = input.ExchangeRate
	}
	if input.Metadata != nil {
		entry.Metadata = input.Metadata
	}

	// Edits re-derive the stored DZD value; later exchange rate records
	// never do.
	entry.SpendInDZD = fx.DeriveSpendInDZD(entry.TotalSpend, entry.Currency, entry.ExchangeRate)

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update entry")
	}

	s.runAlertCheck(ctx, entry.SourceID, entry.Date)
	return entry, nil
}

func (s *service) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetEntry(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete entry")
	}
	return nil
}

// runAlertCheck is best-effort: the entry is already committed, so a failed
// check is logged and never rolls back or fails the request.
func (s *service) runAlertCheck(ctx context.Context, sourceID uuid.UUID, date time.Time) {
	if err := s.alerts.CheckBudgetAlerts(ctx, sourceID, date); err != nil && s.log != nil {
		logCtx := s.log.WithField(ctx, "source_id", sourceID.String())
		s.log.Error(logCtx, "budget alert check failed", err)
	}
}
