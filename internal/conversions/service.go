package conversions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbenali/mediaops-backend/pkg/db"
	"github.com/rbenali/mediaops-backend/pkg/db/models"
	"github.com/rbenali/mediaops-backend/pkg/enums"
	pkgerrors "github.com/rbenali/mediaops-backend/pkg/errors"
)

type entryFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.MediaBuyingEntry, error)
}

type orderFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// LinkInput links one order to one media buying entry.
type LinkInput struct {
	EntryID         uuid.UUID              `json:"entryId" validate:"required"`
	OrderID         uuid.UUID              `json:"orderId" validate:"required"`
	AttributionType *enums.AttributionType `json:"attributionType,omitempty"`
	ConversionDate  *time.Time             `json:"conversionDate,omitempty"`
}

// Service links orders to media buying entries.
type Service interface {
	Link(ctx context.Context, input LinkInput) (*models.LeadConversion, error)
	ListByEntry(ctx context.Context, entryID uuid.UUID) ([]models.LeadConversion, error)
	Unlink(ctx context.Context, id uuid.UUID) error
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Repo    Repository
	Entries entryFinder
	Orders  orderFinder
}

type service struct {
	repo    Repository
	entries entryFinder
	orders  orderFinder
}

// NewService builds a conversions service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("conversions: repository is required")
	}
	if params.Entries == nil {
		return nil, errors.New("conversions: entry finder is required")
	}
	if params.Orders == nil {
		return nil, errors.New("conversions: order finder is required")
	}
	return &service{
		repo:    params.Repo,
		entries: params.Entries,
		orders:  params.Orders,
	}, nil
}

// Link records a conversion, snapshotting the order total at link time so
// later order edits never change attributed revenue.
func (s *service) Link(ctx context.Context, input LinkInput) (*models.LeadConversion, error) {
	if input.EntryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entryId is required")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orderId is required")
	}

	entry, err := s.entries.FindByID(ctx, input.EntryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown entry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load entry")
	}

	order, err := s.orders.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order")
	}

	attribution := enums.AttributionManual
	if input.AttributionType != nil {
		if !input.AttributionType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid attribution type")
		}
		attribution = *input.AttributionType
	}

	conversionDate := order.CreatedAt
	if input.ConversionDate != nil {
		conversionDate = *input.ConversionDate
	}

	conversion := &models.LeadConversion{
		EntryID:         entry.ID,
		OrderID:         order.ID,
		OrderValue:      order.Total,
		AttributionType: attribution,
		ConversionDate:  conversionDate,
	}
	created, err := s.repo.Create(ctx, conversion)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is already linked to this entry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to link conversion")
	}
	return created, nil
}

func (s *service) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]models.LeadConversion, error) {
	conversions, err := s.repo.ListByEntry(ctx, entryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list conversions")
	}
	return conversions, nil
}

// Unlink removes a conversion record entirely. Snapshots are not kept for
// unlinked orders.
func (s *service) Unlink(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "conversion not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load conversion")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to unlink conversion")
	}
	return nil
}
