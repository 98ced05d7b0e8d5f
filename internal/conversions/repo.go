package conversions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbenali/mediaops-backend/pkg/db/models"
)

// Repository provides persistence for lead conversions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, conversion *models.LeadConversion) (*models.LeadConversion, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.LeadConversion, error)
	ListByEntry(ctx context.Context, entryID uuid.UUID) ([]models.LeadConversion, error)
	CountForEntryRange(ctx context.Context, start, end time.Time) (int64, error)
	SumValueForEntryRange(ctx context.Context, start, end time.Time) (float64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a conversions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, conversion *models.LeadConversion) (*models.LeadConversion, error) {
	if err := r.db.WithContext(ctx).Create(conversion).Error; err != nil {
		return nil, err
	}
	return conversion, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.LeadConversion, error) {
	var conversion models.LeadConversion
	err := r.db.WithContext(ctx).
		Preload("Entry").
		Where("id = ?", id).
		First(&conversion).Error
	if err != nil {
		return nil, err
	}
	return &conversion, nil
}

func (r *repository) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]models.LeadConversion, error) {
	var conversions []models.LeadConversion
	err := r.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Order("conversion_date DESC, created_at DESC").
		Find(&conversions).Error
	if err != nil {
		return nil, err
	}
	return conversions, nil
}

// CountForEntryRange counts conversions attributed to entries dated within
// [start, end].
func (r *repository) CountForEntryRange(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LeadConversion{}).
		Joins("JOIN media_buying_entries ON media_buying_entries.id = lead_conversions.entry_id").
		Where("media_buying_entries.date >= ? AND media_buying_entries.date <= ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SumValueForEntryRange totals the snapshotted order values of conversions
// attributed to entries dated within [start, end].
func (r *repository) SumValueForEntryRange(ctx context.Context, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.LeadConversion{}).
		Joins("JOIN media_buying_entries ON media_buying_entries.id = lead_conversions.entry_id").
		Where("media_buying_entries.date >= ? AND media_buying_entries.date <= ?", start, end).
		Select("COALESCE(SUM(lead_conversions.order_value), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.LeadConversion{}).Error
}
