package sources

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbenali/mediaops-backend/pkg/db/models"
)

// Repository provides persistence for ad sources.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, source *models.AdSource) (*models.AdSource, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.AdSource, error)
	FindBySlug(ctx context.Context, slug string) (*models.AdSource, error)
	List(ctx context.Context, includeInactive bool) ([]models.AdSource, error)
	Update(ctx context.Context, source *models.AdSource) error
	CountEntries(ctx context.Context, sourceID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a sources repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, source *models.AdSource) (*models.AdSource, error) {
	if err := r.db.WithContext(ctx).Create(source).Error; err != nil {
		return nil, err
	}
	return source, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.AdSource, error) {
	var source models.AdSource
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&source).Error
	if err != nil {
		return nil, err
	}
	return &source, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.AdSource, error) {
	var source models.AdSource
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&source).Error
	if err != nil {
		return nil, err
	}
	return &source, nil
}

func (r *repository) List(ctx context.Context, includeInactive bool) ([]models.AdSource, error) {
	var sources []models.AdSource
	query := r.db.WithContext(ctx).Order("sort_order ASC, name ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&sources).Error; err != nil {
		return nil, err
	}
	return sources, nil
}

func (r *repository) Update(ctx context.Context, source *models.AdSource) error {
	return r.db.WithContext(ctx).Save(source).Error
}

func (r *repository) CountEntries(ctx context.Context, sourceID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MediaBuyingEntry{}).
		Where("source_id = ?", sourceID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
