package budgets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbenali/mediaops-backend/pkg/db/models"
)

// ListQuery filters budget listings.
type ListQuery struct {
	Month    *int
	Year     *int
	SourceID *uuid.UUID
}

// Repository provides persistence for monthly budgets.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, budget *models.MediaBuyingBudget) (*models.MediaBuyingBudget, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.MediaBuyingBudget, error)
	List(ctx context.Context, query ListQuery) ([]models.MediaBuyingBudget, error)
	FindForPeriod(ctx context.Context, month, year int) ([]models.MediaBuyingBudget, error)
	Update(ctx context.Context, budget *models.MediaBuyingBudget) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a budgets repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, budget *models.MediaBuyingBudget) (*models.MediaBuyingBudget, error) {
	if err := r.db.WithContext(ctx).Create(budget).Error; err != nil {
		return nil, err
	}
	return budget, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MediaBuyingBudget, error) {
	var budget models.MediaBuyingBudget
	err := r.db.WithContext(ctx).
		Preload("Source").
		Where("id = ?", id).
		First(&budget).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]models.MediaBuyingBudget, error) {
	var budgets []models.MediaBuyingBudget
	q := r.db.WithContext(ctx).
		Preload("Source").
		Order("year DESC, month DESC, created_at ASC")
	if query.Month != nil {
		q = q.Where("month = ?", *query.Month)
	}
	if query.Year != nil {
		q = q.Where("year = ?", *query.Year)
	}
	if query.SourceID != nil {
		q = q.Where("source_id = ?", *query.SourceID)
	}
	if err := q.Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

func (r *repository) FindForPeriod(ctx context.Context, month, year int) ([]models.MediaBuyingBudget, error) {
	var budgets []models.MediaBuyingBudget
	err := r.db.WithContext(ctx).
		Preload("Source").
		Where("month = ? AND year = ?", month, year).
		Order("source_id IS NULL DESC, created_at ASC").
		Find(&budgets).Error
	if err != nil {
		return nil, err
	}
	return budgets, nil
}

func (r *repository) Update(ctx context.Context, budget *models.MediaBuyingBudget) error {
	return r.db.WithContext(ctx).Save(budget).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.MediaBuyingBudget{}).Error
}
