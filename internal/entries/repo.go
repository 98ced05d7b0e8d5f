package entries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbenali/mediaops-backend/pkg/db/models"
	"github.com/rbenali/mediaops-backend/pkg/pagination"
)

// ListQuery filters entry listings.
type ListQuery struct {
	From     *time.Time
	To       *time.Time
	SourceID *uuid.UUID
	StoreID  *uuid.UUID
	Limit    int
	Cursor   *pagination.Cursor
}

// Repository provides persistence for media buying entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.MediaBuyingEntry) (*models.MediaBuyingEntry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.MediaBuyingEntry, error)
	List(ctx context.Context, query ListQuery) ([]models.MediaBuyingEntry, *pagination.Cursor, error)
	FindForPeriod(ctx context.Context, start, end time.Time, sourceID *uuid.UUID) ([]models.MediaBuyingEntry, error)
	FindForRange(ctx context.Context, start, end time.Time) ([]models.MediaBuyingEntry, error)
	Update(ctx context.Context, entry *models.MediaBuyingEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an entries repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.MediaBuyingEntry) (*models.MediaBuyingEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MediaBuyingEntry, error) {
	var entry models.MediaBuyingEntry
	err := r.db.WithContext(ctx).
		Preload("Source").
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]models.MediaBuyingEntry, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(query.Limit)
	normalized := pagination.NormalizeLimit(query.Limit)
	q := r.db.WithContext(ctx).
		Model(&models.MediaBuyingEntry{}).
		Preload("Source")
	if query.From != nil {
		q = q.Where("date >= ?", *query.From)
	}
	if query.To != nil {
		q = q.Where("date <= ?", *query.To)
	}
	if query.SourceID != nil {
		q = q.Where("source_id = ?", *query.SourceID)
	}
	if query.StoreID != nil {
		q = q.Where("store_id = ?", *query.StoreID)
	}
	if query.Cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", query.Cursor.CreatedAt, query.Cursor.ID)
	}

	var entries []models.MediaBuyingEntry
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, nil, err
	}

	if len(entries) > normalized {
		next := entries[normalized]
		entries = entries[:normalized]
		return entries, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return entries, nil, nil
}

// FindForPeriod loads the entries of one budget scope: a month window plus
// a source filter, or every source when sourceID is nil.
func (r *repository) FindForPeriod(ctx context.Context, start, end time.Time, sourceID *uuid.UUID) ([]models.MediaBuyingEntry, error) {
	q := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", start, end)
	if sourceID != nil {
		q = q.Where("source_id = ?", *sourceID)
	}
	var entries []models.MediaBuyingEntry
	if err := q.Order("date ASC, created_at ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) FindForRange(ctx context.Context, start, end time.Time) ([]models.MediaBuyingEntry, error) {
	var entries []models.MediaBuyingEntry
	err := r.db.WithContext(ctx).
		Preload("Source").
		Where("date >= ? AND date <= ?", start, end).
		Order("date ASC, created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) Update(ctx context.Context, entry *models.MediaBuyingEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.MediaBuyingEntry{}).Error
}
