package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rbenali/mediaops-backend/pkg/db/models"
	"github.com/rbenali/mediaops-backend/pkg/pagination"
)

// ListParams filters alert listings.
type ListParams struct {
	Limit      int
	Cursor     *pagination.Cursor
	UnreadOnly bool
	BudgetID   *uuid.UUID
}

type markResult struct {
	Updated bool
	Found   bool
}

// Repository provides persistence for budget alerts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateIfAbsent(ctx context.Context, alert *models.BudgetAlert) (bool, error)
	List(ctx context.Context, params ListParams) ([]models.BudgetAlert, *pagination.Cursor, error)
	CountUnread(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, alertID, userID uuid.UUID, now time.Time) (markResult, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an alerts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// CreateIfAbsent inserts the alert unless one already exists for the same
// budget, type, and period. The unique index backs the ON CONFLICT clause,
// so concurrent entry writes cannot produce duplicates.
func (r *repository) CreateIfAbsent(ctx context.Context, alert *models.BudgetAlert) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "budget_id"},
				{Name: "alert_type"},
				{Name: "period_start"},
			},
			DoNothing: true,
		}).
		Create(alert)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.BudgetAlert, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Model(&models.BudgetAlert{}).
		Preload("Budget").
		Preload("Budget.Source")
	if params.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if params.BudgetID != nil {
		query = query.Where("budget_id = ?", *params.BudgetID)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var alerts []models.BudgetAlert
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&alerts).Error; err != nil {
		return nil, nil, err
	}

	if len(alerts) > normalized {
		next := alerts[normalized]
		alerts = alerts[:normalized]
		return alerts, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return alerts, nil, nil
}

func (r *repository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BudgetAlert{}).
		Where("is_read = ?", false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) MarkRead(ctx context.Context, alertID, userID uuid.UUID, now time.Time) (markResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.BudgetAlert{}).
		Where("id = ? AND is_read = ?", alertID, false).
		UpdateColumns(map[string]any{
			"is_read":    true,
			"read_at":    now,
			"read_by_id": userID,
		})
	if result.Error != nil {
		return markResult{}, result.Error
	}

	mark := markResult{Updated: result.RowsAffected > 0}
	if result.RowsAffected > 0 {
		mark.Found = true
		return mark, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BudgetAlert{}).
		Where("id = ?", alertID).
		Count(&count).Error; err != nil {
		return markResult{}, err
	}
	mark.Found = count > 0
	return mark, nil
}

func (r *repository) MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.BudgetAlert{}).
		Where("is_read = ?", false).
		UpdateColumns(map[string]any{
			"is_read":    true,
			"read_at":    now,
			"read_by_id": userID,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.BudgetAlert{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
