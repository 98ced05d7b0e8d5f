package rates

import (
	"context"

	"gorm.io/gorm"

	"github.com/rbenali/mediaops-backend/pkg/db/models"
	"github.com/rbenali/mediaops-backend/pkg/enums"
)

// Repository provides append and lookup access to the exchange rate log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rate *models.ExchangeRate) (*models.ExchangeRate, error)
	Latest(ctx context.Context, from, to enums.Currency) (*models.ExchangeRate, error)
	List(ctx context.Context, from, to enums.Currency, limit int) ([]models.ExchangeRate, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a rates repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, rate *models.ExchangeRate) (*models.ExchangeRate, error) {
	if err := r.db.WithContext(ctx).Create(rate).Error; err != nil {
		return nil, err
	}
	return rate, nil
}

func (r *repository) Latest(ctx context.Context, from, to enums.Currency) (*models.ExchangeRate, error) {
	var rate models.ExchangeRate
	err := r.db.WithContext(ctx).
		Where("from_currency = ? AND to_currency = ?", from, to).
		Order("effective_date DESC, created_at DESC").
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *repository) List(ctx context.Context, from, to enums.Currency, limit int) ([]models.ExchangeRate, error) {
	var rates []models.ExchangeRate
	query := r.db.WithContext(ctx).
		Order("effective_date DESC, created_at DESC").
		Limit(limit)
	if from != "" {
		query = query.Where("from_currency = ?", from)
	}
	if to != "" {
		query = query.Where("to_currency = ?", to)
	}
	if err := query.Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}
