package rates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rbenali/mediaops-backend/pkg/db/models"
	"github.com/rbenali/mediaops-backend/pkg/enums"
	pkgerrors "github.com/rbenali/mediaops-backend/pkg/errors"
)

const defaultListLimit = 50

// AddRateInput holds the fields accepted when recording an exchange rate.
type AddRateInput struct {
	FromCurrency  enums.Currency
	ToCurrency    enums.Currency
	Rate          decimal.Decimal
	EffectiveDate time.Time
}

// LatestRate is the most recent recorded rate for a pair, or the configured
// default when the log has no row for it.
type LatestRate struct {
	FromCurrency  enums.Currency       `json:"fromCurrency"`
	ToCurrency    enums.Currency       `json:"toCurrency"`
	Rate          decimal.Decimal      `json:"rate"`
	EffectiveDate *time.Time           `json:"effectiveDate,omitempty"`
	IsDefault     bool                 `json:"isDefault"`
	Record        *models.ExchangeRate `json:"-"`
}

// Service exposes the append-only exchange rate log.
type Service interface {
	AddRate(ctx context.Context, userID uuid.UUID, input AddRateInput) (*models.ExchangeRate, error)
	Latest(ctx context.Context, from, to enums.Currency) (*LatestRate, error)
	ListRates(ctx context.Context, from, to enums.Currency, limit int) ([]models.ExchangeRate, error)
}

type service struct {
	repo            Repository
	defaultUSDToDZD decimal.Decimal
}

// NewService builds a rates service. defaultUSDToDZD backs Latest lookups
// for the USD to DZD pair when no rate has been recorded yet.
func NewService(repo Repository, defaultUSDToDZD decimal.Decimal) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rates repository required")
	}
	if defaultUSDToDZD.Sign() <= 0 {
		return nil, fmt.Errorf("default usd to dzd rate must be positive")
	}
	return &service{repo: repo, defaultUSDToDZD: defaultUSDToDZD}, nil
}

func (s *service) AddRate(ctx context.Context, userID uuid.UUID, input AddRateInput) (*models.ExchangeRate, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if !input.FromCurrency.IsValid() || !input.ToCurrency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency")
	}
	if input.FromCurrency == input.ToCurrency {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency pair must differ")
	}
	if input.Rate.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate must be positive")
	}
	effective := input.EffectiveDate
	if effective.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "effective date required")
	}
	rate := &models.ExchangeRate{
		FromCurrency:  input.FromCurrency,
		ToCurrency:    input.ToCurrency,
		Rate:          input.Rate,
		EffectiveDate: effective,
		CreatedByID:   userID,
	}
	created, err := s.repo.Create(ctx, rate)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record exchange rate")
	}
	return created, nil
}

func (s *service) Latest(ctx context.Context, from, to enums.Currency) (*LatestRate, error) {
	if !from.IsValid() || !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency")
	}
	record, err := s.repo.Latest(ctx, from, to)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if from == enums.CurrencyUSD && to == enums.CurrencyDZD {
				return &LatestRate{
					FromCurrency: from,
					ToCurrency:   to,
					Rate:         s.defaultUSDToDZD,
					IsDefault:    true,
				}, nil
			}
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no rate recorded for pair")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find latest rate")
	}
	effective := record.EffectiveDate
	return &LatestRate{
		FromCurrency:  record.FromCurrency,
		ToCurrency:    record.ToCurrency,
		Rate:          record.Rate,
		EffectiveDate: &effective,
		Record:        record,
	}, nil
}

func (s *service) ListRates(ctx context.Context, from, to enums.Currency, limit int) ([]models.ExchangeRate, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	rateRows, err := s.repo.List(ctx, from, to, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list exchange rates")
	}
	return rateRows, nil
}
