package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbenali/mediaops-backend/pkg/enums"
)

// ExchangeRate is an append-only log of recorded conversion rates. The
// "latest" rate for a pair is the row with the most recent EffectiveDate.
type ExchangeRate struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FromCurrency  enums.Currency  `gorm:"type:text;not null" json:"fromCurrency"`
	ToCurrency    enums.Currency  `gorm:"type:text;not null" json:"toCurrency"`
	Rate          decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"rate"`
	EffectiveDate time.Time       `gorm:"type:date;not null;index" json:"effectiveDate"`
	CreatedByID   uuid.UUID       `gorm:"type:uuid;not null" json:"createdById"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}
