package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbenali/mediaops-backend/pkg/enums"
	"github.com/rbenali/mediaops-backend/pkg/types"
)

// MediaBuyingEntry is one day of recorded spend for an ad source.
//
// SpendInDZD is derived once at write time: equal to TotalSpend when the
// currency is DZD, TotalSpend*ExchangeRate when USD with a recorded rate,
// and null when USD without one. It is never recomputed when a later
// exchange rate lands.
type MediaBuyingEntry struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Date         time.Time        `gorm:"type:date;not null;index" json:"date"`
	SourceID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"sourceId"`
	Source       *AdSource        `gorm:"foreignKey:SourceID" json:"source,omitempty"`
	TotalSpend   decimal.Decimal  `gorm:"type:numeric(14,2);not null" json:"totalSpend"`
	TotalLeads   int              `gorm:"not null;default:0" json:"totalLeads"`
	Currency     enums.Currency   `gorm:"type:text;not null;default:'DZD'" json:"currency"`
	ExchangeRate *decimal.Decimal `gorm:"type:numeric(12,4)" json:"exchangeRate,omitempty"`
	SpendInDZD   *decimal.Decimal `gorm:"column:spend_in_dzd;type:numeric(14,2)" json:"spendInDZD,omitempty"`
	StoreID      *uuid.UUID       `gorm:"type:uuid" json:"storeId,omitempty"`
	ProductID    *uuid.UUID       `gorm:"type:uuid" json:"productId,omitempty"`
	Metadata     types.JSONMap    `gorm:"type:jsonb;serializer:json" json:"metadata,omitempty"`
	CreatedByID  uuid.UUID        `gorm:"type:uuid;not null" json:"createdById"`
	CreatedAt    time.Time        `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time        `gorm:"autoUpdateTime" json:"updatedAt"`
}
