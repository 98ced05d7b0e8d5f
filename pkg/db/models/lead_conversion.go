package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbenali/mediaops-backend/pkg/enums"
)

// LeadConversion links a spend entry to the order it produced. OrderValue
// snapshots the order total at link time and is not kept in sync afterwards.
type LeadConversion struct {
	ID              uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EntryID         uuid.UUID             `gorm:"type:uuid;not null;index" json:"entryId"`
	Entry           *MediaBuyingEntry     `gorm:"foreignKey:EntryID" json:"entry,omitempty"`
	OrderID         uuid.UUID             `gorm:"type:uuid;not null;index" json:"orderId"`
	OrderValue      decimal.Decimal       `gorm:"type:numeric(14,2);not null" json:"orderValue"`
	AttributionType enums.AttributionType `gorm:"type:text;not null;default:'manual'" json:"attributionType"`
	ConversionDate  time.Time             `gorm:"type:date;not null" json:"conversionDate"`
	CreatedAt       time.Time             `gorm:"autoCreateTime" json:"createdAt"`
}
