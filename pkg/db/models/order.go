package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbenali/mediaops-backend/pkg/enums"
)

// Order is the read model conversions snapshot their value from. Order
// management itself lives outside this service; only the columns needed
// for attribution are mapped.
type Order struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Reference string            `gorm:"type:text;not null;uniqueIndex" json:"reference"`
	Total     decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"total"`
	Status    enums.OrderStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"createdAt"`
}
