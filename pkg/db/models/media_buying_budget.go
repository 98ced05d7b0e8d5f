package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbenali/mediaops-backend/pkg/enums"
)

// MediaBuyingBudget is a monthly spend ceiling, scoped to one source or
// global when SourceID is null. One budget per (month, year, source_id) is
// enforced by uix_budgets_period_source.
type MediaBuyingBudget struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Month          int             `gorm:"not null" json:"month"`
	Year           int             `gorm:"not null" json:"year"`
	SourceID       *uuid.UUID      `gorm:"type:uuid" json:"sourceId,omitempty"`
	Source         *AdSource       `gorm:"foreignKey:SourceID" json:"source,omitempty"`
	BudgetAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"budgetAmount"`
	Currency       enums.Currency  `gorm:"type:text;not null;default:'DZD'" json:"currency"`
	AlertThreshold int             `gorm:"not null;default:80" json:"alertThreshold"`
	AlertEnabled   bool            `gorm:"not null;default:true" json:"alertEnabled"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}
