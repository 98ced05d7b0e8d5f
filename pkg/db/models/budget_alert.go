package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbenali/mediaops-backend/pkg/enums"
)

// BudgetAlert records one threshold crossing for a budget. PeriodStart is
// the first day of the alert's calendar month; together with BudgetID and
// AlertType it forms uix_budget_alerts_period, which makes the insert
// idempotent per budget, type, and month.
type BudgetAlert struct {
	ID           uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BudgetID     uuid.UUID             `gorm:"type:uuid;not null;index" json:"budgetId"`
	Budget       *MediaBuyingBudget    `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
	AlertType    enums.BudgetAlertType `gorm:"type:text;not null" json:"alertType"`
	Threshold    int                   `gorm:"not null" json:"threshold"`
	CurrentSpend decimal.Decimal       `gorm:"type:numeric(14,2);not null" json:"currentSpend"`
	BudgetAmount decimal.Decimal       `gorm:"type:numeric(14,2);not null" json:"budgetAmount"`
	PeriodStart  time.Time             `gorm:"type:date;not null" json:"periodStart"`
	IsRead       bool                  `gorm:"not null;default:false" json:"isRead"`
	ReadAt       *time.Time            `json:"readAt,omitempty"`
	ReadByID     *uuid.UUID            `gorm:"type:uuid" json:"readById,omitempty"`
	CreatedAt    time.Time             `gorm:"autoCreateTime" json:"createdAt"`
}
