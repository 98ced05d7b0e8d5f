package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rbenali/mediaops-backend/pkg/enums"
)

// User is a dashboard operator account.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string         `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"type:text;not null" json:"-"`
	FullName     string         `gorm:"type:text;not null" json:"fullName"`
	Role         enums.UserRole `gorm:"type:text;not null;default:'operator'" json:"role"`
	IsActive     bool           `gorm:"not null;default:true" json:"isActive"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}
