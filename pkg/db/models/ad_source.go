package models

import (
	"time"

	"github.com/google/uuid"
)

// AdSource is a paid traffic channel (Facebook, TikTok, Google, ...).
// Sources referenced by spend entries are soft-deactivated, never deleted.
type AdSource struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Slug      string    `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	Color     string    `gorm:"type:text;not null;default:'#64748b'" json:"color"`
	SortOrder int       `gorm:"not null;default:0" json:"sortOrder"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
