package entries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbenali/mediaops-backend/pkg/db/models"
	"github.com/rbenali/mediaops-backend/pkg/enums"
	"github.com/rbenali/mediaops-backend/pkg/types"
)

// CreateEntryInput holds the fields accepted when recording spend.
type CreateEntryInput struct {
	Date         time.Time
	SourceID     uuid.UUID
	TotalSpend   decimal.Decimal
	TotalLeads   int
	Currency     enums.Currency
	ExchangeRate *decimal.Decimal
	StoreID      *uuid.UUID
	ProductID    *uuid.UUID
	Metadata     types.JSONMap
}

// UpdateEntryInput holds the mutable entry fields. Nil fields are left
// untouched; changing spend, currency, or rate re-derives the DZD value.
type UpdateEntryInput struct {
	Date         *time.Time
	TotalSpend   *decimal.Decimal
	TotalLeads   *int
	Currency     *enums.Currency
	ExchangeRate *decimal.Decimal
	ClearRate    bool
	Metadata     types.JSONMap
}

// ListEntriesParams carries the inputs accepted by ListEntries.
type ListEntriesParams struct {
	From     *time.Time
	To       *time.Time
	SourceID *uuid.UUID
	StoreID  *uuid.UUID
	Limit    int
	Cursor   string
}

// ListEntriesResult bundles one page of entries with the follow-up cursor.
type ListEntriesResult struct {
	Entries    []models.MediaBuyingEntry `json:"entries"`
	NextCursor *string                   `json:"nextCursor,omitempty"`
}
