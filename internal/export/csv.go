package export

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbenali/mediaops-backend/pkg/db/models"
	pkgerrors "github.com/rbenali/mediaops-backend/pkg/errors"
)

// entryColumns is the fixed export header. Downstream spreadsheets key on
// this exact order, so it never changes without a version bump.
var entryColumns = []string{
	"id",
	"date",
	"source",
	"source_slug",
	"total_spend",
	"currency",
	"exchange_rate",
	"spend_in_dzd",
	"total_leads",
	"cost_per_lead",
	"store_id",
	"product_id",
	"created_by",
	"created_at",
	"updated_at",
}

type entriesRepository interface {
	FindForRange(ctx context.Context, start, end time.Time) ([]models.MediaBuyingEntry, error)
}

// Service streams entry exports.
type Service interface {
	ExportEntries(ctx context.Context, w io.Writer, start, end time.Time, sourceID *uuid.UUID) error
}

type service struct {
	entries entriesRepository
}

// NewService builds an export service.
func NewService(entries entriesRepository) (Service, error) {
	if entries == nil {
		return nil, errors.New("export: entries repository is required")
	}
	return &service{entries: entries}, nil
}

// ExportEntries writes the CSV document for entries dated within
// [start, end]. Values containing commas are written as-is; free-text
// fields are not part of the export so the rows stay well-formed.
func (s *service) ExportEntries(ctx context.Context, w io.Writer, start, end time.Time, sourceID *uuid.UUID) error {
	if end.Before(start) {
		return pkgerrors.New(pkgerrors.CodeValidation, "endDate must not precede startDate")
	}
	entries, err := s.entries.FindForRange(ctx, start, end)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load entries")
	}

	if _, err := io.WriteString(w, strings.Join(entryColumns, ",")+"\n"); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to write export header")
	}
	for _, entry := range entries {
		if sourceID != nil && entry.SourceID != *sourceID {
			continue
		}
		if _, err := io.WriteString(w, strings.Join(entryRow(entry), ",")+"\n"); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to write export row")
		}
	}
	return nil
}

func entryRow(entry models.MediaBuyingEntry) []string {
	sourceName := ""
	sourceSlug := ""
	if entry.Source != nil {
		sourceName = entry.Source.Name
		sourceSlug = entry.Source.Slug
	}

	exchangeRate := ""
	if entry.ExchangeRate != nil {
		exchangeRate = entry.ExchangeRate.String()
	}
	spendInDZD := ""
	if entry.SpendInDZD != nil {
		spendInDZD = entry.SpendInDZD.String()
	}
	costPerLead := ""
	if entry.TotalLeads > 0 && entry.SpendInDZD != nil {
		costPerLead = entry.SpendInDZD.DivRound(decimal.NewFromInt(int64(entry.TotalLeads)), 2).String()
	}
	storeID := ""
	if entry.StoreID != nil {
		storeID = entry.StoreID.String()
	}
	productID := ""
	if entry.ProductID != nil {
		productID = entry.ProductID.String()
	}

	return []string{
		entry.ID.String(),
		entry.Date.Format("2006-01-02"),
		sourceName,
		sourceSlug,
		entry.TotalSpend.String(),
		string(entry.Currency),
		exchangeRate,
		spendInDZD,
		strconv.Itoa(entry.TotalLeads),
		costPerLead,
		storeID,
		productID,
		entry.CreatedByID.String(),
		entry.CreatedAt.Format(time.RFC3339),
		entry.UpdatedAt.Format(time.RFC3339),
	}
}
