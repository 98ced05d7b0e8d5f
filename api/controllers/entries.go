package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbenali/mediaops-backend/api/middleware"
	"github.com/rbenali/mediaops-backend/api/responses"
	"github.com/rbenali/mediaops-backend/api/validators"
	"github.com/rbenali/mediaops-backend/internal/entries"
	"github.com/rbenali/mediaops-backend/internal/export"
	"github.com/rbenali/mediaops-backend/pkg/enums"
	pkgerrors "github.com/rbenali/mediaops-backend/pkg/errors"
	"github.com/rbenali/mediaops-backend/pkg/logger"
	"github.com/rbenali/mediaops-backend/pkg/types"
)

const entryDateLayout = "2006-01-02"

type createEntryRequest struct {
	Date         string           `json:"date" validate:"required"`
	SourceID     string           `json:"sourceId" validate:"required,uuid"`
	TotalSpend   decimal.Decimal  `json:"totalSpend" validate:"required"`
	TotalLeads   int              `json:"totalLeads" validate:"gte=0"`
	Currency     string           `json:"currency" validate:"required"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate"`
	StoreID      *string          `json:"storeId" validate:"omitempty,uuid"`
	ProductID    *string          `json:"productId" validate:"omitempty,uuid"`
	Metadata     types.JSONMap    `json:"metadata"`
}

func (req createEntryRequest) toInput() (entries.CreateEntryInput, error) {
	date, err := time.Parse(entryDateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return entries.CreateEntryInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "date must be a YYYY-MM-DD date")
	}

	sourceID, err := uuid.Parse(strings.TrimSpace(req.SourceID))
	if err != nil {
		return entries.CreateEntryInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sourceId")
	}

	currency, err := enums.ParseCurrency(strings.ToUpper(strings.TrimSpace(req.Currency)))
	if err != nil {
		return entries.CreateEntryInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency")
	}

	input := entries.CreateEntryInput{
		Date:         date,
		SourceID:     sourceID,
		TotalSpend:   req.TotalSpend,
		TotalLeads:   req.TotalLeads,
		Currency:     currency,
		ExchangeRate: req.ExchangeRate,
		Metadata:     req.Metadata,
	}

	if req.StoreID != nil {
		id, err := uuid.Parse(strings.TrimSpace(*req.StoreID))
		if err != nil {
			return entries.CreateEntryInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid storeId")
		}
		input.StoreID = &id
	}
	if req.ProductID != nil {
		id, err := uuid.Parse(strings.TrimSpace(*req.ProductID))
		if err != nil {
			return entries.CreateEntryInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid productId")
		}
		input.ProductID = &id
	}
	return input, nil
}

type updateEntryRequest struct {
	Date         *string          `json:"date"`
	TotalSpend   *decimal.Decimal `json:"totalSpend"`
	TotalLeads   *int             `json:"totalLeads" validate:"omitempty,gte=0"`
	Currency     *string          `json:"currency"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate"`
	ClearRate    bool             `json:"clearRate"`
	Metadata     types.JSONMap    `json:"metadata"`
}

func (req updateEntryRequest) toInput() (entries.UpdateEntryInput, error) {
	input := entries.UpdateEntryInput{
		TotalSpend:   req.TotalSpend,
		TotalLeads:   req.TotalLeads,
		ExchangeRate: req.ExchangeRate,
		ClearRate:    req.ClearRate,
		Metadata:     req.Metadata,
	}

	if req.Date != nil {
		date, err := time.Parse(entryDateLayout, strings.TrimSpace(*req.Date))
		if err != nil {
			return entries.UpdateEntryInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "date must be a YYYY-MM-DD date")
		}
		input.Date = &date
	}
	if req.Currency != nil {
		currency, err := enums.ParseCurrency(strings.ToUpper(strings.TrimSpace(*req.Currency)))
		if err != nil {
			return entries.UpdateEntryInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency")
		}
		input.Currency = &currency
	}
	return input, nil
}

// EntryList returns a filtered, cursor-paginated page of spend entries.
func EntryList(svc entries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "entries service unavailable"))
			return
		}

		params := entries.ListEntriesParams{}

		from, err := validators.ParseQueryDate(r, "startDate")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !from.IsZero() {
			params.From = &from
		}

		to, err := validators.ParseQueryDate(r, "endDate")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !to.IsZero() {
			params.To = &to
		}

		params.SourceID, err = validators.ParseQueryUUID(r, "sourceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.StoreID, err = validators.ParseQueryUUID(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.Limit, err = validators.ParseQueryInt(r, "limit", 0, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.Cursor = strings.TrimSpace(r.URL.Query().Get("cursor"))

		result, err := svc.ListEntries(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func EntryDetail(svc entries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "entries service unavailable"))
			return
		}

		id, err := parsePathUUID(r, "entryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.GetEntry(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entry)
	}
}

// EntryCreate records a spend entry for the authenticated user and runs the
// budget alert check for the entry's source and month.
func EntryCreate(svc entries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "entries service unavailable"))
			return
		}

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createEntryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.CreateEntry(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

func EntryUpdate(svc entries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "entries service unavailable"))
			return
		}

		id, err := parsePathUUID(r, "entryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateEntryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.UpdateEntry(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entry)
	}
}

func EntryDelete(svc entries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "entries service unavailable"))
			return
		}

		id, err := parsePathUUID(r, "entryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteEntry(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// EntryExport streams the entries for a date range as CSV.
func EntryExport(svc export.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "export service unavailable"))
			return
		}

		start, err := validators.RequireQueryDate(r, "startDate")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.RequireQueryDate(r, "endDate")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sourceID, err := validators.ParseQueryUUID(r, "sourceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if end.Before(start) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "endDate must not precede startDate"))
			return
		}

		filename := fmt.Sprintf("media-buying-entries_%s_%s.csv", start.Format(entryDateLayout), end.Format(entryDateLayout))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		if err := svc.ExportEntries(r.Context(), w, start, end, sourceID); err != nil {
			// Headers may already be written; log instead of re-rendering.
			logg.Error(r.Context(), "entry export failed mid-stream", err)
		}
	}
}

func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user context")
	}
	return id, nil
}
