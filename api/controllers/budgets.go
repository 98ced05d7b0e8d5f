package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rbenali/mediaops-backend/api/responses"
	"github.com/rbenali/mediaops-backend/api/validators"
	"github.com/rbenali/mediaops-backend/internal/budgets"
	"github.com/rbenali/mediaops-backend/pkg/enums"
	pkgerrors "github.com/rbenali/mediaops-backend/pkg/errors"
	"github.com/rbenali/mediaops-backend/pkg/logger"
)

type createBudgetRequest struct {
	Month          int             `json:"month" validate:"required,gte=1,lte=12"`
	Year           int             `json:"year" validate:"required,gte=2000,lte=2100"`
	SourceID       *string         `json:"sourceId" validate:"omitempty,uuid"`
	BudgetAmount   decimal.Decimal `json:"budgetAmount" validate:"required"`
	Currency       string          `json:"currency" validate:"required"`
	AlertThreshold *int            `json:"alertThreshold" validate:"omitempty,gte=1,lte=500"`
	AlertEnabled   *bool           `json:"alertEnabled"`
}

func (req createBudgetRequest) toInput() (budgets.CreateBudgetInput, error) {
	currency, err := enums.ParseCurrency(strings.ToUpper(strings.TrimSpace(req.Currency)))
	if err != nil {
		return budgets.CreateBudgetInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency")
	}

	input := budgets.CreateBudgetInput{
		Month:          req.Month,
		Year:           req.Year,
		BudgetAmount:   req.BudgetAmount,
		Currency:       currency,
		AlertThreshold: req.AlertThreshold,
		AlertEnabled:   req.AlertEnabled,
	}

	if req.SourceID != nil {
		id, err := uuid.Parse(strings.TrimSpace(*req.SourceID))
		if err != nil {
			return budgets.CreateBudgetInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sourceId")
		}
		input.SourceID = &id
	}
	return input, nil
}

type updateBudgetRequest struct {
	BudgetAmount   *decimal.Decimal `json:"budgetAmount"`
	AlertThreshold *int             `json:"alertThreshold" validate:"omitempty,gte=1,lte=500"`
	AlertEnabled   *bool            `json:"alertEnabled"`
}

func BudgetList(svc budgets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "budgets service unavailable"))
			return
		}

		query := budgets.ListQuery{}

		month, err := validators.ParseQueryInt(r, "month", 0, 1, 12)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if month != 0 {
			query.Month = &month
		}

		year, err := validators.ParseQueryInt(r, "year", 0, 2000, 2100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if year != 0 {
			query.Year = &year
		}

		query.SourceID, err = validators.ParseQueryUUID(r, "sourceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListBudgets(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func BudgetDetail(svc budgets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "budgets service unavailable"))
			return
		}

		id, err := parsePathUUID(r, "budgetId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		budget, err := svc.GetBudget(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, budget)
	}
}

func BudgetCreate(svc budgets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "budgets service unavailable"))
			return
		}

		var body createBudgetRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		budget, err := svc.CreateBudget(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, budget)
	}
}

func BudgetUpdate(svc budgets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "budgets service unavailable"))
			return
		}

		id, err := parsePathUUID(r, "budgetId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateBudgetRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		budget, err := svc.UpdateBudget(r.Context(), id, budgets.UpdateBudgetInput{
			BudgetAmount:   body.BudgetAmount,
			AlertThreshold: body.AlertThreshold,
			AlertEnabled:   body.AlertEnabled,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, budget)
	}
}

func BudgetDelete(svc budgets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "budgets service unavailable"))
			return
		}

		id, err := parsePathUUID(r, "budgetId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteBudget(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// BudgetStatus reports spend-vs-budget for every budget of a period.
// Month and year default to the current calendar period.
func BudgetStatus(svc budgets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "budgets service unavailable"))
			return
		}

		now := time.Now().UTC()
		month, err := validators.ParseQueryInt(r, "month", int(now.Month()), 1, 12)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		year, err := validators.ParseQueryInt(r, "year", now.Year(), 2000, 2100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		statuses, err := svc.Status(r.Context(), month, year)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, statuses)
	}
}
