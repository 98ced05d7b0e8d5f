package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rbenali/mediaops-backend/api/responses"
	"github.com/rbenali/mediaops-backend/api/validators"
	"github.com/rbenali/mediaops-backend/internal/rates"
	"github.com/rbenali/mediaops-backend/pkg/enums"
	pkgerrors "github.com/rbenali/mediaops-backend/pkg/errors"
	"github.com/rbenali/mediaops-backend/pkg/logger"
)

type addRateRequest struct {
	FromCurrency  string          `json:"fromCurrency" validate:"required"`
	ToCurrency    string          `json:"toCurrency" validate:"required"`
	Rate          decimal.Decimal `json:"rate" validate:"required"`
	EffectiveDate string          `json:"effectiveDate" validate:"required"`
}

func (req addRateRequest) toInput() (rates.AddRateInput, error) {
	from, err := enums.ParseCurrency(strings.ToUpper(strings.TrimSpace(req.FromCurrency)))
	if err != nil {
		return rates.AddRateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fromCurrency")
	}
	to, err := enums.ParseCurrency(strings.ToUpper(strings.TrimSpace(req.ToCurrency)))
	if err != nil {
		return rates.AddRateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid toCurrency")
	}
	effective, err := time.Parse(entryDateLayout, strings.TrimSpace(req.EffectiveDate))
	if err != nil {
		return rates.AddRateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "effectiveDate must be a YYYY-MM-DD date")
	}
	return rates.AddRateInput{
		FromCurrency:  from,
		ToCurrency:    to,
		Rate:          req.Rate,
		EffectiveDate: effective,
	}, nil
}

func parseCurrencyPair(r *http.Request) (enums.Currency, enums.Currency, error) {
	fromRaw := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("from")))
	toRaw := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("to")))
	if fromRaw == "" {
		fromRaw = string(enums.CurrencyUSD)
	}
	if toRaw == "" {
		toRaw = string(enums.CurrencyDZD)
	}

	from, err := enums.ParseCurrency(fromRaw)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid from currency")
	}
	to, err := enums.ParseCurrency(toRaw)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid to currency")
	}
	return from, to, nil
}

// RateList returns the recorded rates for a pair, newest first.
func RateList(svc rates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rates service unavailable"))
			return
		}

		from, to, err := parseCurrencyPair(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListRates(r.Context(), from, to, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// RateCreate appends a new exchange rate observation.
func RateCreate(svc rates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rates service unavailable"))
			return
		}

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addRateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rate, err := svc.AddRate(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rate)
	}
}

// RateLatest returns the freshest rate for a pair, falling back to the
// configured default when the log is empty.
func RateLatest(svc rates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rates service unavailable"))
			return
		}

		from, to, err := parseCurrencyPair(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		latest, err := svc.Latest(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, latest)
	}
}
