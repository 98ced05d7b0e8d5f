package controllers

import (
	"net/http"

	"github.com/rbenali/mediaops-backend/api/responses"
	"github.com/rbenali/mediaops-backend/api/validators"
	"github.com/rbenali/mediaops-backend/internal/conversions"
	pkgerrors "github.com/rbenali/mediaops-backend/pkg/errors"
	"github.com/rbenali/mediaops-backend/pkg/logger"
)

// ConversionCreate links an order to a spend entry, snapshotting the order
// total as the conversion value.
func ConversionCreate(svc conversions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "conversions service unavailable"))
			return
		}

		var body conversions.LinkInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conversion, err := svc.Link(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, conversion)
	}
}

// ConversionDelete unlinks an order from its entry.
func ConversionDelete(svc conversions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "conversions service unavailable"))
			return
		}

		id, err := parsePathUUID(r, "conversionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Unlink(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "unlinked"})
	}
}

// ConversionListByEntry returns the conversions linked to one entry.
func ConversionListByEntry(svc conversions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "conversions service unavailable"))
			return
		}

		entryID, err := parsePathUUID(r, "entryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByEntry(r.Context(), entryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
