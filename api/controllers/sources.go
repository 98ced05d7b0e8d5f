package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rbenali/mediaops-backend/api/responses"
	"github.com/rbenali/mediaops-backend/api/validators"
	"github.com/rbenali/mediaops-backend/internal/sources"
	pkgerrors "github.com/rbenali/mediaops-backend/pkg/errors"
	"github.com/rbenali/mediaops-backend/pkg/logger"
)

type createSourceRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	Slug      string `json:"slug" validate:"required,max=120"`
	Color     string `json:"color" validate:"omitempty,max=32"`
	SortOrder int    `json:"sortOrder" validate:"gte=0"`
}

type updateSourceRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=120"`
	Color     *string `json:"color" validate:"omitempty,max=32"`
	SortOrder *int    `json:"sortOrder" validate:"omitempty,gte=0"`
}

// SourceList returns every ad source, active ones only unless
// includeInactive=true.
func SourceList(svc sources.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sources service unavailable"))
			return
		}

		includeInactive, err := validators.ParseQueryBool(r, "includeInactive", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListSources(r.Context(), includeInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func SourceCreate(svc sources.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sources service unavailable"))
			return
		}

		var body createSourceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		source, err := svc.CreateSource(r.Context(), sources.CreateSourceInput{
			Name:      validators.SanitizeString(body.Name, 120),
			Slug:      validators.SanitizeString(body.Slug, 120),
			Color:     validators.SanitizeString(body.Color, 32),
			SortOrder: body.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, source)
	}
}

func SourceUpdate(svc sources.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sources service unavailable"))
			return
		}

		id, err := parsePathUUID(r, "sourceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateSourceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		source, err := svc.UpdateSource(r.Context(), id, sources.UpdateSourceInput{
			Name:      body.Name,
			Color:     body.Color,
			SortOrder: body.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, source)
	}
}

// SourceDeactivate soft-disables a source so new entries cannot reference it.
func SourceDeactivate(svc sources.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sources service unavailable"))
			return
		}

		id, err := parsePathUUID(r, "sourceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		source, err := svc.DeactivateSource(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, source)
	}
}

func parsePathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid identifier in path")
	}
	return id, nil
}
