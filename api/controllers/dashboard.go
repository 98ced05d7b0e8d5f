package controllers

import (
	"net/http"
	"time"

	"github.com/rbenali/mediaops-backend/api/responses"
	"github.com/rbenali/mediaops-backend/api/validators"
	"github.com/rbenali/mediaops-backend/internal/dashboard"
	pkgerrors "github.com/rbenali/mediaops-backend/pkg/errors"
	"github.com/rbenali/mediaops-backend/pkg/logger"
)

// defaultStatsWindow is applied when the caller omits the date range.
const defaultStatsWindow = 30 * 24 * time.Hour

func statsRange(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	start, err := validators.ParseQueryDate(r, "startDate")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := validators.ParseQueryDate(r, "endDate")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if end.IsZero() {
		end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if start.IsZero() {
		start = end.Add(-defaultStatsWindow)
	}
	return start, end, nil
}

// DashboardStats returns the aggregated dashboard payload: today/week/range
// buckets, per-source rollup, best performer, daily trend, and the
// prior-period comparison.
func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		now := time.Now().UTC()
		start, end, err := statsRange(r, now)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), start, end, now)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// AnalyticsBySource returns the per-source spend rollup for a range.
func AnalyticsBySource(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		now := time.Now().UTC()
		start, end, err := statsRange(r, now)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rollup, err := svc.BySource(r.Context(), start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rollup)
	}
}
