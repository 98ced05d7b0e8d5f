package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rbenali/mediaops-backend/api/controllers"
	"github.com/rbenali/mediaops-backend/api/middleware"
	"github.com/rbenali/mediaops-backend/internal/alerts"
	"github.com/rbenali/mediaops-backend/internal/auth"
	"github.com/rbenali/mediaops-backend/internal/budgets"
	"github.com/rbenali/mediaops-backend/internal/conversions"
	"github.com/rbenali/mediaops-backend/internal/dashboard"
	"github.com/rbenali/mediaops-backend/internal/entries"
	"github.com/rbenali/mediaops-backend/internal/export"
	ratesvc "github.com/rbenali/mediaops-backend/internal/rates"
	"github.com/rbenali/mediaops-backend/internal/sources"
	"github.com/rbenali/mediaops-backend/pkg/config"
	"github.com/rbenali/mediaops-backend/pkg/db"
	"github.com/rbenali/mediaops-backend/pkg/enums"
	"github.com/rbenali/mediaops-backend/pkg/logger"
	"github.com/rbenali/mediaops-backend/pkg/metrics"
	"github.com/rbenali/mediaops-backend/pkg/redis"
)

// RouterParams bundles everything NewRouter wires into the HTTP surface.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	Auth        auth.Service
	Sources     sources.Service
	Entries     entries.Service
	Export      export.Service
	Budgets     budgets.Service
	Alerts      alerts.Service
	Rates       ratesvc.Service
	Conversions conversions.Service
	Dashboard   dashboard.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)
	if p.HTTPMetrics != nil {
		r.Use(middleware.Metrics(p.HTTPMetrics))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.Auth, logg))
	})

	admin := string(enums.RoleAdmin)
	mediaBuyer := string(enums.RoleMediaBuyer)
	operator := string(enums.RoleOperator)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/sources", func(r chi.Router) {
			r.Get("/", controllers.SourceList(p.Sources, logg))
			r.With(middleware.RequireRole(logg, admin)).Post("/", controllers.SourceCreate(p.Sources, logg))
			r.With(middleware.RequireRole(logg, admin)).Patch("/{sourceId}", controllers.SourceUpdate(p.Sources, logg))
			r.With(middleware.RequireRole(logg, admin)).Post("/{sourceId}/deactivate", controllers.SourceDeactivate(p.Sources, logg))
		})

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", controllers.EntryList(p.Entries, logg))
			r.Get("/export", controllers.EntryExport(p.Export, logg))
			r.Get("/{entryId}", controllers.EntryDetail(p.Entries, logg))
			r.Get("/{entryId}/conversions", controllers.ConversionListByEntry(p.Conversions, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, admin, mediaBuyer))
				r.Post("/", controllers.EntryCreate(p.Entries, logg))
				r.Put("/{entryId}", controllers.EntryUpdate(p.Entries, logg))
				r.Delete("/{entryId}", controllers.EntryDelete(p.Entries, logg))
			})
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", controllers.BudgetList(p.Budgets, logg))
			r.Get("/status", controllers.BudgetStatus(p.Budgets, logg))
			r.Get("/{budgetId}", controllers.BudgetDetail(p.Budgets, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, admin))
				r.Post("/", controllers.BudgetCreate(p.Budgets, logg))
				r.Put("/{budgetId}", controllers.BudgetUpdate(p.Budgets, logg))
				r.Delete("/{budgetId}", controllers.BudgetDelete(p.Budgets, logg))
			})
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", controllers.AlertList(p.Alerts, logg))
			r.Post("/{alertId}/read", controllers.AlertMarkRead(p.Alerts, logg))
			r.Post("/read-all", controllers.AlertMarkAllRead(p.Alerts, logg))
		})

		r.Route("/rates", func(r chi.Router) {
			r.Get("/", controllers.RateList(p.Rates, logg))
			r.Get("/latest", controllers.RateLatest(p.Rates, logg))
			r.With(middleware.RequireRole(logg, admin, mediaBuyer)).Post("/", controllers.RateCreate(p.Rates, logg))
		})

		r.Route("/conversions", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, admin, operator))
			r.Post("/", controllers.ConversionCreate(p.Conversions, logg))
			r.Delete("/{conversionId}", controllers.ConversionDelete(p.Conversions, logg))
		})

		r.Get("/dashboard/stats", controllers.DashboardStats(p.Dashboard, logg))
		r.Get("/analytics/by-source", controllers.AnalyticsBySource(p.Dashboard, logg))
	})

	return r
}
