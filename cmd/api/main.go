package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rbenali/mediaops-backend/api/routes"
	"github.com/rbenali/mediaops-backend/internal/alerts"
	"github.com/rbenali/mediaops-backend/internal/auth"
	"github.com/rbenali/mediaops-backend/internal/budgets"
	"github.com/rbenali/mediaops-backend/internal/conversions"
	"github.com/rbenali/mediaops-backend/internal/dashboard"
	"github.com/rbenali/mediaops-backend/internal/entries"
	"github.com/rbenali/mediaops-backend/internal/export"
	"github.com/rbenali/mediaops-backend/internal/fx"
	"github.com/rbenali/mediaops-backend/internal/orders"
	"github.com/rbenali/mediaops-backend/internal/rates"
	"github.com/rbenali/mediaops-backend/internal/sources"
	"github.com/rbenali/mediaops-backend/internal/users"
	"github.com/rbenali/mediaops-backend/pkg/config"
	"github.com/rbenali/mediaops-backend/pkg/db"
	"github.com/rbenali/mediaops-backend/pkg/logger"
	"github.com/rbenali/mediaops-backend/pkg/metrics"
	"github.com/rbenali/mediaops-backend/pkg/migrate"
	"github.com/rbenali/mediaops-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	sourcesRepo := sources.NewRepository(gormDB)
	entriesRepo := entries.NewRepository(gormDB)
	budgetsRepo := budgets.NewRepository(gormDB)
	alertsRepo := alerts.NewRepository(gormDB)
	ratesRepo := rates.NewRepository(gormDB)
	conversionsRepo := conversions.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)

	normalizer := fx.NewNormalizer(cfg.FX.DefaultUSDToDZD)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  usersRepo,
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	sourcesService, err := sources.NewService(sourcesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create sources service", err)
		os.Exit(1)
	}

	alertsService, err := alerts.NewService(alerts.ServiceParams{
		Repo:        alertsRepo,
		BudgetsRepo: budgetsRepo,
		EntriesRepo: entriesRepo,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create alerts service", err)
		os.Exit(1)
	}

	entriesService, err := entries.NewService(entries.ServiceParams{
		Repo:    entriesRepo,
		Sources: sourcesRepo,
		Alerts:  alertsService,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create entries service", err)
		os.Exit(1)
	}

	budgetsService, err := budgets.NewService(budgetsRepo, entriesRepo, cfg.Budgets.DefaultAlertThreshold)
	if err != nil {
		logg.Error(context.Background(), "failed to create budgets service", err)
		os.Exit(1)
	}

	ratesService, err := rates.NewService(ratesRepo, cfg.FX.DefaultUSDToDZD)
	if err != nil {
		logg.Error(context.Background(), "failed to create rates service", err)
		os.Exit(1)
	}

	conversionsService, err := conversions.NewService(conversions.ServiceParams{
		Repo:    conversionsRepo,
		Entries: entriesRepo,
		Orders:  ordersRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create conversions service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(dashboard.ServiceParams{
		Entries:     entriesRepo,
		Conversions: conversionsRepo,
		Normalizer:  normalizer,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	exportService, err := export.NewService(entriesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create export service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			HTTPMetrics: httpMetrics,
			Registry:    registry,
			Auth:        authService,
			Sources:     sourcesService,
			Entries:     entriesService,
			Export:      exportService,
			Budgets:     budgetsService,
			Alerts:      alertsService,
			Rates:       ratesService,
			Conversions: conversionsService,
			Dashboard:   dashboardService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
