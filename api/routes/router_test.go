package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rbenali/mediaops-backend/internal/alerts"
	"github.com/rbenali/mediaops-backend/internal/auth"
	"github.com/rbenali/mediaops-backend/internal/budgets"
	"github.com/rbenali/mediaops-backend/internal/conversions"
	"github.com/rbenali/mediaops-backend/internal/dashboard"
	"github.com/rbenali/mediaops-backend/internal/entries"
	ratesvc "github.com/rbenali/mediaops-backend/internal/rates"
	"github.com/rbenali/mediaops-backend/internal/sources"
	pkgAuth "github.com/rbenali/mediaops-backend/pkg/auth"
	"github.com/rbenali/mediaops-backend/pkg/config"
	"github.com/rbenali/mediaops-backend/pkg/db/models"
	"github.com/rbenali/mediaops-backend/pkg/enums"
	"github.com/rbenali/mediaops-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubSourcesService struct{}

func (stubSourcesService) CreateSource(ctx context.Context, input sources.CreateSourceInput) (*models.AdSource, error) {
	return &models.AdSource{ID: uuid.New()}, nil
}

func (stubSourcesService) GetSource(ctx context.Context, id uuid.UUID) (*models.AdSource, error) {
	return &models.AdSource{ID: id}, nil
}

func (stubSourcesService) ListSources(ctx context.Context, includeInactive bool) ([]models.AdSource, error) {
	return []models.AdSource{}, nil
}

func (stubSourcesService) UpdateSource(ctx context.Context, id uuid.UUID, input sources.UpdateSourceInput) (*models.AdSource, error) {
	return &models.AdSource{ID: id}, nil
}

func (stubSourcesService) DeactivateSource(ctx context.Context, id uuid.UUID) (*models.AdSource, error) {
	return &models.AdSource{ID: id}, nil
}

type stubEntriesService struct{}

func (stubEntriesService) CreateEntry(ctx context.Context, userID uuid.UUID, input entries.CreateEntryInput) (*models.MediaBuyingEntry, error) {
	return &models.MediaBuyingEntry{ID: uuid.New()}, nil
}

func (stubEntriesService) GetEntry(ctx context.Context, id uuid.UUID) (*models.MediaBuyingEntry, error) {
	return &models.MediaBuyingEntry{ID: id}, nil
}

func (stubEntriesService) ListEntries(ctx context.Context, params entries.ListEntriesParams) (*entries.ListEntriesResult, error) {
	return &entries.ListEntriesResult{}, nil
}

func (stubEntriesService) UpdateEntry(ctx context.Context, id uuid.UUID, input entries.UpdateEntryInput) (*models.MediaBuyingEntry, error) {
	return &models.MediaBuyingEntry{ID: id}, nil
}

func (stubEntriesService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubExportService struct{}

func (stubExportService) ExportEntries(ctx context.Context, w io.Writer, start, end time.Time, sourceID *uuid.UUID) error {
	return nil
}

type stubBudgetsService struct{}

func (stubBudgetsService) CreateBudget(ctx context.Context, input budgets.CreateBudgetInput) (*models.MediaBuyingBudget, error) {
	return &models.MediaBuyingBudget{ID: uuid.New()}, nil
}

func (stubBudgetsService) GetBudget(ctx context.Context, id uuid.UUID) (*models.MediaBuyingBudget, error) {
	return &models.MediaBuyingBudget{ID: id}, nil
}

func (stubBudgetsService) ListBudgets(ctx context.Context, query budgets.ListQuery) ([]models.MediaBuyingBudget, error) {
	return []models.MediaBuyingBudget{}, nil
}

func (stubBudgetsService) UpdateBudget(ctx context.Context, id uuid.UUID, input budgets.UpdateBudgetInput) (*models.MediaBuyingBudget, error) {
	return &models.MediaBuyingBudget{ID: id}, nil
}

func (stubBudgetsService) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubBudgetsService) Status(ctx context.Context, month, year int) ([]budgets.BudgetStatus, error) {
	return []budgets.BudgetStatus{}, nil
}

type stubAlertsService struct{}

func (stubAlertsService) CheckBudgetAlerts(ctx context.Context, sourceID uuid.UUID, date time.Time) error {
	return nil
}

func (stubAlertsService) SweepBudget(ctx context.Context, budget models.MediaBuyingBudget) error {
	return nil
}

func (stubAlertsService) ListAlerts(ctx context.Context, params alerts.ListAlertsParams) (*alerts.ListAlertsResult, error) {
	return &alerts.ListAlertsResult{}, nil
}

func (stubAlertsService) MarkRead(ctx context.Context, alertID, userID uuid.UUID) error {
	return nil
}

func (stubAlertsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

type stubRatesService struct{}

func (stubRatesService) AddRate(ctx context.Context, userID uuid.UUID, input ratesvc.AddRateInput) (*models.ExchangeRate, error) {
	return &models.ExchangeRate{ID: uuid.New()}, nil
}

func (stubRatesService) Latest(ctx context.Context, from, to enums.Currency) (*ratesvc.LatestRate, error) {
	return &ratesvc.LatestRate{FromCurrency: from, ToCurrency: to}, nil
}

func (stubRatesService) ListRates(ctx context.Context, from, to enums.Currency, limit int) ([]models.ExchangeRate, error) {
	return []models.ExchangeRate{}, nil
}

type stubConversionsService struct{}

func (stubConversionsService) Link(ctx context.Context, input conversions.LinkInput) (*models.LeadConversion, error) {
	return &models.LeadConversion{ID: uuid.New()}, nil
}

func (stubConversionsService) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]models.LeadConversion, error) {
	return []models.LeadConversion{}, nil
}

func (stubConversionsService) Unlink(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubDashboardService struct{}

func (stubDashboardService) Stats(ctx context.Context, start, end, now time.Time) (*dashboard.DashboardStats, error) {
	return &dashboard.DashboardStats{}, nil
}

func (stubDashboardService) BySource(ctx context.Context, start, end time.Time) ([]dashboard.SourceAnalytics, error) {
	return []dashboard.SourceAnalytics{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(RouterParams{
		Config:      cfg,
		Logger:      logg,
		DB:          stubPinger{},
		Auth:        stubAuthService{},
		Sources:     stubSourcesService{},
		Entries:     stubEntriesService{},
		Export:      stubExportService{},
		Budgets:     stubBudgetsService{},
		Alerts:      stubAlertsService{},
		Rates:       stubRatesService{},
		Conversions: stubConversionsService{},
		Dashboard:   stubDashboardService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "buyer@example.com",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestProtectedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sources", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestSourceMutationsRequireAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	buyer := httptest.NewRequest(http.MethodPost, "/api/v1/sources", nil)
	buyer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleMediaBuyer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, buyer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	reader := httptest.NewRequest(http.MethodGet, "/api/v1/sources", nil)
	reader.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleMediaBuyer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, reader)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for source list got %d", resp.Code)
	}
}

func TestEntryWritesRequireBuyerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	operator := httptest.NewRequest(http.MethodDelete, "/api/v1/entries/"+uuid.NewString(), nil)
	operator.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleOperator))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, operator)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for operator entry delete got %d", resp.Code)
	}

	buyer := httptest.NewRequest(http.MethodDelete, "/api/v1/entries/"+uuid.NewString(), nil)
	buyer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleMediaBuyer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, buyer)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for buyer entry delete got %d", resp.Code)
	}
}

func TestConversionsRequireOperatorRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	buyer := httptest.NewRequest(http.MethodDelete, "/api/v1/conversions/"+uuid.NewString(), nil)
	buyer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleMediaBuyer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, buyer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for buyer conversion delete got %d", resp.Code)
	}

	operator := httptest.NewRequest(http.MethodDelete, "/api/v1/conversions/"+uuid.NewString(), nil)
	operator.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleOperator))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, operator)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for operator conversion delete got %d", resp.Code)
	}
}

func TestDashboardReachableByAnyRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleOperator))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for dashboard got %d", resp.Code)
	}
}

func TestHealthEndpointsArePublic(t *testing.T) {
	router := newTestRouter(testConfig())

	live := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, live)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for live got %d", resp.Code)
	}
}
