package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ceodigitcare/bizledger/internal/adapter/http/handler"
	apimiddleware "github.com/ceodigitcare/bizledger/internal/adapter/http/middleware"
	"github.com/ceodigitcare/bizledger/internal/domain"
	"github.com/ceodigitcare/bizledger/internal/infrastructure/metrics"
	"github.com/ceodigitcare/bizledger/internal/usecase"
)

const routerTenant = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RequiresTenant(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without tenant, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set(apimiddleware.TenantHeader, routerTenant)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with tenant, got %d", rec.Code)
	}
}

func TestNewRouter_ClassifyNeedsNoTenant(t *testing.T) {
	router := NewRouter(newRouterConfig())

	body := `{"total_amount":"10","amount_paid":"5"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/status/classify", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"partially_paid"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.Header.Set(apimiddleware.TenantHeader, routerTenant)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("request %d: expected %d, got %d", i, want, rec.Code)
		}
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"name":"Main","currency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.TenantHeader, routerTenant)
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if store.reservedKey != routerTenant+":POST /api/v1/accounts:key-123" {
		t.Fatalf("expected tenant scoped reservation, got %q", store.reservedKey)
	}
	if !store.completed {
		t.Fatalf("expected successful response to be stored")
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Metrics = m
		cfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `path="/health"`) {
		t.Fatalf("expected recorded /health request in metrics output")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/",
		"GET /api/v1/accounts/live",
		"GET /api/v1/accounts/{id}",
		"GET /api/v1/accounts/{id}/balance",
		"POST /api/v1/accounts/{id}/balance/refresh",
		"POST /api/v1/accounts/{id}/transactions",
		"GET /api/v1/accounts/{id}/transactions",
		"POST /api/v1/transfers",
		"POST /api/v1/documents/",
		"GET /api/v1/documents/",
		"GET /api/v1/documents/{id}",
		"POST /api/v1/documents/{id}/payments",
		"POST /api/v1/documents/{id}/receipts",
		"POST /api/v1/documents/{id}/cancel",
		"POST /api/v1/reconciliation",
		"GET /api/v1/reconciliation/last",
		"POST /api/v1/status/classify",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		HealthHandler:         handler.NewHealthHandler(),
		AccountHandler:        handler.NewAccountHandler(stubAccountService{}, stubBalanceService{}),
		TransactionHandler:    handler.NewTransactionHandler(nil),
		DocumentHandler:       handler.NewDocumentHandler(nil),
		ReconciliationHandler: handler.NewReconciliationHandler(nil),
		StatusHandler:         handler.NewStatusHandler(nil),
		Logger:                zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubAccountService struct{}

func (stubAccountService) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return &domain.Account{ID: "acc", TenantID: input.TenantID, Name: input.Name, Currency: input.Currency}, nil
}

func (stubAccountService) GetAccount(ctx context.Context, tenantID, id string) (*domain.Account, error) {
	return &domain.Account{ID: id, TenantID: tenantID}, nil
}

func (stubAccountService) ListAccounts(ctx context.Context, tenantID string) ([]*domain.Account, error) {
	return []*domain.Account{}, nil
}

type stubBalanceService struct{}

func (stubBalanceService) RefreshBalance(ctx context.Context, tenantID, accountID string) (*usecase.BalanceRefresh, error) {
	return &usecase.BalanceRefresh{AccountID: accountID}, nil
}

func (stubBalanceService) ListAccountsWithLiveBalances(ctx context.Context, tenantID string) ([]*domain.Account, error) {
	return []*domain.Account{}, nil
}

type stubIdempotencyStore struct {
	reservedKey string
	completed   bool
}

func (s *stubIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, []byte, error) {
	s.reservedKey = key
	return true, nil, nil
}

func (s *stubIdempotencyStore) Complete(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.completed = true
	return nil
}

func (s *stubIdempotencyStore) Release(ctx context.Context, key string) error {
	return nil
}
