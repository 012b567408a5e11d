package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	postgresRepo "github.com/ceodigitcare/bizledger/internal/adapter/repository/postgres"
	"github.com/ceodigitcare/bizledger/internal/infrastructure/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	t.Setenv("EVENTS_ENABLED", "false")
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) (*app, pgxmock.PgxPoolIface) {
	t.Helper()

	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return newApp(cfg, pool, rdb, zerolog.Nop(), prometheus.NewRegistry()), pool
}

func TestNewApp_ReadinessPingsDependencies(t *testing.T) {
	a, pool := newTestApp(t, testConfig(t))
	pool.ExpectPing()

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"ok"`)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestNewApp_ServesClassifierAndMetrics(t *testing.T) {
	a, _ := newTestApp(t, testConfig(t))

	body := `{"total_amount":"100","amount_paid":"100","items":[{"quantity":1,"quantity_received":1}]}`
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/status/classify", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"paid_received"`)

	rec = httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `bizledger_documents_classified_total{status="paid_received"} 1`)
}

func TestNewApp_EventsDisabled(t *testing.T) {
	cfg := testConfig(t)
	a, _ := newTestApp(t, cfg)

	assert.Nil(t, a.publisher)
	assert.IsType(t, &postgresRepo.NullOutboxRepository{}, outboxRepository(cfg, nil))
}

func TestNewApp_EventsEnabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.EventsEnabled = true
	cfg.KafkaBrokers = nil

	a, _ := newTestApp(t, cfg)

	assert.NotNil(t, a.publisher)
	assert.Empty(t, a.closers, "log publisher needs no closing")
	assert.IsType(t, &postgresRepo.OutboxRepository{}, outboxRepository(cfg, nil))

	cfg.KafkaBrokers = []string{"localhost:9092"}
	a, _ = newTestApp(t, cfg)
	assert.Len(t, a.closers, 1)
	a.close(zerolog.Nop())
}

func TestNewHTTPServer(t *testing.T) {
	cfg := testConfig(t)
	cfg.HTTPPort = "9090"
	cfg.HTTPIdleTimeout = 42 * time.Second

	server := newHTTPServer(cfg, http.NotFoundHandler())

	assert.Equal(t, ":9090", server.Addr)
	assert.Equal(t, 42*time.Second, server.IdleTimeout)
	assert.Equal(t, cfg.HTTPReadTimeout, server.ReadTimeout)
}
