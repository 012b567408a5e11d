package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ceodigitcare/bizledger/internal/adapter/http/handler"
	"github.com/ceodigitcare/bizledger/internal/adapter/http/middleware"
	"github.com/ceodigitcare/bizledger/internal/infrastructure/metrics"
	"github.com/ceodigitcare/bizledger/internal/usecase"
)

// RouterConfig holds dependencies for the router. Nil optional fields
// switch the matching middleware or endpoint off.
type RouterConfig struct {
	AccountHandler        *handler.AccountHandler
	TransactionHandler    *handler.TransactionHandler
	DocumentHandler       *handler.DocumentHandler
	ReconciliationHandler *handler.ReconciliationHandler
	StatusHandler         *handler.StatusHandler
	HealthHandler         *handler.HealthHandler

	Logger zerolog.Logger

	// Optional
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Stateless, no tenant needed
		r.Get("/status", cfg.StatusHandler.List)
		r.Post("/status/classify", cfg.StatusHandler.Classify)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Tenant)
			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Limit)
			}
			if cfg.IdempotencyStore != nil {
				r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
			}

			// Accounts
			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/", cfg.AccountHandler.List)
				r.Get("/live", cfg.AccountHandler.Live)
				r.Get("/{id}", cfg.AccountHandler.Get)
				r.Get("/{id}/balance", cfg.ReconciliationHandler.AccountBalance)
				r.Post("/{id}/balance/refresh", cfg.AccountHandler.RefreshBalance)
				r.Post("/{id}/transactions", cfg.TransactionHandler.Record)
				r.Get("/{id}/transactions", cfg.TransactionHandler.List)
			})

			// Transfers
			r.Post("/transfers", cfg.TransactionHandler.Transfer)

			// Documents
			r.Route("/documents", func(r chi.Router) {
				r.Post("/", cfg.DocumentHandler.Create)
				r.Get("/", cfg.DocumentHandler.List)
				r.Get("/{id}", cfg.DocumentHandler.Get)
				r.Post("/{id}/payments", cfg.DocumentHandler.Payment)
				r.Post("/{id}/receipts", cfg.DocumentHandler.Receipt)
				r.Post("/{id}/cancel", cfg.DocumentHandler.Cancel)
			})

			// Reconciliation
			r.Post("/reconciliation", cfg.ReconciliationHandler.Run)
			r.Get("/reconciliation/last", cfg.ReconciliationHandler.Last)
		})
	})

	return r
}
