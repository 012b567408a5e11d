package main

import (
	"context"
	"io"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/ceodigitcare/bizledger/internal/adapter/http"
	"github.com/ceodigitcare/bizledger/internal/adapter/http/handler"
	"github.com/ceodigitcare/bizledger/internal/adapter/http/middleware"
	postgresRepo "github.com/ceodigitcare/bizledger/internal/adapter/repository/postgres"
	redisRepo "github.com/ceodigitcare/bizledger/internal/adapter/repository/redis"
	"github.com/ceodigitcare/bizledger/internal/infrastructure/config"
	"github.com/ceodigitcare/bizledger/internal/infrastructure/eventpublisher"
	"github.com/ceodigitcare/bizledger/internal/infrastructure/metrics"
	"github.com/ceodigitcare/bizledger/internal/infrastructure/postgres/generated"
	"github.com/ceodigitcare/bizledger/internal/usecase"
)

// database is the part of *pgxpool.Pool the server needs.
type database interface {
	generated.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// app is the wired server, ready to serve.
type app struct {
	router      http.Handler
	rateLimiter *middleware.RateLimiter
	publisher   *eventpublisher.EventPublisher
	closers     []io.Closer
}

// newApp wires repositories, use cases and handlers. The publisher is nil
// when events are disabled.
func newApp(cfg *config.Config, db database, rdb *goredis.Client, logger zerolog.Logger, reg *prometheus.Registry) *app {
	m := metrics.New(reg)

	// Repositories
	txManager := postgresRepo.NewTxManager(db)
	accountRepo := postgresRepo.NewAccountRepository(db)
	transactionRepo := postgresRepo.NewTransactionRepository(db)
	documentRepo := postgresRepo.NewDocumentRepository(db)
	outboxRepo := outboxRepository(cfg, db)
	retrier := postgresRepo.NewRetrier(cfg.DatabaseMaxRetries)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(rdb)
	idempotencyStore := redisRepo.NewIdempotencyStore(rdb)

	// Use cases
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, outboxRepo, idGen)
	balanceUC := usecase.NewBalanceUseCase(txManager, accountRepo, transactionRepo, outboxRepo, idGen, m)
	transactionUC := usecase.NewTransactionUseCase(txManager, accountRepo, transactionRepo, outboxRepo, balanceUC, retrier, idGen, m)
	documentUC := usecase.NewDocumentUseCase(txManager, documentRepo, outboxRepo, retrier, idGen, m)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo, balanceUC, cache, cfg.ReportTTL)

	a := &app{}

	if cfg.RateLimitRPS > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m.RateLimitHits)
	}

	a.router = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:        handler.NewAccountHandler(accountUC, balanceUC),
		TransactionHandler:    handler.NewTransactionHandler(transactionUC),
		DocumentHandler:       handler.NewDocumentHandler(documentUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		StatusHandler:         handler.NewStatusHandler(m),
		HealthHandler: handler.NewHealthHandler(
			handler.Check{Name: "postgres", Ping: db.Ping},
			handler.Check{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		),
		Logger:           logger,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      a.rateLimiter,
		Metrics:          m,
		MetricsHandler:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	if cfg.EventsEnabled {
		publisher := eventPublisher(cfg, logger)
		if closer, ok := publisher.(io.Closer); ok {
			a.closers = append(a.closers, closer)
		}

		a.publisher = eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  publisher,
			Observer:   m,
			Logger:     logger,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxPollInterval,
			Retention:  cfg.OutboxRetention,
		})
	}

	return a
}

// outboxRepository drops events on the floor when nothing would drain them.
func outboxRepository(cfg *config.Config, db generated.DBTX) usecase.OutboxRepository {
	if !cfg.EventsEnabled {
		return postgresRepo.NewNullOutboxRepository()
	}
	return postgresRepo.NewOutboxRepository(db)
}

// eventPublisher publishes to Kafka, or to the log when no broker is configured.
func eventPublisher(cfg *config.Config, logger zerolog.Logger) eventpublisher.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return eventpublisher.NewLogPublisher(logger)
	}
	return eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}

// close releases what newApp opened.
func (a *app) close(logger zerolog.Logger) {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			logger.Warn().Err(err).Msg("close failed")
		}
	}
}
