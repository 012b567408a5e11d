package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/ceodigitcare/bizledger/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// AccountRepository defines data access for accounts. Every method is scoped by tenant.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	CreateTx(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, tenantID, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, tenantID string, ids []string) ([]*domain.Account, error)
	List(ctx context.Context, tenantID string) ([]*domain.Account, error)
	UpdateCurrentBalanceTx(ctx context.Context, tx Transaction, tenantID, id string, balance int64, updatedAt time.Time) error
}

// TransactionRepository defines data access for ledger transactions.
type TransactionRepository interface {
	CreateTx(ctx context.Context, tx Transaction, transaction *domain.Transaction) error
	ListByAccount(ctx context.Context, tenantID, accountID string, limit, offset int) ([]*domain.Transaction, error)
	// SumByTypes returns the total amount of the account's transactions whose type is in types.
	SumByTypes(ctx context.Context, tenantID, accountID string, types []domain.TransactionType) (int64, error)
	SumByTypesTx(ctx context.Context, tx Transaction, tenantID, accountID string, types []domain.TransactionType) (int64, error)
}

// DocumentRepository defines data access for purchase bills and sales invoices.
type DocumentRepository interface {
	CreateTx(ctx context.Context, tx Transaction, document *domain.Document) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Document, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, tenantID, id string) (*domain.Document, error)
	List(ctx context.Context, tenantID string, kind domain.DocumentKind, limit, offset int) ([]*domain.Document, error)
	// UpdateProgressTx persists AmountPaid, IsCancelled and every item's QuantityReceived.
	UpdateProgressTx(ctx context.Context, tx Transaction, document *domain.Document) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// Reserve claims key for an in-flight request. When the key is already
	// taken it returns false together with the stored response, which is
	// nil while the first request is still running.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, []byte, error)
	// Complete stores the final response for key.
	Complete(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a reservation so the request can be retried.
	Release(ctx context.Context, key string) error
}

// Metrics receives business counters from use cases.
type Metrics interface {
	BalanceRefreshed(changed bool)
	BalanceRefreshFailed()
	DocumentClassified(status domain.Status)
	TransactionRecorded(txType domain.TransactionType, amount int64)
}

type noopMetrics struct{}

func (noopMetrics) BalanceRefreshed(bool) {}
func (noopMetrics) BalanceRefreshFailed() {}
func (noopMetrics) DocumentClassified(domain.Status) {}
func (noopMetrics) TransactionRecorded(domain.TransactionType, int64) {}
