package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceodigitcare/bizledger/internal/adapter/repository/postgres"
	"github.com/ceodigitcare/bizledger/internal/domain"
	pginfra "github.com/ceodigitcare/bizledger/internal/infrastructure/postgres"
	"github.com/ceodigitcare/bizledger/internal/usecase"
)

// stack is the postgres backed use case wiring. Each test uses its own tenant
// so tests never see each other's rows.
type stack struct {
	pool         *pgxpool.Pool
	tenantID     string
	outbox       *postgres.OutboxRepository
	accounts     *usecase.AccountUseCase
	balances     *usecase.BalanceUseCase
	transactions *usecase.TransactionUseCase
	documents    *usecase.DocumentUseCase
}

func newStack(t *testing.T) *stack {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	require.NoError(t, pginfra.RunMigrations(dbURL, "../../../../migrations", zerolog.Nop()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))
	t.Cleanup(pool.Close)

	txManager := postgres.NewTxManager(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	retrier := postgres.NewRetrier(5)
	idGen := postgres.NewULIDGenerator()

	balances := usecase.NewBalanceUseCase(txManager, accountRepo, transactionRepo, outboxRepo, idGen, nil)

	return &stack{
		pool:         pool,
		tenantID:     uuid.NewString(),
		outbox:       outboxRepo,
		accounts:     usecase.NewAccountUseCase(txManager, accountRepo, outboxRepo, idGen),
		balances:     balances,
		transactions: usecase.NewTransactionUseCase(txManager, accountRepo, transactionRepo, outboxRepo, balances, retrier, idGen, nil),
		documents:    usecase.NewDocumentUseCase(txManager, documentRepo, outboxRepo, retrier, idGen, nil),
	}
}

func (s *stack) account(t *testing.T, name string, initial int64) *domain.Account {
	t.Helper()

	account, err := s.accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{
		TenantID:       s.tenantID,
		Name:           name,
		Currency:       "USD",
		InitialBalance: initial,
	})
	require.NoError(t, err)
	return account
}

func TestIntegration_RecordTransactionRefreshesBalance(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	acc := s.account(t, "Cash", 100000)

	for _, tx := range []struct {
		typ    domain.TransactionType
		amount int64
	}{
		{domain.TransactionIncome, 5000},
		{domain.TransactionExpense, 2000},
	} {
		_, err := s.transactions.RecordTransaction(ctx, usecase.RecordTransactionInput{
			TenantID:  s.tenantID,
			AccountID: acc.ID,
			Type:      tx.typ,
			Amount:    tx.amount,
		})
		require.NoError(t, err)
	}

	live, err := s.balances.ComputeBalance(ctx, s.tenantID, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(103000), live)

	refresh, err := s.balances.RefreshBalance(ctx, s.tenantID, acc.ID)
	require.NoError(t, err)
	assert.False(t, refresh.Changed)
	assert.Equal(t, int64(103000), refresh.CurrentBalance)
}

func TestIntegration_RefreshRepairsDrift(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	acc := s.account(t, "Bank", 50000)

	_, err := s.pool.Exec(ctx, `UPDATE accounts SET current_balance = 1 WHERE id = $1`, acc.ID)
	require.NoError(t, err)

	report, err := s.balances.RefreshAllBalances(ctx, s.tenantID, usecase.RefreshOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{acc.ID}, report.Succeeded)
	assert.Equal(t, []string{acc.ID}, report.Changed)
	assert.Empty(t, report.Failed)

	var current int64
	require.NoError(t, s.pool.QueryRow(ctx, `SELECT current_balance FROM accounts WHERE id = $1`, acc.ID).Scan(&current))
	assert.Equal(t, int64(50000), current)
}

func TestIntegration_ConcurrentOppositeTransfers(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	a := s.account(t, "A", 100000)
	b := s.account(t, "B", 100000)

	const rounds = 10

	var wg sync.WaitGroup
	errs := make(chan error, rounds*2)

	for i := 0; i < rounds; i++ {
		for _, pair := range [][2]string{{a.ID, b.ID}, {b.ID, a.ID}} {
			wg.Add(1)
			go func(from, to string) {
				defer wg.Done()
				_, err := s.transactions.RecordTransfer(ctx, usecase.RecordTransferInput{
					TenantID:      s.tenantID,
					FromAccountID: from,
					ToAccountID:   to,
					Amount:        100,
				})
				errs <- err
			}(pair[0], pair[1])
		}
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	for _, id := range []string{a.ID, b.ID} {
		live, err := s.balances.ComputeBalance(ctx, s.tenantID, id)
		require.NoError(t, err)
		assert.Equal(t, int64(100000), live)

		var current int64
		require.NoError(t, s.pool.QueryRow(ctx, `SELECT current_balance FROM accounts WHERE id = $1`, id).Scan(&current))
		assert.Equal(t, live, current)
	}
}

func TestIntegration_DocumentLifecycle(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	view, err := s.documents.CreateDocument(ctx, usecase.CreateDocumentInput{
		TenantID: s.tenantID,
		Kind:     domain.DocumentPurchaseBill,
		Number:   "BILL-" + uuid.NewString()[:8],
		Items: []usecase.LineItemInput{
			{Description: "Paper", Quantity: 3, UnitPrice: 2000},
			{Description: "Ink", Quantity: 2, UnitPrice: 2000},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, view.Status)
	assert.Equal(t, int64(10000), view.Document.TotalAmount)

	view, err = s.documents.RecordPayment(ctx, s.tenantID, view.Document.ID, 4000)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartiallyPaid, view.Status)

	view, err = s.documents.RecordReceipt(ctx, s.tenantID, view.Document.ID, map[string]int64{
		view.Document.Items[0].ID: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartiallyPaidPartiallyReceived, view.Status)

	view, err = s.documents.RecordPayment(ctx, s.tenantID, view.Document.ID, 6000)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaidPartiallyReceived, view.Status)

	loaded, err := s.documents.GetDocument(ctx, s.tenantID, view.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaidPartiallyReceived, loaded.Status)
	assert.Equal(t, int64(3), loaded.Document.Items[0].QuantityReceived)

	cancelled, err := s.documents.CancelDocument(ctx, s.tenantID, view.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	_, err = s.documents.RecordPayment(ctx, s.tenantID, view.Document.ID, 1)
	assert.ErrorIs(t, err, domain.ErrDocumentCancelled)
}

func TestIntegration_OutboxEventsCanBeMarkedPublished(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	acc := s.account(t, "Outbox", 0)

	_, err := s.transactions.RecordTransaction(ctx, usecase.RecordTransactionInput{
		TenantID:  s.tenantID,
		AccountID: acc.ID,
		Type:      domain.TransactionIncome,
		Amount:    700,
	})
	require.NoError(t, err)

	rows, err := s.pool.Query(ctx, `SELECT id FROM outbox_events WHERE aggregate_id = $1 AND published_at IS NULL`, acc.ID)
	require.NoError(t, err)
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}
	require.NoError(t, rows.Err())
	require.NotEmpty(t, ids)

	for _, id := range ids {
		require.NoError(t, s.outbox.MarkPublished(ctx, id, time.Now().UTC()))
	}

	var unpublished int
	require.NoError(t, s.pool.QueryRow(ctx,
		`SELECT count(*) FROM outbox_events WHERE aggregate_id = $1 AND published_at IS NULL`, acc.ID).Scan(&unpublished))
	assert.Zero(t, unpublished)
}
