package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/ceodigitcare/bizledger/internal/domain"
)

// TransactionUseCase records ledger transactions and keeps the cached
// balance of every touched account current in the same database transaction.
type TransactionUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	outboxRepo      OutboxRepository
	balances        *BalanceUseCase
	retrier         Retrier
	idGen           IDGenerator
	metrics         Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase. retrier, outboxRepo
// and metrics may be nil.
func NewTransactionUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	outboxRepo OutboxRepository,
	balances *BalanceUseCase,
	retrier Retrier,
	idGen IDGenerator,
	metrics Metrics,
) *TransactionUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &TransactionUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		outboxRepo:      outboxRepo,
		balances:        balances,
		retrier:         retrier,
		idGen:           idGen,
		metrics:         metrics,
	}
}

// RecordTransactionInput represents input for recording a transaction.
type RecordTransactionInput struct {
	OccurredAt  *time.Time
	TenantID    string
	AccountID   string
	Type        domain.TransactionType
	Description string
	Amount      int64
}

// RecordedTransaction is a stored transaction with the balance refresh it caused.
type RecordedTransaction struct {
	Transaction *domain.Transaction
	Balance     *BalanceRefresh
}

// RecordTransaction stores one transaction and refreshes the account's balance.
func (uc *TransactionUseCase) RecordTransaction(ctx context.Context, input RecordTransactionInput) (*RecordedTransaction, error) {
	if err := requireScope(input.TenantID, input.AccountID); err != nil {
		return nil, err
	}

	probe := domain.Transaction{AccountID: input.AccountID, Type: input.Type, Amount: input.Amount}
	if err := probe.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	var result *RecordedTransaction

	err := uc.retry(ctx, func() error {
		recorded, err := uc.recordTransaction(ctx, input)
		if err != nil {
			return err
		}
		result = recorded
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.TransactionRecorded(result.Transaction.Type, result.Transaction.Amount)
	uc.metrics.BalanceRefreshed(result.Balance.Changed)

	zerolog.Ctx(ctx).Debug().
		Str("transaction_id", result.Transaction.ID).
		Str("account_id", input.AccountID).
		Int64("balance", result.Balance.CurrentBalance).
		Msg("transaction recorded")

	return result, nil
}

func (uc *TransactionUseCase) recordTransaction(ctx context.Context, input RecordTransactionInput) (*RecordedTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.TenantID, input.AccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	transaction := uc.newTransaction(account, input.Type, input.Amount, input.Description, input.OccurredAt, nil, now)

	if err := uc.store(ctx, tx, transaction); err != nil {
		return nil, err
	}

	refresh, err := uc.balances.refreshLockedTx(ctx, tx, account)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &RecordedTransaction{Transaction: transaction, Balance: refresh}, nil
}

// RecordTransferInput represents input for moving money between two accounts.
type RecordTransferInput struct {
	OccurredAt    *time.Time
	TenantID      string
	FromAccountID string
	ToAccountID   string
	Description   string
	Amount        int64
}

// RecordedTransfer is the pair of transactions written by a transfer.
type RecordedTransfer struct {
	TransferID  string
	Out         *domain.Transaction
	In          *domain.Transaction
	FromBalance *BalanceRefresh
	ToBalance   *BalanceRefresh
}

// RecordTransfer writes a transfer_out on the source and a transfer_in on the
// destination atomically and refreshes both balances.
func (uc *TransactionUseCase) RecordTransfer(ctx context.Context, input RecordTransferInput) (*RecordedTransfer, error) {
	if input.TenantID == "" {
		return nil, domain.ErrInvalidTenantID
	}
	if input.FromAccountID == "" || input.ToAccountID == "" {
		return nil, domain.ErrInvalidAccountID
	}
	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	var result *RecordedTransfer

	err := uc.retry(ctx, func() error {
		recorded, err := uc.recordTransfer(ctx, input)
		if err != nil {
			return err
		}
		result = recorded
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.TransactionRecorded(domain.TransactionTransferOut, input.Amount)
	uc.metrics.TransactionRecorded(domain.TransactionTransferIn, input.Amount)
	uc.metrics.BalanceRefreshed(result.FromBalance.Changed)
	uc.metrics.BalanceRefreshed(result.ToBalance.Changed)

	return result, nil
}

func (uc *TransactionUseCase) recordTransfer(ctx context.Context, input RecordTransferInput) (*RecordedTransfer, error) {
	// Lock in id order so concurrent opposite transfers cannot deadlock.
	ids := []string{input.FromAccountID, input.ToAccountID}
	sort.Strings(ids)

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, input.TenantID, ids)
	if err != nil {
		return nil, err
	}
	if len(accounts) != len(ids) {
		return nil, domain.ErrAccountNotFound
	}

	byID := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	from, to := byID[input.FromAccountID], byID[input.ToAccountID]
	if from == nil || to == nil {
		return nil, domain.ErrAccountNotFound
	}
	if from.Currency != to.Currency {
		return nil, domain.ErrCurrencyMismatch
	}

	now := time.Now().UTC()
	transferID := uc.idGen.Generate()

	out := uc.newTransaction(from, domain.TransactionTransferOut, input.Amount, input.Description, input.OccurredAt, &transferID, now)
	in := uc.newTransaction(to, domain.TransactionTransferIn, input.Amount, input.Description, input.OccurredAt, &transferID, now)

	for _, transaction := range []*domain.Transaction{out, in} {
		if err := uc.store(ctx, tx, transaction); err != nil {
			return nil, err
		}
	}

	fromRefresh, err := uc.balances.refreshLockedTx(ctx, tx, from)
	if err != nil {
		return nil, err
	}

	toRefresh, err := uc.balances.refreshLockedTx(ctx, tx, to)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &RecordedTransfer{
		TransferID:  transferID,
		Out:         out,
		In:          in,
		FromBalance: fromRefresh,
		ToBalance:   toRefresh,
	}, nil
}

// ListTransactionsInput represents input for listing an account's transactions.
type ListTransactionsInput struct {
	TenantID  string
	AccountID string
	Limit     int
	Offset    int
}

// ListTransactions lists an account's transactions, newest first.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	if err := requireScope(input.TenantID, input.AccountID); err != nil {
		return nil, err
	}

	if _, err := uc.accountRepo.GetByID(ctx, input.TenantID, input.AccountID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.transactionRepo.ListByAccount(ctx, input.TenantID, input.AccountID, limit, offset)
}

func (uc *TransactionUseCase) newTransaction(
	account *domain.Account,
	txType domain.TransactionType,
	amount int64,
	description string,
	occurredAt *time.Time,
	transferID *string,
	now time.Time,
) *domain.Transaction {
	at := now
	if occurredAt != nil {
		at = occurredAt.UTC()
	}

	return &domain.Transaction{
		ID:          uc.idGen.Generate(),
		TenantID:    account.TenantID,
		AccountID:   account.ID,
		Type:        txType,
		Amount:      amount,
		Description: description,
		TransferID:  transferID,
		OccurredAt:  at,
		CreatedAt:   now,
	}
}

func (uc *TransactionUseCase) store(ctx context.Context, tx Transaction, transaction *domain.Transaction) error {
	if err := uc.transactionRepo.CreateTx(ctx, tx, transaction); err != nil {
		return err
	}

	event := newOutboxEvent(uc.idGen, transaction.TenantID, domain.AggregateTypeTransaction, transaction.ID,
		domain.EventTypeTransactionRecorded, domain.TransactionRecordedEvent{
			TransactionID: transaction.ID,
			AccountID:     transaction.AccountID,
			Type:          string(transaction.Type),
			Amount:        transaction.Amount,
		}, transaction.CreatedAt)

	return writeOutbox(ctx, uc.outboxRepo, tx, event)
}

func (uc *TransactionUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}
