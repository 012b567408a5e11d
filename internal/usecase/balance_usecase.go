package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ceodigitcare/bizledger/internal/domain"
)

// BalanceUseCase keeps cached account balances consistent with the ledger.
type BalanceUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	outboxRepo      OutboxRepository
	idGen           IDGenerator
	metrics         Metrics
}

// NewBalanceUseCase creates a new BalanceUseCase. outboxRepo and metrics may be nil.
func NewBalanceUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics Metrics,
) *BalanceUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &BalanceUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		outboxRepo:      outboxRepo,
		idGen:           idGen,
		metrics:         metrics,
	}
}

// BalanceRefresh describes one write of an account's cached balance.
type BalanceRefresh struct {
	AccountID       string
	PreviousBalance int64
	CurrentBalance  int64
	Changed         bool
	RefreshedAt     time.Time
}

// RefreshOptions controls RefreshAllBalances.
type RefreshOptions struct {
	// FailFast stops at the first failing account.
	FailFast bool
}

// RefreshFailure records why one account could not be refreshed.
type RefreshFailure struct {
	AccountID string `json:"account_id"`
	Error     string `json:"error"`
	Err       error  `json:"-"`
}

// RefreshReport is the outcome of RefreshAllBalances.
type RefreshReport struct {
	TenantID  string           `json:"tenant_id"`
	Succeeded []string         `json:"succeeded"`
	Changed   []string         `json:"changed"`
	Failed    []RefreshFailure `json:"failed"`
	StartedAt time.Time        `json:"started_at"`
	Duration  time.Duration    `json:"duration"`
	Aborted   bool             `json:"aborted"`
}

// ComputeBalance derives the balance of an account from its initial balance
// and transactions. It never reads the cached balance.
func (uc *BalanceUseCase) ComputeBalance(ctx context.Context, tenantID, accountID string) (int64, error) {
	if err := requireScope(tenantID, accountID); err != nil {
		return 0, err
	}

	account, err := uc.accountRepo.GetByID(ctx, tenantID, accountID)
	if err != nil {
		return 0, err
	}

	return uc.compute(ctx, account)
}

func (uc *BalanceUseCase) compute(ctx context.Context, account *domain.Account) (int64, error) {
	credits, err := uc.transactionRepo.SumByTypes(ctx, account.TenantID, account.ID, domain.CreditTypes)
	if err != nil {
		return 0, err
	}

	debits, err := uc.transactionRepo.SumByTypes(ctx, account.TenantID, account.ID, domain.DebitTypes)
	if err != nil {
		return 0, err
	}

	return domain.ComputeBalance(account.InitialBalance, credits, debits), nil
}

// RefreshBalance recomputes the balance and writes it to the account in one
// database transaction. Repeated calls without ledger changes write the same value.
func (uc *BalanceUseCase) RefreshBalance(ctx context.Context, tenantID, accountID string) (*BalanceRefresh, error) {
	if err := requireScope(tenantID, accountID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		uc.metrics.BalanceRefreshFailed()
		return nil, err
	}
	defer tx.Rollback(ctx)

	refresh, err := uc.refreshTx(ctx, tx, tenantID, accountID)
	if err != nil {
		uc.metrics.BalanceRefreshFailed()
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		uc.metrics.BalanceRefreshFailed()
		return nil, err
	}

	uc.metrics.BalanceRefreshed(refresh.Changed)
	return refresh, nil
}

// refreshTx recomputes and stores the balance inside tx. The account row is
// locked for the rest of tx.
func (uc *BalanceUseCase) refreshTx(ctx context.Context, tx Transaction, tenantID, accountID string) (*BalanceRefresh, error) {
	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, tenantID, accountID)
	if err != nil {
		return nil, err
	}

	return uc.refreshLockedTx(ctx, tx, account)
}

// refreshLockedTx is refreshTx for an account already locked by tx.
func (uc *BalanceUseCase) refreshLockedTx(ctx context.Context, tx Transaction, account *domain.Account) (*BalanceRefresh, error) {
	tenantID, accountID := account.TenantID, account.ID

	credits, err := uc.transactionRepo.SumByTypesTx(ctx, tx, tenantID, accountID, domain.CreditTypes)
	if err != nil {
		return nil, err
	}

	debits, err := uc.transactionRepo.SumByTypesTx(ctx, tx, tenantID, accountID, domain.DebitTypes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	balance := domain.ComputeBalance(account.InitialBalance, credits, debits)
	refresh := &BalanceRefresh{
		AccountID:       accountID,
		PreviousBalance: account.CurrentBalance,
		CurrentBalance:  balance,
		Changed:         account.IsStale(balance),
		RefreshedAt:     now,
	}

	if err := uc.accountRepo.UpdateCurrentBalanceTx(ctx, tx, tenantID, accountID, balance, now); err != nil {
		return nil, err
	}

	if refresh.Changed {
		event := newOutboxEvent(uc.idGen, tenantID, domain.AggregateTypeAccount, accountID,
			domain.EventTypeAccountBalanceRefreshed, domain.BalanceRefreshedEvent{
				AccountID:       accountID,
				PreviousBalance: refresh.PreviousBalance,
				CurrentBalance:  refresh.CurrentBalance,
			}, now)
		if err := writeOutbox(ctx, uc.outboxRepo, tx, event); err != nil {
			return nil, err
		}
	}

	return refresh, nil
}

// RefreshAllBalances refreshes every account of the tenant. Each account is
// refreshed in its own transaction; failures are collected in the report
// unless opts.FailFast is set, in which case the first failure is returned.
func (uc *BalanceUseCase) RefreshAllBalances(ctx context.Context, tenantID string, opts RefreshOptions) (*RefreshReport, error) {
	if tenantID == "" {
		return nil, domain.ErrInvalidTenantID
	}

	logger := zerolog.Ctx(ctx)
	start := time.Now().UTC()

	accounts, err := uc.accountRepo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	report := &RefreshReport{
		TenantID:  tenantID,
		Succeeded: make([]string, 0, len(accounts)),
		Changed:   make([]string, 0),
		Failed:    make([]RefreshFailure, 0),
		StartedAt: start,
	}

	for _, account := range accounts {
		refresh, err := uc.RefreshBalance(ctx, tenantID, account.ID)
		if err != nil {
			logger.Warn().Err(err).Str("account_id", account.ID).Msg("balance refresh failed")
			report.Failed = append(report.Failed, RefreshFailure{
				AccountID: account.ID,
				Error:     err.Error(),
				Err:       err,
			})

			if opts.FailFast {
				report.Aborted = true
				report.Duration = time.Since(start)
				return report, fmt.Errorf("refresh account %s: %w", account.ID, err)
			}
			continue
		}

		report.Succeeded = append(report.Succeeded, account.ID)
		if refresh.Changed {
			report.Changed = append(report.Changed, account.ID)
		}
	}

	report.Duration = time.Since(start)

	logger.Info().
		Str("tenant_id", tenantID).
		Int("accounts", len(accounts)).
		Int("changed", len(report.Changed)).
		Int("failed", len(report.Failed)).
		Dur("duration", report.Duration).
		Msg("balances refreshed")

	return report, nil
}

// ListAccountsWithLiveBalances returns the tenant's accounts with
// CurrentBalance replaced by a freshly computed value. Nothing is written.
func (uc *BalanceUseCase) ListAccountsWithLiveBalances(ctx context.Context, tenantID string) ([]*domain.Account, error) {
	if tenantID == "" {
		return nil, domain.ErrInvalidTenantID
	}

	accounts, err := uc.accountRepo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	live := make([]*domain.Account, 0, len(accounts))
	for _, account := range accounts {
		balance, err := uc.compute(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("compute balance of account %s: %w", account.ID, err)
		}

		copied := *account
		copied.CurrentBalance = balance
		live = append(live, &copied)
	}

	return live, nil
}

func requireScope(tenantID, accountID string) error {
	if tenantID == "" {
		return domain.ErrInvalidTenantID
	}
	if accountID == "" {
		return domain.ErrInvalidAccountID
	}
	return nil
}
