package postgres

import (
	"context"
	"time"

	"github.com/ceodigitcare/bizledger/internal/domain"
	"github.com/ceodigitcare/bizledger/internal/infrastructure/postgres/generated"
	"github.com/ceodigitcare/bizledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{
		queries: generated.New(db),
	}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return createAccount(ctx, r.queries, account)
}

// CreateTx creates a new account within a transaction.
func (r *AccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	return createAccount(ctx, queriesFor(tx), account)
}

func createAccount(ctx context.Context, queries *generated.Queries, account *domain.Account) error {
	err := queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:             account.ID,
		TenantID:       account.TenantID,
		Name:           account.Name,
		Currency:       account.Currency,
		InitialBalance: account.InitialBalance,
		CurrentBalance: account.CurrentBalance,
		CreatedAt:      timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})
	return domain.NewStorageError("create account", err)
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, generated.GetAccountByIDParams{TenantID: tenantID, ID: id})
	if err != nil {
		return nil, lookupError("get account", err, domain.ErrAccountNotFound)
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, tenantID, id string) (*domain.Account, error) {
	row, err := queriesFor(tx).GetAccountByIDForUpdate(ctx, generated.GetAccountByIDForUpdateParams{TenantID: tenantID, ID: id})
	if err != nil {
		return nil, lookupError("lock account", err, domain.ErrAccountNotFound)
	}

	return rowToAccount(row), nil
}

// GetByIDsForUpdate locks multiple accounts in id order. Unknown IDs are skipped.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, tenantID string, ids []string) ([]*domain.Account, error) {
	rows, err := queriesFor(tx).GetAccountsByIDsForUpdate(ctx, generated.GetAccountsByIDsForUpdateParams{
		TenantID: tenantID,
		Ids:      ids,
	})
	if err != nil {
		return nil, domain.NewStorageError("lock accounts", err)
	}

	return rowsToAccounts(rows), nil
}

// List lists all accounts of a tenant ordered by name.
func (r *AccountRepository) List(ctx context.Context, tenantID string) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorageError("list accounts", err)
	}

	return rowsToAccounts(rows), nil
}

// UpdateCurrentBalanceTx overwrites the cached balance of an account.
func (r *AccountRepository) UpdateCurrentBalanceTx(
	ctx context.Context,
	tx usecase.Transaction,
	tenantID, id string,
	balance int64,
	updatedAt time.Time,
) error {
	affected, err := queriesFor(tx).UpdateAccountCurrentBalance(ctx, generated.UpdateAccountCurrentBalanceParams{
		TenantID:       tenantID,
		ID:             id,
		CurrentBalance: balance,
		UpdatedAt:      timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return domain.NewStorageError("update account balance", err)
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func rowsToAccounts(rows []generated.Account) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}
	return accounts
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:             row.ID,
		TenantID:       row.TenantID,
		Name:           row.Name,
		Currency:       row.Currency,
		InitialBalance: row.InitialBalance,
		CurrentBalance: row.CurrentBalance,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
