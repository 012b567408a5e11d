package postgres

import (
	"context"

	"github.com/ceodigitcare/bizledger/internal/domain"
	"github.com/ceodigitcare/bizledger/internal/infrastructure/postgres/generated"
	"github.com/ceodigitcare/bizledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{
		queries: generated.New(db),
	}
}

// CreateTx stores a transaction within a database transaction.
func (r *TransactionRepository) CreateTx(ctx context.Context, tx usecase.Transaction, transaction *domain.Transaction) error {
	err := queriesFor(tx).CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:          transaction.ID,
		TenantID:    transaction.TenantID,
		AccountID:   transaction.AccountID,
		Type:        string(transaction.Type),
		Amount:      transaction.Amount,
		Description: transaction.Description,
		TransferID:  stringToPgText(transaction.TransferID),
		OccurredAt:  timeToPgTimestamptz(transaction.OccurredAt),
		CreatedAt:   timeToPgTimestamptz(transaction.CreatedAt),
	})
	return domain.NewStorageError("create transaction", err)
}

// ListByAccount lists an account's transactions, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, tenantID, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByAccount(ctx, generated.ListTransactionsByAccountParams{
		TenantID:  tenantID,
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, domain.NewStorageError("list transactions", err)
	}

	transactions := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, rowToTransaction(row))
	}

	return transactions, nil
}

// SumByTypes totals the amounts of an account's transactions of the given types.
func (r *TransactionRepository) SumByTypes(ctx context.Context, tenantID, accountID string, types []domain.TransactionType) (int64, error) {
	return sumByTypes(ctx, r.queries, tenantID, accountID, types)
}

// SumByTypesTx is SumByTypes inside a database transaction.
func (r *TransactionRepository) SumByTypesTx(
	ctx context.Context,
	tx usecase.Transaction,
	tenantID, accountID string,
	types []domain.TransactionType,
) (int64, error) {
	return sumByTypes(ctx, queriesFor(tx), tenantID, accountID, types)
}

func sumByTypes(ctx context.Context, queries *generated.Queries, tenantID, accountID string, types []domain.TransactionType) (int64, error) {
	total, err := queries.SumTransactionsByTypes(ctx, generated.SumTransactionsByTypesParams{
		TenantID:  tenantID,
		AccountID: accountID,
		Types:     transactionTypesToStrings(types),
	})
	if err != nil {
		return 0, domain.NewStorageError("sum transactions", err)
	}
	return total, nil
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:          row.ID,
		TenantID:    row.TenantID,
		AccountID:   row.AccountID,
		Type:        domain.TransactionType(row.Type),
		Amount:      row.Amount,
		Description: row.Description,
		TransferID:  pgTextToString(row.TransferID),
		OccurredAt:  row.OccurredAt.Time,
		CreatedAt:   row.CreatedAt.Time,
	}
}
