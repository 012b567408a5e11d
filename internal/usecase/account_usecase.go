package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/ceodigitcare/bizledger/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase. With a nil outboxRepo no
// account.created event is written.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	TenantID       string
	Name           string
	Currency       string
	InitialBalance int64
}

// CreateAccount creates a new account whose current balance equals its initial balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if input.TenantID == "" {
		return nil, domain.ErrInvalidTenantID
	}

	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	currency, err := domain.NormalizeCurrency(input.Currency)
	if err != nil {
		return nil, err
	}

	if input.InitialBalance > domain.MaxAmount || input.InitialBalance < -domain.MaxAmount {
		return nil, domain.ErrAmountTooLarge
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		TenantID:       input.TenantID,
		Name:           strings.TrimSpace(input.Name),
		Currency:       currency,
		InitialBalance: input.InitialBalance,
		CurrentBalance: input.InitialBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if uc.outboxRepo == nil {
		if err := uc.accountRepo.Create(ctx, account); err != nil {
			return nil, err
		}
		return account, nil
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.accountRepo.CreateTx(ctx, tx, account); err != nil {
		return nil, err
	}

	event := newOutboxEvent(uc.idGen, account.TenantID, domain.AggregateTypeAccount, account.ID,
		domain.EventTypeAccountCreated, domain.AccountCreatedEvent{
			AccountID:      account.ID,
			Name:           account.Name,
			Currency:       account.Currency,
			InitialBalance: account.InitialBalance,
		}, now)
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, tenantID, id string) (*domain.Account, error) {
	if err := requireScope(tenantID, id); err != nil {
		return nil, err
	}
	return uc.accountRepo.GetByID(ctx, tenantID, id)
}

// ListAccounts lists the tenant's accounts ordered by name.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, tenantID string) ([]*domain.Account, error) {
	if tenantID == "" {
		return nil, domain.ErrInvalidTenantID
	}
	return uc.accountRepo.List(ctx, tenantID)
}
