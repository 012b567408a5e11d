package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ceodigitcare/bizledger/internal/adapter/http/dto"
	"github.com/ceodigitcare/bizledger/internal/domain"
	"github.com/ceodigitcare/bizledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, tenantID, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, tenantID string) ([]*domain.Account, error)
}

// BalanceService defines the balance operations exposed on accounts.
type BalanceService interface {
	RefreshBalance(ctx context.Context, tenantID, accountID string) (*usecase.BalanceRefresh, error)
	ListAccountsWithLiveBalances(ctx context.Context, tenantID string) ([]*domain.Account, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
	balanceUC BalanceService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService, balanceUC BalanceService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, balanceUC: balanceUC}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(tenant)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), tenant, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts with their cached balances.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	accounts, err := h.accountUC.ListAccounts(r.Context(), tenant)
	if err != nil {
		writeDomainError(w, r, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Live lists accounts with balances computed from their transactions.
// Nothing is written.
func (h *AccountHandler) Live(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	accounts, err := h.balanceUC.ListAccountsWithLiveBalances(r.Context(), tenant)
	if err != nil {
		writeDomainError(w, r, "failed to compute live balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// RefreshBalance recomputes and stores the balance of one account.
func (h *AccountHandler) RefreshBalance(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	refresh, err := h.balanceUC.RefreshBalance(r.Context(), tenant, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to refresh balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceRefreshFromUseCase(refresh))
}
