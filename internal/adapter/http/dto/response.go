package dto

import (
	"time"

	"github.com/ceodigitcare/bizledger/internal/domain"
	"github.com/ceodigitcare/bizledger/internal/usecase"
)

// Money is an amount rendered both for display and in cents.
type Money struct {
	Value string `json:"value"`
	Minor int64  `json:"minor"`
}

// NewMoney converts cents to Money.
func NewMoney(minor int64) Money {
	return Money{Value: domain.FormatMinor(minor), Minor: minor}
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Currency       string    `json:"currency"`
	InitialBalance Money     `json:"initial_balance"`
	CurrentBalance Money     `json:"current_balance"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Currency:       a.Currency,
		InitialBalance: NewMoney(a.InitialBalance),
		CurrentBalance: NewMoney(a.CurrentBalance),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// BalanceResponse compares the cached balance with the one computed from transactions.
type BalanceResponse struct {
	AccountID         string    `json:"account_id"`
	Currency          string    `json:"currency"`
	RecordedBalance   Money     `json:"recorded_balance"`
	CalculatedBalance Money     `json:"calculated_balance"`
	Difference        Money     `json:"difference"`
	IsReconciled      bool      `json:"is_reconciled"`
	LastChecked       time.Time `json:"last_checked"`
}

// BalanceFromResult converts a reconciliation result to response.
func BalanceFromResult(r *usecase.ReconciliationResult) *BalanceResponse {
	return &BalanceResponse{
		AccountID:         r.AccountID,
		Currency:          r.Currency,
		RecordedBalance:   NewMoney(r.RecordedBalance),
		CalculatedBalance: NewMoney(r.CalculatedBalance),
		Difference:        NewMoney(r.Difference),
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}

// BalanceRefreshResponse describes a write of the cached balance.
type BalanceRefreshResponse struct {
	AccountID       string    `json:"account_id"`
	PreviousBalance Money     `json:"previous_balance"`
	CurrentBalance  Money     `json:"current_balance"`
	Changed         bool      `json:"changed"`
	RefreshedAt     time.Time `json:"refreshed_at"`
}

// BalanceRefreshFromUseCase converts a balance refresh to response.
func BalanceRefreshFromUseCase(r *usecase.BalanceRefresh) *BalanceRefreshResponse {
	if r == nil {
		return nil
	}
	return &BalanceRefreshResponse{
		AccountID:       r.AccountID,
		PreviousBalance: NewMoney(r.PreviousBalance),
		CurrentBalance:  NewMoney(r.CurrentBalance),
		Changed:         r.Changed,
		RefreshedAt:     r.RefreshedAt,
	}
}

// TransactionResponse represents a ledger transaction in API responses.
type TransactionResponse struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Type        string    `json:"type"`
	Amount      Money     `json:"amount"`
	Description string    `json:"description,omitempty"`
	TransferID  *string   `json:"transfer_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Type:        string(t.Type),
		Amount:      NewMoney(t.Amount),
		Description: t.Description,
		TransferID:  t.TransferID,
		OccurredAt:  t.OccurredAt,
		CreatedAt:   t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// RecordedTransactionResponse is a new transaction and the balance refresh it caused.
type RecordedTransactionResponse struct {
	Transaction *TransactionResponse    `json:"transaction"`
	Balance     *BalanceRefreshResponse `json:"balance"`
}

// RecordedTransactionFromUseCase converts to response.
func RecordedTransactionFromUseCase(r *usecase.RecordedTransaction) *RecordedTransactionResponse {
	return &RecordedTransactionResponse{
		Transaction: TransactionFromDomain(r.Transaction),
		Balance:     BalanceRefreshFromUseCase(r.Balance),
	}
}

// TransferResponse is the pair of transactions written by a transfer.
type TransferResponse struct {
	TransferID  string                  `json:"transfer_id"`
	Out         *TransactionResponse    `json:"out"`
	In          *TransactionResponse    `json:"in"`
	FromBalance *BalanceRefreshResponse `json:"from_balance"`
	ToBalance   *BalanceRefreshResponse `json:"to_balance"`
}

// TransferFromUseCase converts a recorded transfer to response.
func TransferFromUseCase(r *usecase.RecordedTransfer) *TransferResponse {
	return &TransferResponse{
		TransferID:  r.TransferID,
		Out:         TransactionFromDomain(r.Out),
		In:          TransactionFromDomain(r.In),
		FromBalance: BalanceRefreshFromUseCase(r.FromBalance),
		ToBalance:   BalanceRefreshFromUseCase(r.ToBalance),
	}
}

// LineItemResponse represents a document line.
type LineItemResponse struct {
	ID               string `json:"id"`
	Description      string `json:"description"`
	Quantity         int64  `json:"quantity"`
	QuantityReceived int64  `json:"quantity_received"`
	UnitPrice        Money  `json:"unit_price"`
}

// DocumentResponse represents a document with its derived status.
type DocumentResponse struct {
	ID           string             `json:"id"`
	Kind         string             `json:"kind"`
	Number       string             `json:"number"`
	Counterparty string             `json:"counterparty,omitempty"`
	TotalAmount  Money              `json:"total_amount"`
	AmountPaid   Money              `json:"amount_paid"`
	Outstanding  Money              `json:"outstanding"`
	IsCancelled  bool               `json:"is_cancelled"`
	Status       string             `json:"status"`
	StatusLabel  string             `json:"status_label"`
	Items        []LineItemResponse `json:"items"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// DocumentFromView converts a document view to response.
func DocumentFromView(v *usecase.DocumentView) *DocumentResponse {
	d := v.Document

	items := make([]LineItemResponse, len(d.Items))
	for i, item := range d.Items {
		items[i] = LineItemResponse{
			ID:               item.ID,
			Description:      item.Description,
			Quantity:         item.Quantity,
			QuantityReceived: item.QuantityReceived,
			UnitPrice:        NewMoney(item.UnitPrice),
		}
	}

	return &DocumentResponse{
		ID:           d.ID,
		Kind:         string(d.Kind),
		Number:       d.Number,
		Counterparty: d.Counterparty,
		TotalAmount:  NewMoney(d.TotalAmount),
		AmountPaid:   NewMoney(d.AmountPaid),
		Outstanding:  NewMoney(d.Outstanding()),
		IsCancelled:  d.IsCancelled,
		Status:       string(v.Status),
		StatusLabel:  v.Status.Label(),
		Items:        items,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// DocumentsFromViews converts document views to responses.
func DocumentsFromViews(views []*usecase.DocumentView) []*DocumentResponse {
	result := make([]*DocumentResponse, len(views))
	for i, v := range views {
		result[i] = DocumentFromView(v)
	}
	return result
}

// ListDocumentsResponse represents a page of documents.
type ListDocumentsResponse struct {
	Documents []*DocumentResponse `json:"documents"`
	Total     int64               `json:"total"`
}

// ClassifyResponse is the outcome of a stateless classification.
type ClassifyResponse struct {
	Status      string `json:"status"`
	Label       string `json:"label"`
	Payment     string `json:"payment,omitempty"`
	Fulfillment string `json:"fulfillment,omitempty"`
}

// ClassifyFromInput renders status together with the payment and fulfillment
// dimensions of in. Cancelled documents carry no dimensions.
func ClassifyFromInput(in domain.StatusInput, status domain.Status) *ClassifyResponse {
	resp := &ClassifyResponse{Status: string(status), Label: status.Label()}
	if status != domain.StatusCancelled {
		resp.Payment = domain.ClassifyPayment(in.TotalAmount, in.AmountPaid).String()
		resp.Fulfillment = domain.ClassifyFulfillment(in.Items).String()
	}
	return resp
}

// RefreshFailureResponse names an account that could not be refreshed.
type RefreshFailureResponse struct {
	AccountID string `json:"account_id"`
	Error     string `json:"error"`
}

// ReconciliationReportResponse is a refresh-all report.
type ReconciliationReportResponse struct {
	TenantID   string                   `json:"tenant_id"`
	Succeeded  []string                 `json:"succeeded"`
	Changed    []string                 `json:"changed"`
	Failed     []RefreshFailureResponse `json:"failed"`
	Aborted    bool                     `json:"aborted"`
	StartedAt  time.Time                `json:"started_at"`
	DurationMS int64                    `json:"duration_ms"`
}

// ReportFromUseCase converts a refresh report to response.
func ReportFromUseCase(r *usecase.RefreshReport) *ReconciliationReportResponse {
	failed := make([]RefreshFailureResponse, len(r.Failed))
	for i, f := range r.Failed {
		failed[i] = RefreshFailureResponse{AccountID: f.AccountID, Error: f.Error}
	}

	return &ReconciliationReportResponse{
		TenantID:   r.TenantID,
		Succeeded:  nonNil(r.Succeeded),
		Changed:    nonNil(r.Changed),
		Failed:     failed,
		Aborted:    r.Aborted,
		StartedAt:  r.StartedAt,
		DurationMS: r.Duration.Milliseconds(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
