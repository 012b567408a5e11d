package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ceodigitcare/bizledger/internal/domain"
	"github.com/ceodigitcare/bizledger/internal/usecase"
)

// Amounts in requests are decimal strings in major units, e.g. "12.34".

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name           string `json:"name"`
	Currency       string `json:"currency"`
	InitialBalance string `json:"initial_balance,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(tenantID string) (usecase.CreateAccountInput, error) {
	initial, err := parseOptionalAmount("initial_balance", r.InitialBalance)
	if err != nil {
		return usecase.CreateAccountInput{}, err
	}

	return usecase.CreateAccountInput{
		TenantID:       tenantID,
		Name:           r.Name,
		Currency:       r.Currency,
		InitialBalance: initial,
	}, nil
}

// RecordTransactionRequest represents a request to record a ledger transaction.
type RecordTransactionRequest struct {
	Type        string     `json:"type"`
	Amount      string     `json:"amount"`
	Description string     `json:"description,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordTransactionRequest) ToUseCaseInput(tenantID, accountID string) (usecase.RecordTransactionInput, error) {
	txType, err := domain.ParseTransactionType(r.Type)
	if err != nil {
		return usecase.RecordTransactionInput{}, err
	}

	amount, err := parseAmount("amount", r.Amount)
	if err != nil {
		return usecase.RecordTransactionInput{}, err
	}

	return usecase.RecordTransactionInput{
		OccurredAt:  r.OccurredAt,
		TenantID:    tenantID,
		AccountID:   accountID,
		Type:        txType,
		Description: r.Description,
		Amount:      amount,
	}, nil
}

// CreateTransferRequest represents a request to move money between accounts.
type CreateTransferRequest struct {
	FromAccountID string     `json:"from_account_id"`
	ToAccountID   string     `json:"to_account_id"`
	Amount        string     `json:"amount"`
	Description   string     `json:"description,omitempty"`
	OccurredAt    *time.Time `json:"occurred_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput(tenantID string) (usecase.RecordTransferInput, error) {
	amount, err := parseAmount("amount", r.Amount)
	if err != nil {
		return usecase.RecordTransferInput{}, err
	}

	return usecase.RecordTransferInput{
		OccurredAt:    r.OccurredAt,
		TenantID:      tenantID,
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Description:   r.Description,
		Amount:        amount,
	}, nil
}

// LineItemRequest is one line of a document.
type LineItemRequest struct {
	Description      string `json:"description"`
	Quantity         int64  `json:"quantity"`
	QuantityReceived int64  `json:"quantity_received,omitempty"`
	UnitPrice        string `json:"unit_price"`
}

// CreateDocumentRequest represents a request to create a purchase bill or sales invoice.
// An empty total_amount defaults to the sum of the line items.
type CreateDocumentRequest struct {
	Kind         string            `json:"kind"`
	Number       string            `json:"number"`
	Counterparty string            `json:"counterparty,omitempty"`
	TotalAmount  string            `json:"total_amount,omitempty"`
	AmountPaid   string            `json:"amount_paid,omitempty"`
	Items        []LineItemRequest `json:"items"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateDocumentRequest) ToUseCaseInput(tenantID string) (usecase.CreateDocumentInput, error) {
	kind, err := domain.ParseDocumentKind(r.Kind)
	if err != nil {
		return usecase.CreateDocumentInput{}, err
	}

	total, err := parseOptionalAmount("total_amount", r.TotalAmount)
	if err != nil {
		return usecase.CreateDocumentInput{}, err
	}

	paid, err := parseOptionalAmount("amount_paid", r.AmountPaid)
	if err != nil {
		return usecase.CreateDocumentInput{}, err
	}

	items := make([]usecase.LineItemInput, len(r.Items))
	for i, item := range r.Items {
		price, err := parseAmount(fmt.Sprintf("items[%d].unit_price", i), item.UnitPrice)
		if err != nil {
			return usecase.CreateDocumentInput{}, err
		}
		items[i] = usecase.LineItemInput{
			Description:      item.Description,
			Quantity:         item.Quantity,
			QuantityReceived: item.QuantityReceived,
			UnitPrice:        price,
		}
	}

	return usecase.CreateDocumentInput{
		TenantID:     tenantID,
		Kind:         kind,
		Number:       r.Number,
		Counterparty: r.Counterparty,
		TotalAmount:  total,
		AmountPaid:   paid,
		Items:        items,
	}, nil
}

// RecordPaymentRequest adds a payment to a document.
type RecordPaymentRequest struct {
	Amount string `json:"amount"`
}

// ToMinor returns the payment in cents.
func (r *RecordPaymentRequest) ToMinor() (int64, error) {
	return parseAmount("amount", r.Amount)
}

// RecordReceiptRequest adds received (or delivered) quantities keyed by line item id.
type RecordReceiptRequest struct {
	Quantities map[string]int64 `json:"quantities"`
}

// ClassifyItemRequest is the ordered and received quantity of one line.
type ClassifyItemRequest struct {
	Quantity         int64 `json:"quantity"`
	QuantityReceived int64 `json:"quantity_received"`
}

// ClassifyRequest asks for the status of a document that is not stored.
type ClassifyRequest struct {
	TotalAmount string                `json:"total_amount"`
	AmountPaid  string                `json:"amount_paid"`
	Items       []ClassifyItemRequest `json:"items"`
	IsCancelled bool                  `json:"is_cancelled"`
}

// ToStatusInput converts to classifier input. Negative amounts pass through
// so the classifier can reject them.
func (r *ClassifyRequest) ToStatusInput() (domain.StatusInput, error) {
	total, err := parseSignedAmount("total_amount", r.TotalAmount)
	if err != nil {
		return domain.StatusInput{}, err
	}

	paid, err := parseSignedAmount("amount_paid", r.AmountPaid)
	if err != nil {
		return domain.StatusInput{}, err
	}

	items := make([]domain.ItemProgress, len(r.Items))
	for i, item := range r.Items {
		items[i] = domain.ItemProgress{Ordered: item.Quantity, Received: item.QuantityReceived}
	}

	return domain.StatusInput{
		TotalAmount: total,
		AmountPaid:  paid,
		Items:       items,
		IsCancelled: r.IsCancelled,
	}, nil
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func parseAmount(field, value string) (int64, error) {
	if value == "" {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	return parseSignedAmount(field, value)
}

func parseOptionalAmount(field, value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	return parseSignedAmount(field, value)
}

func parseSignedAmount(field, value string) (int64, error) {
	if value == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a decimal number", domain.ErrValidation, field)
	}

	minor, err := domain.FromMajorUnits(d)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return minor, nil
}
