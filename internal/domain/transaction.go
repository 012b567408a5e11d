package domain

import (
	"strings"
	"time"
)

// TransactionType determines the sign of a ledger transaction in its account balance.
type TransactionType string

const (
	TransactionIncome      TransactionType = "income"
	TransactionExpense     TransactionType = "expense"
	TransactionTransferIn  TransactionType = "transfer_in"
	TransactionTransferOut TransactionType = "transfer_out"
)

// CreditTypes increase an account balance.
var CreditTypes = []TransactionType{TransactionIncome, TransactionTransferIn}

// DebitTypes decrease an account balance.
var DebitTypes = []TransactionType{TransactionExpense, TransactionTransferOut}

// ParseTransactionType parses a transaction type, case-insensitively.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrInvalidTransactionType
	}
	return t, nil
}

// IsValid checks if the type is known.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionIncome, TransactionExpense, TransactionTransferIn, TransactionTransferOut:
		return true
	}
	return false
}

// IsCredit reports whether the type adds to the balance.
func (t TransactionType) IsCredit() bool {
	return t == TransactionIncome || t == TransactionTransferIn
}

// Sign returns +1 for credits and -1 for debits.
func (t TransactionType) Sign() int64 {
	if t.IsCredit() {
		return 1
	}
	return -1
}

// Transaction is a ledger entry against one account. Amount is unsigned;
// the sign comes from Type.
type Transaction struct {
	ID          string
	TenantID    string
	AccountID   string
	Type        TransactionType
	Amount      int64
	Description string
	TransferID  *string
	OccurredAt  time.Time
	CreatedAt   time.Time
}

// Validate validates the transaction.
func (t *Transaction) Validate() error {
	if t.AccountID == "" {
		return ErrInvalidAccountID
	}
	if !t.Type.IsValid() {
		return ErrInvalidTransactionType
	}
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// SignedAmount returns Amount with the sign of its type.
func (t *Transaction) SignedAmount() int64 {
	return t.Type.Sign() * t.Amount
}
