package domain

import "time"

// Account is a bookkeeping account (bank, cash, card) owned by a tenant.
// CurrentBalance is a cached value; the source of truth is InitialBalance
// plus the account's transactions.
type Account struct {
	ID             string
	TenantID       string
	Name           string
	Currency       string
	InitialBalance int64
	CurrentBalance int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ComputeBalance applies credit and debit totals to an initial balance.
func ComputeBalance(initial, credits, debits int64) int64 {
	return initial + credits - debits
}

// IsStale reports whether the cached balance differs from computed.
func (a *Account) IsStale(computed int64) bool {
	return a.CurrentBalance != computed
}
