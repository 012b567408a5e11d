package domain

import "time"

// Event types
const (
	EventTypeAccountCreated          = "account.created"
	EventTypeAccountBalanceRefreshed = "account.balance_refreshed"
	EventTypeTransactionRecorded     = "transaction.recorded"
	EventTypeDocumentCreated         = "document.created"
	EventTypeDocumentStatusChanged   = "document.status_changed"
)

// Aggregate types
const (
	AggregateTypeAccount     = "account"
	AggregateTypeTransaction = "transaction"
	AggregateTypeDocument    = "document"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	TenantID      string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// BalanceRefreshedEvent payload
type BalanceRefreshedEvent struct {
	AccountID       string `json:"account_id"`
	PreviousBalance int64  `json:"previous_balance"`
	CurrentBalance  int64  `json:"current_balance"`
}

// TransactionRecordedEvent payload
type TransactionRecordedEvent struct {
	TransactionID string `json:"transaction_id"`
	AccountID     string `json:"account_id"`
	Type          string `json:"type"`
	Amount        int64  `json:"amount"`
}

// DocumentStatusChangedEvent payload
type DocumentStatusChangedEvent struct {
	DocumentID string `json:"document_id"`
	Kind       string `json:"kind"`
	Number     string `json:"number"`
	From       string `json:"from"`
	To         string `json:"to"`
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	AccountID      string `json:"account_id"`
	Name           string `json:"name"`
	Currency       string `json:"currency"`
	InitialBalance int64  `json:"initial_balance"`
}
