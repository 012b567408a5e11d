package domain

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by this package wraps exactly one of them.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)

var (
	// Account errors
	ErrAccountNotFound  = fmt.Errorf("account %w", ErrNotFound)
	ErrInvalidAccountID = fmt.Errorf("%w: account id is required", ErrValidation)
	ErrInvalidTenantID  = fmt.Errorf("%w: tenant id is required", ErrValidation)

	// Ledger transaction errors
	ErrInvalidAmount          = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrInvalidTransactionType = fmt.Errorf("%w: unknown transaction type", ErrValidation)
	ErrSameAccount            = fmt.Errorf("%w: cannot transfer to same account", ErrValidation)
	ErrCurrencyMismatch       = fmt.Errorf("%w: cannot transfer between different currencies", ErrValidation)

	// Document errors
	ErrDocumentNotFound     = fmt.Errorf("document %w", ErrNotFound)
	ErrLineItemNotFound     = fmt.Errorf("line item %w", ErrNotFound)
	ErrInvalidDocumentKind  = fmt.Errorf("%w: unknown document kind", ErrValidation)
	ErrNegativeAmount       = fmt.Errorf("%w: amounts must not be negative", ErrValidation)
	ErrNegativeQuantity     = fmt.Errorf("%w: quantities must not be negative", ErrValidation)
	ErrOverReceived         = fmt.Errorf("%w: received quantity exceeds ordered quantity", ErrValidation)
	ErrDocumentCancelled    = fmt.Errorf("%w: document is cancelled", ErrValidation)
	ErrInvalidDocumentInput = fmt.Errorf("%w: invalid document", ErrValidation)
	ErrUnknownState         = fmt.Errorf("%w: unknown payment or fulfillment state", ErrValidation)
)

// StorageError reports a failure of the persistence layer. It matches
// ErrStorage with errors.Is and unwraps to the driver error.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err as a StorageError. It returns nil when err is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
