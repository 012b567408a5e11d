package domain

import (
	"fmt"
	"strings"
	"time"
)

// DocumentKind distinguishes payables from receivables.
type DocumentKind string

const (
	DocumentPurchaseBill DocumentKind = "purchase_bill"
	DocumentSalesInvoice DocumentKind = "sales_invoice"
)

// ParseDocumentKind parses a document kind. An empty string yields an empty kind.
func ParseDocumentKind(s string) (DocumentKind, error) {
	k := DocumentKind(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return "", nil
	}
	if !k.IsValid() {
		return "", ErrInvalidDocumentKind
	}
	return k, nil
}

// IsValid checks if the kind is known.
func (k DocumentKind) IsValid() bool {
	return k == DocumentPurchaseBill || k == DocumentSalesInvoice
}

// LineItem is one ordered line of a document. For sales invoices
// QuantityReceived holds the fulfilled quantity.
type LineItem struct {
	ID               string
	Description      string
	Quantity         int64
	QuantityReceived int64
	UnitPrice        int64
}

// Document is a purchase bill or sales invoice tracked for payment and fulfillment.
type Document struct {
	ID           string
	TenantID     string
	Kind         DocumentKind
	Number       string
	Counterparty string
	TotalAmount  int64
	AmountPaid   int64
	IsCancelled  bool
	Items        []LineItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks a document before it is first stored.
func (d *Document) Validate() error {
	if !d.Kind.IsValid() {
		return ErrInvalidDocumentKind
	}
	if strings.TrimSpace(d.Number) == "" {
		return fmt.Errorf("%w: number is required", ErrInvalidDocumentInput)
	}
	if len(d.Items) == 0 {
		return fmt.Errorf("%w: at least one line item is required", ErrInvalidDocumentInput)
	}
	for _, item := range d.Items {
		if item.UnitPrice < 0 {
			return ErrNegativeAmount
		}
	}
	return d.StatusInput().Validate()
}

// StatusInput projects the document onto the classifier input.
func (d *Document) StatusInput() StatusInput {
	items := make([]ItemProgress, len(d.Items))
	for i, item := range d.Items {
		items[i] = ItemProgress{Ordered: item.Quantity, Received: item.QuantityReceived}
	}
	return StatusInput{
		TotalAmount: d.TotalAmount,
		AmountPaid:  d.AmountPaid,
		Items:       items,
		IsCancelled: d.IsCancelled,
	}
}

// Status derives the composite status.
func (d *Document) Status() (Status, error) {
	return Classify(d.StatusInput())
}

// Outstanding returns the unpaid remainder, never below zero.
func (d *Document) Outstanding() int64 {
	if d.AmountPaid >= d.TotalAmount {
		return 0
	}
	return d.TotalAmount - d.AmountPaid
}

// ApplyPayment adds amount to AmountPaid.
func (d *Document) ApplyPayment(amount int64) error {
	if d.IsCancelled {
		return ErrDocumentCancelled
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > MaxAmount-d.AmountPaid {
		return fmt.Errorf("%w: paid total would exceed %s", ErrAmountTooLarge, FormatMinor(MaxAmount))
	}
	d.AmountPaid += amount
	return nil
}

// ApplyReceipt adds received quantities keyed by line item ID. It is all or
// nothing: on error the document is unchanged.
func (d *Document) ApplyReceipt(quantities map[string]int64) error {
	if d.IsCancelled {
		return ErrDocumentCancelled
	}

	index := make(map[string]int, len(d.Items))
	for i, item := range d.Items {
		index[item.ID] = i
	}

	for id, qty := range quantities {
		i, ok := index[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrLineItemNotFound, id)
		}
		if qty <= 0 {
			return fmt.Errorf("%w: item %s", ErrNegativeQuantity, id)
		}
		item := d.Items[i]
		if qty > item.Quantity-item.QuantityReceived {
			return fmt.Errorf("%w: item %s received %d more of %d, %d already in", ErrOverReceived, id, qty, item.Quantity, item.QuantityReceived)
		}
	}

	for id, qty := range quantities {
		d.Items[index[id]].QuantityReceived += qty
	}
	return nil
}

// Cancel marks the document cancelled. Cancelling twice is a no-op.
func (d *Document) Cancel() {
	d.IsCancelled = true
}

// ItemsTotal sums quantity × unit price over all line items. Totals past
// MaxAmount are rejected before they can overflow.
func (d *Document) ItemsTotal() (int64, error) {
	var total int64
	for _, item := range d.Items {
		if item.Quantity <= 0 || item.UnitPrice <= 0 {
			continue
		}
		if item.UnitPrice > (MaxAmount-total)/item.Quantity {
			return 0, fmt.Errorf("%w: line items total more than %s", ErrAmountTooLarge, FormatMinor(MaxAmount))
		}
		total += item.Quantity * item.UnitPrice
	}
	return total, nil
}
