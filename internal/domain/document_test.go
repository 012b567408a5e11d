package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func newBill() *Document {
	return &Document{
		ID:          "doc-1",
		Kind:        DocumentPurchaseBill,
		Number:      "BILL-001",
		TotalAmount: 10000,
		Items: []LineItem{
			{ID: "item-1", Quantity: 3, UnitPrice: 2000},
			{ID: "item-2", Quantity: 2, UnitPrice: 2000},
		},
	}
}

func TestDocument_Validate(t *testing.T) {
	if err := newBill().Validate(); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}

	noItems := newBill()
	noItems.Items = nil
	if err := noItems.Validate(); !errors.Is(err, ErrInvalidDocumentInput) {
		t.Fatalf("expected ErrInvalidDocumentInput, got %v", err)
	}

	badKind := newBill()
	badKind.Kind = "quote"
	if err := badKind.Validate(); !errors.Is(err, ErrInvalidDocumentKind) {
		t.Fatalf("expected ErrInvalidDocumentKind, got %v", err)
	}

	overReceived := newBill()
	overReceived.Items[0].QuantityReceived = 4
	if err := overReceived.Validate(); !errors.Is(err, ErrOverReceived) {
		t.Fatalf("expected ErrOverReceived, got %v", err)
	}
}

func TestDocument_Lifecycle(t *testing.T) {
	doc := newBill()

	assertStatus := func(want Status) {
		t.Helper()
		got, err := doc.Status()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}

	assertStatus(StatusDraft)

	if err := doc.ApplyPayment(4000); err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	assertStatus(StatusPartiallyPaid)

	if err := doc.ApplyReceipt(map[string]int64{"item-1": 3}); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}
	assertStatus(StatusPartiallyPaidPartiallyReceived)

	if err := doc.ApplyPayment(6000); err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	if err := doc.ApplyReceipt(map[string]int64{"item-2": 2}); err != nil {
		t.Fatalf("receipt failed: %v", err)
	}
	assertStatus(StatusPaidReceived)

	if doc.Outstanding() != 0 {
		t.Fatalf("expected nothing outstanding, got %d", doc.Outstanding())
	}

	doc.Cancel()
	doc.Cancel()
	assertStatus(StatusCancelled)

	if err := doc.ApplyPayment(1); !errors.Is(err, ErrDocumentCancelled) {
		t.Fatalf("expected ErrDocumentCancelled, got %v", err)
	}
}

func TestDocument_ApplyReceiptIsAtomic(t *testing.T) {
	doc := newBill()

	err := doc.ApplyReceipt(map[string]int64{"item-1": 1, "item-2": 5})
	if !errors.Is(err, ErrOverReceived) {
		t.Fatalf("expected ErrOverReceived, got %v", err)
	}

	for _, item := range doc.Items {
		if item.QuantityReceived != 0 {
			t.Fatalf("expected no partial application, item %s has %d", item.ID, item.QuantityReceived)
		}
	}

	if err := doc.ApplyReceipt(map[string]int64{"missing": 1}); !errors.Is(err, ErrLineItemNotFound) {
		t.Fatalf("expected ErrLineItemNotFound, got %v", err)
	}
}

func TestDocument_ApplyPaymentRejectsNonPositive(t *testing.T) {
	doc := newBill()
	if err := doc.ApplyPayment(0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if doc.AmountPaid != 0 {
		t.Fatalf("expected amount paid unchanged, got %d", doc.AmountPaid)
	}
}

func TestDocument_ApplyPaymentCapsPaidTotal(t *testing.T) {
	doc := newBill()
	doc.AmountPaid = MaxAmount - 100

	if err := doc.ApplyPayment(101); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
	if doc.AmountPaid != MaxAmount-100 {
		t.Fatalf("expected amount paid unchanged, got %d", doc.AmountPaid)
	}

	if err := doc.ApplyPayment(100); err != nil {
		t.Fatalf("payment up to the maximum should succeed: %v", err)
	}
	if doc.AmountPaid != MaxAmount {
		t.Fatalf("expected %d, got %d", MaxAmount, doc.AmountPaid)
	}
}

func TestDocument_ApplyReceiptRejectsHugeQuantity(t *testing.T) {
	doc := newBill()
	doc.Items[0].QuantityReceived = 1

	err := doc.ApplyReceipt(map[string]int64{doc.Items[0].ID: math.MaxInt64})
	if !errors.Is(err, ErrOverReceived) {
		t.Fatalf("expected ErrOverReceived, got %v", err)
	}
	if doc.Items[0].QuantityReceived != 1 {
		t.Fatalf("expected received quantity unchanged, got %d", doc.Items[0].QuantityReceived)
	}
}

func TestDocument_ItemsTotal(t *testing.T) {
	got, err := newBill().ItemsTotal()
	if err != nil || got != 10000 {
		t.Fatalf("expected 10000, got %d err=%v", got, err)
	}

	huge := newBill()
	huge.Items[0].Quantity = MaxQuantity
	huge.Items[0].UnitPrice = MaxAmount
	if _, err := huge.ItemsTotal(); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestMoneyConversion(t *testing.T) {
	if got := FormatMinor(103000); got != "1030.00" {
		t.Fatalf("expected 1030.00, got %s", got)
	}
	if got := FormatMinor(-5); got != "-0.05" {
		t.Fatalf("expected -0.05, got %s", got)
	}

	cents, err := FromMajorUnits(decimal.RequireFromString("12.34"))
	if err != nil || cents != 1234 {
		t.Fatalf("expected 1234, got %d err=%v", cents, err)
	}

	if _, err := FromMajorUnits(decimal.RequireFromString("0.001")); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for fractional cents, got %v", err)
	}

	if !ToMajorUnits(1999).Equal(decimal.RequireFromString("19.99")) {
		t.Fatalf("expected 19.99, got %s", ToMajorUnits(1999))
	}
}

func TestStorageError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStorageError("sum transactions", cause)

	if !errors.Is(err, ErrStorage) {
		t.Fatal("expected storage error to match ErrStorage")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected storage error to unwrap to cause")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("storage error must not match ErrNotFound")
	}
	if NewStorageError("noop", nil) != nil {
		t.Fatal("expected nil for nil cause")
	}
}
