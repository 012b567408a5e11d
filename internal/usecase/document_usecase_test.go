package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ceodigitcare/bizledger/internal/domain"
	"github.com/ceodigitcare/bizledger/internal/usecase"
)

func (f *fixture) documentUseCase(metrics usecase.Metrics) *usecase.DocumentUseCase {
	return usecase.NewDocumentUseCase(f.txManager, f.documents, f.outbox, f.retrier, f.idGen, metrics)
}

func bill() *domain.Document {
	return &domain.Document{
		ID:          "doc-1",
		TenantID:    tenantID,
		Kind:        domain.DocumentPurchaseBill,
		Number:      "BILL-001",
		TotalAmount: 10000,
		Items: []domain.LineItem{
			{ID: "item-1", Quantity: 3, UnitPrice: 2000},
			{ID: "item-2", Quantity: 2, UnitPrice: 2000},
		},
	}
}

func TestDocumentUseCase_CreateDocument(t *testing.T) {
	f := newFixture(t)
	f.expectTx(true)
	f.documents.EXPECT().CreateTx(gomock.Any(), f.tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ usecase.Transaction, doc *domain.Document) error {
			assert.Len(t, doc.Items, 2)
			assert.Equal(t, int64(7000), doc.TotalAmount)
			return nil
		})
	f.outbox.EXPECT().Create(gomock.Any(), f.tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ usecase.Transaction, event *domain.OutboxEvent) error {
			assert.Equal(t, domain.EventTypeDocumentCreated, event.EventType)
			assert.Equal(t, string(domain.StatusPartiallyPaid), event.Payload["to"])
			return nil
		})
	f.metrics.EXPECT().DocumentClassified(domain.StatusPartiallyPaid)

	view, err := f.documentUseCase(f.metrics).CreateDocument(context.Background(), usecase.CreateDocumentInput{
		TenantID:   tenantID,
		Kind:       domain.DocumentSalesInvoice,
		Number:     " INV-7 ",
		AmountPaid: 1000,
		Items: []usecase.LineItemInput{
			{Description: "Widget", Quantity: 2, UnitPrice: 2500},
			{Description: "Shipping", Quantity: 1, UnitPrice: 2000},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPartiallyPaid, view.Status)
	assert.Equal(t, "INV-7", view.Document.Number)
}

func TestDocumentUseCase_CreateDocument_Validation(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateDocumentInput
		expectError error
	}{
		{
			name:        "unknown kind",
			input:       usecase.CreateDocumentInput{TenantID: tenantID, Kind: "quote", Number: "Q-1", Items: []usecase.LineItemInput{{Quantity: 1}}},
			expectError: domain.ErrInvalidDocumentKind,
		},
		{
			name:        "no items",
			input:       usecase.CreateDocumentInput{TenantID: tenantID, Kind: domain.DocumentPurchaseBill, Number: "B-1"},
			expectError: domain.ErrInvalidDocumentInput,
		},
		{
			name: "received more than ordered",
			input: usecase.CreateDocumentInput{
				TenantID: tenantID, Kind: domain.DocumentPurchaseBill, Number: "B-1",
				Items: []usecase.LineItemInput{{Quantity: 1, QuantityReceived: 2, UnitPrice: 10}},
			},
			expectError: domain.ErrOverReceived,
		},
		{
			name: "negative payment",
			input: usecase.CreateDocumentInput{
				TenantID: tenantID, Kind: domain.DocumentPurchaseBill, Number: "B-1", AmountPaid: -1,
				Items: []usecase.LineItemInput{{Quantity: 1, UnitPrice: 10}},
			},
			expectError: domain.ErrNegativeAmount,
		},
		{
			name: "line items total past the maximum",
			input: usecase.CreateDocumentInput{
				TenantID: tenantID, Kind: domain.DocumentPurchaseBill, Number: "B-1",
				Items: []usecase.LineItemInput{{Quantity: domain.MaxQuantity, UnitPrice: domain.MaxAmount}},
			},
			expectError: domain.ErrAmountTooLarge,
		},
		{
			name: "quantities past the maximum",
			input: usecase.CreateDocumentInput{
				TenantID: tenantID, Kind: domain.DocumentPurchaseBill, Number: "B-1", TotalAmount: 100,
				Items: []usecase.LineItemInput{{Quantity: domain.MaxQuantity + 1, UnitPrice: 0}},
			},
			expectError: domain.ErrQuantityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.documentUseCase(nil).CreateDocument(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.expectError)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestDocumentUseCase_GetDocument(t *testing.T) {
	f := newFixture(t)

	doc := bill()
	doc.AmountPaid = 10000
	doc.Items[0].QuantityReceived = 3
	f.documents.EXPECT().GetByID(gomock.Any(), tenantID, "doc-1").Return(doc, nil)
	f.documents.EXPECT().GetByID(gomock.Any(), tenantID, "missing").Return(nil, domain.ErrDocumentNotFound)

	uc := f.documentUseCase(nil)

	view, err := uc.GetDocument(context.Background(), tenantID, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaidPartiallyReceived, view.Status)

	_, err = uc.GetDocument(context.Background(), tenantID, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentUseCase_ListDocuments(t *testing.T) {
	f := newFixture(t)

	cancelled := bill()
	cancelled.ID = "doc-2"
	cancelled.IsCancelled = true
	f.documents.EXPECT().
		List(gomock.Any(), tenantID, domain.DocumentPurchaseBill, 50, 0).
		Return([]*domain.Document{bill(), cancelled}, nil)

	views, err := f.documentUseCase(nil).ListDocuments(context.Background(), usecase.ListDocumentsInput{
		TenantID: tenantID,
		Kind:     domain.DocumentPurchaseBill,
	})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, domain.StatusDraft, views[0].Status)
	assert.Equal(t, domain.StatusCancelled, views[1].Status)
}

func TestDocumentUseCase_RecordPayment_StatusChange(t *testing.T) {
	f := newFixture(t)
	f.expectTx(true)
	f.documents.EXPECT().GetByIDForUpdate(gomock.Any(), f.tx, tenantID, "doc-1").Return(bill(), nil)
	f.documents.EXPECT().UpdateProgressTx(gomock.Any(), f.tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ usecase.Transaction, doc *domain.Document) error {
			assert.Equal(t, int64(4000), doc.AmountPaid)
			return nil
		})
	f.outbox.EXPECT().Create(gomock.Any(), f.tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ usecase.Transaction, event *domain.OutboxEvent) error {
			assert.Equal(t, domain.EventTypeDocumentStatusChanged, event.EventType)
			assert.Equal(t, string(domain.StatusDraft), event.Payload["from"])
			assert.Equal(t, string(domain.StatusPartiallyPaid), event.Payload["to"])
			return nil
		})
	f.metrics.EXPECT().DocumentClassified(domain.StatusPartiallyPaid)

	view, err := f.documentUseCase(f.metrics).RecordPayment(context.Background(), tenantID, "doc-1", 4000)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartiallyPaid, view.Status)
}

func TestDocumentUseCase_RecordPayment_SameStatusWritesNoEvent(t *testing.T) {
	f := newFixture(t)
	f.expectTx(true)

	doc := bill()
	doc.AmountPaid = 1000
	f.documents.EXPECT().GetByIDForUpdate(gomock.Any(), f.tx, tenantID, "doc-1").Return(doc, nil)
	f.documents.EXPECT().UpdateProgressTx(gomock.Any(), f.tx, gomock.Any()).Return(nil)

	view, err := f.documentUseCase(f.metrics).RecordPayment(context.Background(), tenantID, "doc-1", 1000)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartiallyPaid, view.Status)
	assert.Equal(t, int64(2000), view.Document.AmountPaid)
}

func TestDocumentUseCase_RecordPayment_Rejected(t *testing.T) {
	t.Run("non-positive amount", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.documentUseCase(nil).RecordPayment(context.Background(), tenantID, "doc-1", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("cancelled document", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx(false)

		doc := bill()
		doc.IsCancelled = true
		f.documents.EXPECT().GetByIDForUpdate(gomock.Any(), f.tx, tenantID, "doc-1").Return(doc, nil)

		_, err := f.documentUseCase(nil).RecordPayment(context.Background(), tenantID, "doc-1", 100)
		assert.ErrorIs(t, err, domain.ErrDocumentCancelled)
	})
}

func TestDocumentUseCase_RecordReceipt(t *testing.T) {
	t.Run("full receipt", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx(true)

		doc := bill()
		doc.AmountPaid = 10000
		f.documents.EXPECT().GetByIDForUpdate(gomock.Any(), f.tx, tenantID, "doc-1").Return(doc, nil)
		f.documents.EXPECT().UpdateProgressTx(gomock.Any(), f.tx, gomock.Any()).Return(nil)
		f.outbox.EXPECT().Create(gomock.Any(), f.tx, gomock.Any()).Return(nil)

		view, err := f.documentUseCase(nil).RecordReceipt(context.Background(), tenantID, "doc-1", map[string]int64{
			"item-1": 3,
			"item-2": 2,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPaidReceived, view.Status)
	})

	t.Run("over receipt is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.expectTx(false)
		f.documents.EXPECT().GetByIDForUpdate(gomock.Any(), f.tx, tenantID, "doc-1").Return(bill(), nil)

		_, err := f.documentUseCase(nil).RecordReceipt(context.Background(), tenantID, "doc-1", map[string]int64{"item-2": 3})
		assert.ErrorIs(t, err, domain.ErrOverReceived)
	})

	t.Run("empty receipt", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.documentUseCase(nil).RecordReceipt(context.Background(), tenantID, "doc-1", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidDocumentInput)
	})
}

func TestDocumentUseCase_CancelDocument(t *testing.T) {
	f := newFixture(t)
	f.expectTx(true)
	f.expectTx(true)

	doc := bill()
	doc.AmountPaid = 10000
	f.documents.EXPECT().GetByIDForUpdate(gomock.Any(), f.tx, tenantID, "doc-1").Return(doc, nil).Times(2)
	f.documents.EXPECT().UpdateProgressTx(gomock.Any(), f.tx, gomock.Any()).Return(nil).Times(2)
	// only the first cancellation changes the status
	f.outbox.EXPECT().Create(gomock.Any(), f.tx, gomock.Any()).Return(nil)

	uc := f.documentUseCase(nil)

	view, err := uc.CancelDocument(context.Background(), tenantID, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, view.Status)

	view, err = uc.CancelDocument(context.Background(), tenantID, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, view.Status)
}
