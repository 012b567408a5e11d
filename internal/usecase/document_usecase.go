package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ceodigitcare/bizledger/internal/domain"
)

// DocumentUseCase manages purchase bills and sales invoices. A document's
// status is never stored; it is classified from payment and fulfillment
// progress every time the document is read or changed.
type DocumentUseCase struct {
	txManager    TransactionManager
	documentRepo DocumentRepository
	outboxRepo   OutboxRepository
	retrier      Retrier
	idGen        IDGenerator
	metrics      Metrics
}

// NewDocumentUseCase creates a new DocumentUseCase. outboxRepo, retrier and
// metrics may be nil.
func NewDocumentUseCase(
	txManager TransactionManager,
	documentRepo DocumentRepository,
	outboxRepo OutboxRepository,
	retrier Retrier,
	idGen IDGenerator,
	metrics Metrics,
) *DocumentUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &DocumentUseCase{
		txManager:    txManager,
		documentRepo: documentRepo,
		outboxRepo:   outboxRepo,
		retrier:      retrier,
		idGen:        idGen,
		metrics:      metrics,
	}
}

// DocumentView is a document together with its derived status.
type DocumentView struct {
	Document *domain.Document
	Status   domain.Status
}

// LineItemInput describes one ordered line of a new document.
type LineItemInput struct {
	Description      string
	Quantity         int64
	QuantityReceived int64
	UnitPrice        int64
}

// CreateDocumentInput represents input for creating a document. A zero
// TotalAmount defaults to the sum of the line items.
type CreateDocumentInput struct {
	TenantID     string
	Kind         domain.DocumentKind
	Number       string
	Counterparty string
	TotalAmount  int64
	AmountPaid   int64
	Items        []LineItemInput
}

// CreateDocument validates and stores a new document.
func (uc *DocumentUseCase) CreateDocument(ctx context.Context, input CreateDocumentInput) (*DocumentView, error) {
	if input.TenantID == "" {
		return nil, domain.ErrInvalidTenantID
	}

	now := time.Now().UTC()

	document := &domain.Document{
		ID:           uc.idGen.Generate(),
		TenantID:     input.TenantID,
		Kind:         input.Kind,
		Number:       strings.TrimSpace(input.Number),
		Counterparty: strings.TrimSpace(input.Counterparty),
		TotalAmount:  input.TotalAmount,
		AmountPaid:   input.AmountPaid,
		Items:        make([]domain.LineItem, 0, len(input.Items)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for _, item := range input.Items {
		document.Items = append(document.Items, domain.LineItem{
			ID:               uc.idGen.Generate(),
			Description:      item.Description,
			Quantity:         item.Quantity,
			QuantityReceived: item.QuantityReceived,
			UnitPrice:        item.UnitPrice,
		})
	}

	if document.TotalAmount == 0 {
		total, err := document.ItemsTotal()
		if err != nil {
			return nil, err
		}
		document.TotalAmount = total
	}

	if err := document.Validate(); err != nil {
		return nil, err
	}
	if document.TotalAmount > domain.MaxAmount || document.AmountPaid > domain.MaxAmount {
		return nil, domain.ErrAmountTooLarge
	}

	status, err := document.Status()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.documentRepo.CreateTx(ctx, tx, document); err != nil {
		return nil, err
	}

	event := newOutboxEvent(uc.idGen, document.TenantID, domain.AggregateTypeDocument, document.ID,
		domain.EventTypeDocumentCreated, domain.DocumentStatusChangedEvent{
			DocumentID: document.ID,
			Kind:       string(document.Kind),
			Number:     document.Number,
			To:         string(status),
		}, now)
	if err := writeOutbox(ctx, uc.outboxRepo, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.metrics.DocumentClassified(status)

	return &DocumentView{Document: document, Status: status}, nil
}

// GetDocument retrieves a document and classifies it.
func (uc *DocumentUseCase) GetDocument(ctx context.Context, tenantID, id string) (*DocumentView, error) {
	if err := requireDocumentScope(tenantID, id); err != nil {
		return nil, err
	}

	document, err := uc.documentRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	return classify(document)
}

// ListDocumentsInput represents input for listing documents. An empty Kind lists both kinds.
type ListDocumentsInput struct {
	TenantID string
	Kind     domain.DocumentKind
	Limit    int
	Offset   int
}

// ListDocuments lists documents newest first, each with its status.
func (uc *DocumentUseCase) ListDocuments(ctx context.Context, input ListDocumentsInput) ([]*DocumentView, error) {
	if input.TenantID == "" {
		return nil, domain.ErrInvalidTenantID
	}
	if input.Kind != "" && !input.Kind.IsValid() {
		return nil, domain.ErrInvalidDocumentKind
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	documents, err := uc.documentRepo.List(ctx, input.TenantID, input.Kind, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]*DocumentView, 0, len(documents))
	for _, document := range documents {
		view, err := classify(document)
		if err != nil {
			return nil, fmt.Errorf("classify document %s: %w", document.ID, err)
		}
		views = append(views, view)
	}

	return views, nil
}

// RecordPayment adds amount to the document's paid amount.
func (uc *DocumentUseCase) RecordPayment(ctx context.Context, tenantID, id string, amount int64) (*DocumentView, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	return uc.mutate(ctx, tenantID, id, func(document *domain.Document) error {
		return document.ApplyPayment(amount)
	})
}

// RecordReceipt adds received (or, for invoices, fulfilled) quantities keyed by line item ID.
func (uc *DocumentUseCase) RecordReceipt(ctx context.Context, tenantID, id string, quantities map[string]int64) (*DocumentView, error) {
	if len(quantities) == 0 {
		return nil, fmt.Errorf("%w: no quantities given", domain.ErrInvalidDocumentInput)
	}

	return uc.mutate(ctx, tenantID, id, func(document *domain.Document) error {
		return document.ApplyReceipt(quantities)
	})
}

// CancelDocument cancels a document. Cancelling a cancelled document succeeds.
func (uc *DocumentUseCase) CancelDocument(ctx context.Context, tenantID, id string) (*DocumentView, error) {
	return uc.mutate(ctx, tenantID, id, func(document *domain.Document) error {
		document.Cancel()
		return nil
	})
}

// mutate applies change to a locked document and writes a status_changed
// event when the derived status moves.
func (uc *DocumentUseCase) mutate(
	ctx context.Context,
	tenantID, id string,
	change func(*domain.Document) error,
) (*DocumentView, error) {
	if err := requireDocumentScope(tenantID, id); err != nil {
		return nil, err
	}

	var (
		view    *DocumentView
		changed bool
	)

	operation := func() error {
		v, c, err := uc.mutateOnce(ctx, tenantID, id, change)
		if err != nil {
			return err
		}
		view, changed = v, c
		return nil
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}
	if err != nil {
		return nil, err
	}

	if changed {
		uc.metrics.DocumentClassified(view.Status)
		zerolog.Ctx(ctx).Info().
			Str("document_id", id).
			Str("status", string(view.Status)).
			Msg("document status changed")
	}

	return view, nil
}

func (uc *DocumentUseCase) mutateOnce(
	ctx context.Context,
	tenantID, id string,
	change func(*domain.Document) error,
) (*DocumentView, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	document, err := uc.documentRepo.GetByIDForUpdate(ctx, tx, tenantID, id)
	if err != nil {
		return nil, false, err
	}

	before, err := document.Status()
	if err != nil {
		return nil, false, err
	}

	if err := change(document); err != nil {
		return nil, false, err
	}

	after, err := document.Status()
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	document.UpdatedAt = now

	if err := uc.documentRepo.UpdateProgressTx(ctx, tx, document); err != nil {
		return nil, false, err
	}

	if before != after {
		event := newOutboxEvent(uc.idGen, tenantID, domain.AggregateTypeDocument, id,
			domain.EventTypeDocumentStatusChanged, domain.DocumentStatusChangedEvent{
				DocumentID: id,
				Kind:       string(document.Kind),
				Number:     document.Number,
				From:       string(before),
				To:         string(after),
			}, now)
		if err := writeOutbox(ctx, uc.outboxRepo, tx, event); err != nil {
			return nil, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}

	return &DocumentView{Document: document, Status: after}, before != after, nil
}

func classify(document *domain.Document) (*DocumentView, error) {
	status, err := document.Status()
	if err != nil {
		return nil, err
	}
	return &DocumentView{Document: document, Status: status}, nil
}

func requireDocumentScope(tenantID, id string) error {
	if tenantID == "" {
		return domain.ErrInvalidTenantID
	}
	if id == "" {
		return fmt.Errorf("%w: document id is required", domain.ErrInvalidDocumentInput)
	}
	return nil
}
