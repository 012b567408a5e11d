package postgres

import (
	"context"
	"fmt"

	"github.com/ceodigitcare/bizledger/internal/domain"
	"github.com/ceodigitcare/bizledger/internal/infrastructure/postgres/generated"
	"github.com/ceodigitcare/bizledger/internal/usecase"
)

// DocumentRepository implements usecase.DocumentRepository. Line items are
// stored in document_items and always loaded with their document.
type DocumentRepository struct {
	queries *generated.Queries
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(db generated.DBTX) *DocumentRepository {
	return &DocumentRepository{
		queries: generated.New(db),
	}
}

// CreateTx stores a document and its line items.
func (r *DocumentRepository) CreateTx(ctx context.Context, tx usecase.Transaction, document *domain.Document) error {
	queries := queriesFor(tx)

	err := queries.CreateDocument(ctx, generated.CreateDocumentParams{
		ID:           document.ID,
		TenantID:     document.TenantID,
		Kind:         string(document.Kind),
		Number:       document.Number,
		Counterparty: document.Counterparty,
		TotalAmount:  document.TotalAmount,
		AmountPaid:   document.AmountPaid,
		IsCancelled:  document.IsCancelled,
		CreatedAt:    timeToPgTimestamptz(document.CreatedAt),
		UpdatedAt:    timeToPgTimestamptz(document.UpdatedAt),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s %s already exists", domain.ErrInvalidDocumentInput, document.Kind, document.Number)
		}
		return domain.NewStorageError("create document", err)
	}

	for i, item := range document.Items {
		err := queries.CreateDocumentItem(ctx, generated.CreateDocumentItemParams{
			ID:               item.ID,
			DocumentID:       document.ID,
			Position:         int32(i),
			Description:      item.Description,
			Quantity:         item.Quantity,
			QuantityReceived: item.QuantityReceived,
			UnitPrice:        item.UnitPrice,
		})
		if err != nil {
			return domain.NewStorageError("create document item", err)
		}
	}

	return nil
}

// GetByID retrieves a document with its line items.
func (r *DocumentRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Document, error) {
	row, err := r.queries.GetDocumentByID(ctx, generated.GetDocumentByIDParams{TenantID: tenantID, ID: id})
	if err != nil {
		return nil, lookupError("get document", err, domain.ErrDocumentNotFound)
	}

	return r.withItems(ctx, r.queries, row)
}

// GetByIDForUpdate locks the document row for the rest of tx.
func (r *DocumentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, tenantID, id string) (*domain.Document, error) {
	queries := queriesFor(tx)

	row, err := queries.GetDocumentByIDForUpdate(ctx, generated.GetDocumentByIDForUpdateParams{TenantID: tenantID, ID: id})
	if err != nil {
		return nil, lookupError("lock document", err, domain.ErrDocumentNotFound)
	}

	return r.withItems(ctx, queries, row)
}

// List lists documents newest first. An empty kind matches both kinds.
func (r *DocumentRepository) List(ctx context.Context, tenantID string, kind domain.DocumentKind, limit, offset int) ([]*domain.Document, error) {
	rows, err := r.queries.ListDocuments(ctx, generated.ListDocumentsParams{
		TenantID:    tenantID,
		Kind:        string(kind),
		LimitCount:  int32(limit),
		OffsetCount: int32(offset),
	})
	if err != nil {
		return nil, domain.NewStorageError("list documents", err)
	}
	if len(rows) == 0 {
		return []*domain.Document{}, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	itemRows, err := r.queries.ListDocumentItems(ctx, ids)
	if err != nil {
		return nil, domain.NewStorageError("list document items", err)
	}

	byDocument := make(map[string][]domain.LineItem, len(rows))
	for _, item := range itemRows {
		byDocument[item.DocumentID] = append(byDocument[item.DocumentID], rowToLineItem(item))
	}

	documents := make([]*domain.Document, 0, len(rows))
	for _, row := range rows {
		documents = append(documents, rowToDocument(row, byDocument[row.ID]))
	}

	return documents, nil
}

// UpdateProgressTx writes the paid amount, the cancel flag and every item's received quantity.
func (r *DocumentRepository) UpdateProgressTx(ctx context.Context, tx usecase.Transaction, document *domain.Document) error {
	queries := queriesFor(tx)

	affected, err := queries.UpdateDocumentProgress(ctx, generated.UpdateDocumentProgressParams{
		TenantID:    document.TenantID,
		ID:          document.ID,
		AmountPaid:  document.AmountPaid,
		IsCancelled: document.IsCancelled,
		UpdatedAt:   timeToPgTimestamptz(document.UpdatedAt),
	})
	if err != nil {
		return domain.NewStorageError("update document", err)
	}
	if affected == 0 {
		return domain.ErrDocumentNotFound
	}

	for _, item := range document.Items {
		affected, err := queries.UpdateDocumentItemReceived(ctx, generated.UpdateDocumentItemReceivedParams{
			DocumentID:       document.ID,
			ID:               item.ID,
			QuantityReceived: item.QuantityReceived,
		})
		if err != nil {
			return domain.NewStorageError("update document item", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", domain.ErrLineItemNotFound, item.ID)
		}
	}

	return nil
}

func (r *DocumentRepository) withItems(ctx context.Context, queries *generated.Queries, row generated.Document) (*domain.Document, error) {
	itemRows, err := queries.ListDocumentItems(ctx, []string{row.ID})
	if err != nil {
		return nil, domain.NewStorageError("list document items", err)
	}

	items := make([]domain.LineItem, 0, len(itemRows))
	for _, item := range itemRows {
		items = append(items, rowToLineItem(item))
	}

	return rowToDocument(row, items), nil
}

func rowToDocument(row generated.Document, items []domain.LineItem) *domain.Document {
	if items == nil {
		items = []domain.LineItem{}
	}
	return &domain.Document{
		ID:           row.ID,
		TenantID:     row.TenantID,
		Kind:         domain.DocumentKind(row.Kind),
		Number:       row.Number,
		Counterparty: row.Counterparty,
		TotalAmount:  row.TotalAmount,
		AmountPaid:   row.AmountPaid,
		IsCancelled:  row.IsCancelled,
		Items:        items,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}

func rowToLineItem(row generated.DocumentItem) domain.LineItem {
	return domain.LineItem{
		ID:               row.ID,
		Description:      row.Description,
		Quantity:         row.Quantity,
		QuantityReceived: row.QuantityReceived,
		UnitPrice:        row.UnitPrice,
	}
}
