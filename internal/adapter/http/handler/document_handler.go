package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ceodigitcare/bizledger/internal/adapter/http/dto"
	"github.com/ceodigitcare/bizledger/internal/domain"
	"github.com/ceodigitcare/bizledger/internal/usecase"
)

// DocumentService defines the behavior needed by DocumentHandler.
type DocumentService interface {
	CreateDocument(ctx context.Context, input usecase.CreateDocumentInput) (*usecase.DocumentView, error)
	GetDocument(ctx context.Context, tenantID, id string) (*usecase.DocumentView, error)
	ListDocuments(ctx context.Context, input usecase.ListDocumentsInput) ([]*usecase.DocumentView, error)
	RecordPayment(ctx context.Context, tenantID, id string, amount int64) (*usecase.DocumentView, error)
	RecordReceipt(ctx context.Context, tenantID, id string, quantities map[string]int64) (*usecase.DocumentView, error)
	CancelDocument(ctx context.Context, tenantID, id string) (*usecase.DocumentView, error)
}

// DocumentHandler handles purchase bills and sales invoices.
type DocumentHandler struct {
	documentUC DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentUC DocumentService) *DocumentHandler {
	return &DocumentHandler{documentUC: documentUC}
}

// Create creates a document.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	var req dto.CreateDocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(tenant)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	view, err := h.documentUC.CreateDocument(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to create document", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.DocumentFromView(view))
}

// Get retrieves a document with its derived status.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	view, err := h.documentUC.GetDocument(r.Context(), tenant, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get document", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DocumentFromView(view))
}

// List lists documents, optionally filtered by ?kind=.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	var kind domain.DocumentKind
	if raw := r.URL.Query().Get("kind"); raw != "" {
		parsed, err := domain.ParseDocumentKind(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid kind", err.Error())
			return
		}
		kind = parsed
	}

	views, err := h.documentUC.ListDocuments(r.Context(), usecase.ListDocumentsInput{
		TenantID: tenant,
		Kind:     kind,
		Limit:    parseIntQuery(r, "limit", 0),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list documents", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListDocumentsResponse{
		Documents: dto.DocumentsFromViews(views),
		Total:     int64(len(views)),
	})
}

// Payment adds a payment to a document.
func (h *DocumentHandler) Payment(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, err := req.ToMinor()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	view, err := h.documentUC.RecordPayment(r.Context(), tenant, chi.URLParam(r, "id"), amount)
	if err != nil {
		writeDomainError(w, r, "failed to record payment", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DocumentFromView(view))
}

// Receipt adds received (or delivered) quantities to line items.
func (h *DocumentHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	var req dto.RecordReceiptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.documentUC.RecordReceipt(r.Context(), tenant, chi.URLParam(r, "id"), req.Quantities)
	if err != nil {
		writeDomainError(w, r, "failed to record receipt", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DocumentFromView(view))
}

// Cancel cancels a document. Cancelling twice is not an error.
func (h *DocumentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	view, err := h.documentUC.CancelDocument(r.Context(), tenant, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to cancel document", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DocumentFromView(view))
}
