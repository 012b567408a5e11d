package handler

import (
	"net/http"

	"github.com/ceodigitcare/bizledger/internal/adapter/http/dto"
	"github.com/ceodigitcare/bizledger/internal/domain"
)

// StatusObserver is notified of every successful classification.
type StatusObserver interface {
	DocumentClassified(status domain.Status)
}

// StatusHandler exposes the document status classifier without storage.
type StatusHandler struct {
	observer StatusObserver
}

// NewStatusHandler creates a new StatusHandler. observer may be nil.
func NewStatusHandler(observer StatusObserver) *StatusHandler {
	return &StatusHandler{observer: observer}
}

// Classify derives the status of the posted document.
func (h *StatusHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req dto.ClassifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToStatusInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	status, err := domain.Classify(input)
	if err != nil {
		writeDomainError(w, r, "failed to classify document", err)
		return
	}

	if h.observer != nil {
		h.observer.DocumentClassified(status)
	}

	writeJSON(w, http.StatusOK, dto.ClassifyFromInput(input, status))
}

// List returns every status with its label in display order.
func (h *StatusHandler) List(w http.ResponseWriter, r *http.Request) {
	statuses := domain.Statuses()

	resp := make([]dto.ClassifyResponse, len(statuses))
	for i, s := range statuses {
		resp[i] = dto.ClassifyResponse{Status: string(s), Label: s.Label()}
	}

	writeJSON(w, http.StatusOK, map[string]any{"statuses": resp})
}
