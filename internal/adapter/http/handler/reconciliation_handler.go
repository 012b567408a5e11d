package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ceodigitcare/bizledger/internal/adapter/http/dto"
	"github.com/ceodigitcare/bizledger/internal/usecase"
)

// ReconciliationService defines the behavior needed by ReconciliationHandler.
type ReconciliationService interface {
	ReconcileAccount(ctx context.Context, tenantID, accountID string) (*usecase.ReconciliationResult, error)
	Reconcile(ctx context.Context, tenantID string, opts usecase.RefreshOptions) (*usecase.RefreshReport, error)
	LastReport(ctx context.Context, tenantID string) (*usecase.RefreshReport, error)
}

// ReconciliationHandler compares and refreshes cached balances.
type ReconciliationHandler struct {
	reconciliationUC ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC}
}

// AccountBalance reports the cached balance next to the computed one.
func (h *ReconciliationHandler) AccountBalance(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	result, err := h.reconciliationUC.ReconcileAccount(r.Context(), tenant, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to compute balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromResult(result))
}

// Run refreshes every account of the tenant. With ?fail_fast=true the run
// stops at the first account that fails and the partial report is written
// with the status of that failure.
func (h *ReconciliationHandler) Run(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	failFast, err := parseBoolQuery(r, "fail_fast")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	report, err := h.reconciliationUC.Reconcile(r.Context(), tenant, usecase.RefreshOptions{FailFast: failFast})
	if err != nil && report != nil && report.Aborted {
		status := mapDomainError(err)
		zerolog.Ctx(r.Context()).Warn().Err(err).Int("status", status).Msg("reconciliation aborted")
		writeJSON(w, status, dto.ReportFromUseCase(report))
		return
	}
	if err != nil {
		writeDomainError(w, r, "failed to reconcile", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromUseCase(report))
}

// Last returns the report of the most recent run.
func (h *ReconciliationHandler) Last(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(w, r)
	if !ok {
		return
	}

	report, err := h.reconciliationUC.LastReport(r.Context(), tenant)
	if err != nil {
		writeDomainError(w, r, "failed to load reconciliation report", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromUseCase(report))
}
