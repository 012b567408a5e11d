package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ceodigitcare/bizledger/internal/adapter/http/dto"
	"github.com/ceodigitcare/bizledger/internal/adapter/http/middleware"
	"github.com/ceodigitcare/bizledger/internal/domain"
	"github.com/ceodigitcare/bizledger/internal/usecase"
)

const testTenant = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

// withTenant builds a request that already passed middleware.Tenant.
func withTenant(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithTenant(req.Context(), testTenant))
}

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/documents?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/documents?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestParseBoolQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/reconciliation?fail_fast=true", nil)
	if got, err := parseBoolQuery(req, "fail_fast"); err != nil || !got {
		t.Fatalf("expected true, got %v (%v)", got, err)
	}

	req = httptest.NewRequest(http.MethodPost, "/reconciliation?fail_fast=maybe", nil)
	if _, err := parseBoolQuery(req, "fail_fast"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"document not found", fmt.Errorf("get: %w", domain.ErrDocumentNotFound), http.StatusNotFound},
		{"no report", usecase.ErrNoReport, http.StatusNotFound},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"over received", domain.ErrOverReceived, http.StatusBadRequest},
		{"storage", domain.NewStorageError("list accounts", errors.New("conn reset")), http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteDomainError_HidesStorageDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)

	writeDomainError(rr, req, "failed to list accounts", domain.NewStorageError("list accounts", errors.New("password=secret")))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error != "failed to list accounts" || strings.Contains(resp.Message, "secret") {
		t.Fatalf("unexpected error response %+v", resp)
	}
}

func TestTenantID_Missing(t *testing.T) {
	rr := httptest.NewRecorder()
	if _, ok := tenantID(rr, httptest.NewRequest(http.MethodGet, "/accounts", nil)); ok {
		t.Fatalf("expected tenant lookup to fail")
	}
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
