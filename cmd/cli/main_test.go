package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ceodigitcare/bizledger/internal/adapter/http/dto"
	"github.com/ceodigitcare/bizledger/internal/adapter/http/middleware"
)

const cliTenant = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}); err != nil {
		t.Fatalf("printJSON failed: %v", err)
	}

	expected := "{\n  \"a\": 1\n}\n"
	if buf.String() != expected {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}
}

func TestClassifyCmd(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantStatus string
		wantErr    string
	}{
		{
			name:       "partially paid and partially received",
			args:       []string{"classify", "--total", "100", "--paid", "40", "--item", "3:3", "--item", "2:0"},
			wantStatus: "partially_paid_partially_received",
		},
		{
			name:       "draft by default",
			args:       []string{"classify"},
			wantStatus: "draft",
		},
		{
			name:       "cancelled",
			args:       []string{"classify", "--total", "100", "--paid", "100", "--cancelled"},
			wantStatus: "cancelled",
		},
		{
			name:    "over received",
			args:    []string{"classify", "--item", "1:2"},
			wantErr: "received quantity exceeds ordered quantity",
		},
		{
			name:    "malformed item",
			args:    []string{"classify", "--item", "3"},
			wantErr: "ordered:received",
		},
		{
			name:    "fractional cents",
			args:    []string{"classify", "--total", "1.005"},
			wantErr: "fractional cents",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("command failed: %v", err)
			}

			var resp dto.ClassifyResponse
			if err := json.Unmarshal([]byte(out), &resp); err != nil {
				t.Fatalf("invalid output %q: %v", out, err)
			}
			if resp.Status != tt.wantStatus {
				t.Fatalf("expected %s, got %s", tt.wantStatus, resp.Status)
			}
		})
	}
}

func TestBalanceCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/accounts/acc-1/balance" || r.Header.Get(middleware.TenantHeader) != cliTenant {
			t.Errorf("unexpected request %s %s", r.URL.Path, r.Header.Get(middleware.TenantHeader))
		}
		_ = json.NewEncoder(w).Encode(dto.BalanceResponse{
			AccountID:         "acc-1",
			Currency:          "USD",
			RecordedBalance:   dto.NewMoney(100000),
			CalculatedBalance: dto.NewMoney(103000),
			Difference:        dto.NewMoney(3000),
		})
	}))
	defer server.Close()

	out, err := execute(t, "balance", "--url", server.URL, "--tenant", cliTenant, "--account", "acc-1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "Calculated: 1030.00") || !strings.Contains(out, "off by 30.00") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestBalanceCmd_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "failed to compute balance", Message: "account not found"})
	}))
	defer server.Close()

	_, err := execute(t, "balance", "--url", server.URL, "--tenant", cliTenant, "--account", "missing")
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestReconcileCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Query().Get("fail_fast") != "true" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.String())
		}
		_ = json.NewEncoder(w).Encode(dto.ReconciliationReportResponse{
			TenantID:  cliTenant,
			Succeeded: []string{"acc-1", "acc-2"},
			Changed:   []string{"acc-2"},
			Failed:    []dto.RefreshFailureResponse{},
		})
	}))
	defer server.Close()

	out, err := execute(t, "reconcile", "--url", server.URL, "--tenant", cliTenant, "--fail-fast")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "Reconciled 2 account(s)") || !strings.Contains(out, "acc-2") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestReconcileCmd_RejectsBadTenant(t *testing.T) {
	_, err := execute(t, "reconcile", "--tenant", "acme")
	if err == nil || !strings.Contains(err.Error(), "UUID") {
		t.Fatalf("expected tenant validation error, got %v", err)
	}
}

func TestReconcileCmd_PrintsAbortedReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(dto.ReconciliationReportResponse{
			TenantID:  cliTenant,
			Succeeded: []string{"acc-1"},
			Changed:   []string{},
			Failed:    []dto.RefreshFailureResponse{{AccountID: "acc-2", Error: "storage: lock account: timeout"}},
			Aborted:   true,
		})
	}))
	defer server.Close()

	out, err := execute(t, "reconcile", "--url", server.URL, "--tenant", cliTenant, "--fail-fast")
	if err == nil || !strings.Contains(err.Error(), "aborted (status 503)") {
		t.Fatalf("expected aborted error, got %v", err)
	}
	if !strings.Contains(out, "acc-2: storage: lock account: timeout") || !strings.Contains(out, "Run aborted at the first failure") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
