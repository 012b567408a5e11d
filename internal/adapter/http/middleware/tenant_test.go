package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTenant(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantTenant string
	}{
		{"missing header", "", http.StatusBadRequest, ""},
		{"not a uuid", "acme", http.StatusBadRequest, ""},
		{"valid uuid is normalized", "6BA7B810-9DAD-11D1-80B4-00C04FD430C8", http.StatusOK, "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = TenantFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
			if tt.header != "" {
				req.Header.Set(TenantHeader, tt.header)
			}
			rr := httptest.NewRecorder()

			Tenant(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rr.Code)
			}
			if got != tt.wantTenant {
				t.Fatalf("expected tenant %q, got %q", tt.wantTenant, got)
			}
		})
	}
}
