package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// TenantContextKey is the context key for the tenant id.
	TenantContextKey ContextKey = "tenant"

	// TenantHeader carries the tenant id of every API request.
	TenantHeader = "X-Tenant-ID"
)

// Tenant requires a UUID in the X-Tenant-ID header and stores it in the
// request context. The request logger gains a tenant_id field.
func Tenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(TenantHeader)
		if raw == "" {
			writeJSONError(w, http.StatusBadRequest, "missing tenant", TenantHeader+" header is required")
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid tenant", TenantHeader+" must be a UUID")
			return
		}

		tenantID := id.String()
		ctx := WithTenant(r.Context(), tenantID)

		logger := zerolog.Ctx(ctx).With().Str("tenant_id", tenantID).Logger()
		ctx = logger.WithContext(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithTenant returns a copy of ctx carrying tenantID.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, TenantContextKey, tenantID)
}

// TenantFromContext returns the tenant stored by Tenant.
func TenantFromContext(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(TenantContextKey).(string)
	return tenantID, ok && tenantID != ""
}

func writeJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `","message":"` + details + `"}`))
}
