package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ceodigitcare/bizledger/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"

	defaultIdempotencyTTL = 24 * time.Hour
)

// IdempotencyMiddleware replays the stored response of a POST that carried
// an already used Idempotency-Key. Keys are scoped by tenant, method and path.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A
// non-positive ttl means 24 hours.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		key = scopedKey(r, key)

		ctx := r.Context()
		logger := zerolog.Ctx(ctx)

		reserved, cached, err := m.store.Reserve(ctx, key, m.ttl)
		if err != nil {
			logger.Error().Err(err).Msg("idempotency reserve failed")
			writeJSONError(w, http.StatusServiceUnavailable, "idempotency check failed", "")
			return
		}

		if !reserved {
			if cached == nil {
				writeJSONError(w, http.StatusConflict, "request in progress", "a request with this idempotency key is still running")
				return
			}
			replay(w, cached)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}

		// A panicking handler must not leave the key pending until the TTL runs out.
		finished := false
		defer func() {
			if finished {
				return
			}
			if err := m.store.Release(context.WithoutCancel(ctx), key); err != nil {
				logger.Warn().Err(err).Msg("idempotency release failed")
			}
		}()

		next.ServeHTTP(recorder, r)
		finished = true

		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			if err := m.store.Release(ctx, key); err != nil {
				logger.Warn().Err(err).Msg("idempotency release failed")
			}
			return
		}

		body := recorder.body.Bytes()
		if len(body) == 0 {
			body = []byte("null")
		}

		data, err := json.Marshal(storedResponse{Status: recorder.statusCode, Body: body})
		if err == nil {
			err = m.store.Complete(ctx, key, data, m.ttl)
		}
		if err != nil {
			logger.Warn().Err(err).Msg("idempotency complete failed")
		}
	})
}

// scopedKey prefixes key with the tenant and endpoint, so the same key sent to
// another endpoint or by another tenant is a different request.
func scopedKey(r *http.Request, key string) string {
	scope := r.Method + " " + r.URL.Path
	if tenantID, ok := TenantFromContext(r.Context()); ok {
		scope = tenantID + ":" + scope
	}
	return scope + ":" + key
}

func replay(w http.ResponseWriter, cached []byte) {
	var stored storedResponse
	if err := json.Unmarshal(cached, &stored); err != nil || stored.Status == 0 {
		writeJSONError(w, http.StatusConflict, "idempotency key reused", "stored response is unreadable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(IdempotencyReplayHeader, "true")
	w.WriteHeader(stored.Status)
	if string(stored.Body) != "null" {
		_, _ = w.Write(stored.Body)
	}
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
