package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ceodigitcare/bizledger/internal/adapter/http/dto"
	"github.com/ceodigitcare/bizledger/internal/domain"
)

type statusObserverStub struct {
	seen []domain.Status
}

func (s *statusObserverStub) DocumentClassified(status domain.Status) {
	s.seen = append(s.seen, status)
}

func TestStatusHandler_Classify(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantStatus string
	}{
		{
			name:       "paid and partially received",
			body:       `{"total_amount":"100","amount_paid":"100","items":[{"quantity":4,"quantity_received":1}]}`,
			wantCode:   http.StatusOK,
			wantStatus: "paid_partially_received",
		},
		{
			name:       "overpaid counts as paid",
			body:       `{"total_amount":"100","amount_paid":"120"}`,
			wantCode:   http.StatusOK,
			wantStatus: "paid",
		},
		{
			name:       "cancelled wins over invalid input",
			body:       `{"total_amount":"100","amount_paid":"-1","is_cancelled":true}`,
			wantCode:   http.StatusOK,
			wantStatus: "cancelled",
		},
		{
			name:     "negative payment",
			body:     `{"total_amount":"100","amount_paid":"-1"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "received more than ordered",
			body:     `{"total_amount":"0","amount_paid":"0","items":[{"quantity":1,"quantity_received":2}]}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "quantities that would overflow",
			body:     `{"total_amount":"100","items":[{"quantity":9223372036854775807,"quantity_received":9223372036854775807},{"quantity":1,"quantity_received":1}]}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer := &statusObserverStub{}
			handler := NewStatusHandler(observer)

			rec := httptest.NewRecorder()
			handler.Classify(rec, httptest.NewRequest(http.MethodPost, "/status/classify", bytes.NewBufferString(tt.body)))

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				if len(observer.seen) != 0 {
					t.Fatalf("failed classifications must not be observed")
				}
				return
			}

			var resp dto.ClassifyResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Fatalf("expected %s, got %s", tt.wantStatus, resp.Status)
			}
			if len(observer.seen) != 1 || string(observer.seen[0]) != tt.wantStatus {
				t.Fatalf("expected observer to see %s, got %v", tt.wantStatus, observer.seen)
			}
		})
	}
}

func TestStatusHandler_List(t *testing.T) {
	rec := httptest.NewRecorder()
	NewStatusHandler(nil).List(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	var resp struct {
		Statuses []dto.ClassifyResponse `json:"statuses"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Statuses) != len(domain.Statuses()) || resp.Statuses[0].Label != "Draft" {
		t.Fatalf("unexpected statuses %+v", resp.Statuses)
	}
}
