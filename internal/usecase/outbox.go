package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ceodigitcare/bizledger/internal/domain"
)

func newOutboxEvent(
	idGen IDGenerator,
	tenantID, aggregateType, aggregateID, eventType string,
	payload any,
	now time.Time,
) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            idGen.Generate(),
		TenantID:      tenantID,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       toPayload(payload),
		CreatedAt:     now,
		Published:     false,
	}
}

// toPayload flattens a payload struct into the map stored in the outbox.
func toPayload(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// writeOutbox is a no-op when events are disabled.
func writeOutbox(ctx context.Context, repo OutboxRepository, tx Transaction, event *domain.OutboxEvent) error {
	if repo == nil {
		return nil
	}
	return repo.Create(ctx, tx, event)
}
