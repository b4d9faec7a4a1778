package repository

import (
	"context"
	"encoding/json"
	"time"
)

// StoredEvent is the persisted form of a domain event.
type StoredEvent struct {
	ID         string          `json:"id"`
	CartID     string          `json:"cart_id"`
	Name       string          `json:"name"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// EventLog is an append-only store of published cart events.
type EventLog interface {
	AppendEvent(ctx context.Context, event StoredEvent) error
}
