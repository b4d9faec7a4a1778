package buffer

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrFull is returned when the buffer already holds its configured maximum.
var ErrFull = errors.New("outbox buffer is full")

// Item is one domain event waiting to be relayed.
type Item struct {
	ID         string          `json:"id"`
	CartID     string          `json:"cart_id"`
	Name       string          `json:"name"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	Retries    int             `json:"retries"`
	LastError  string          `json:"last_error,omitempty"`

	bucketKey []byte
}

func (i *Item) normalize(now time.Time) {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.EnqueuedAt.IsZero() {
		i.EnqueuedAt = now
	}
	if i.OccurredAt.IsZero() {
		i.OccurredAt = i.EnqueuedAt
	}
}
