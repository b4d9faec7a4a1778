package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/cart/domain"
	"github.com/fastygo/cart/repository"
)

type eventLog struct {
	pool *pgxpool.Pool
}

// NewEventLog stores published cart events in the cart_events table.
func NewEventLog(pool *pgxpool.Pool) repository.EventLog {
	return &eventLog{pool: pool}
}

// AppendEvent is idempotent on the event id so relay retries do not duplicate rows.
func (l *eventLog) AppendEvent(ctx context.Context, event repository.StoredEvent) error {
	if event.ID == "" || event.CartID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO cart_events (id, cart_id, name, payload, occurred_at)
	VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
	ON CONFLICT (id) DO NOTHING
	`

	_, err := l.pool.Exec(ctx, query,
		event.ID,
		event.CartID,
		event.Name,
		[]byte(event.Payload),
		nullTime(event.OccurredAt),
	)
	return err
}
