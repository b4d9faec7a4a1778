package services

import (
	"context"

	"github.com/fastygo/cart/domain"
	"github.com/fastygo/cart/internal/infrastructure/buffer"
	"github.com/fastygo/cart/repository/codec"
	"github.com/fastygo/cart/usecase"
)

// OutboxBridge persists drained domain events in the bbolt buffer for the relay to pick up.
type OutboxBridge struct {
	store *buffer.Store
}

func NewOutboxBridge(store *buffer.Store) *OutboxBridge {
	return &OutboxBridge{store: store}
}

func (b *OutboxBridge) Enqueue(ctx context.Context, events []domain.Event) error {
	if b.store == nil {
		return domain.ErrInvalidPayload
	}
	if len(events) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	items := make([]buffer.Item, 0, len(events))
	for _, event := range events {
		stored, err := codec.EncodeEvent(event)
		if err != nil {
			return err
		}
		items = append(items, toItem(stored))
	}
	return b.store.Enqueue(items...)
}

var _ usecase.EventOutbox = (*OutboxBridge)(nil)
