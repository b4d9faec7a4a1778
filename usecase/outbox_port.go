package usecase

import (
	"context"

	"github.com/fastygo/cart/domain"
)

// EventOutbox receives domain events drained from an aggregate after it was persisted.
type EventOutbox interface {
	Enqueue(ctx context.Context, events []domain.Event) error
}
