package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event names double as outbox keys and kafka headers.
const (
	EventCartProductAdded   = "cart.product_added"
	EventCartProductRemoved = "cart.product_removed"
	EventCartCleared        = "cart.cleared"
)

// Event is an immutable fact recorded by a Cart mutation.
type Event interface {
	EventID() string
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

type baseEvent struct {
	ID       string    `json:"event_id"`
	CartID   string    `json:"cart_id"`
	Occurred time.Time `json:"occurred_at"`
}

func newBaseEvent(cartID string, at time.Time) baseEvent {
	return baseEvent{ID: uuid.NewString(), CartID: cartID, Occurred: at}
}

func (e baseEvent) EventID() string       { return e.ID }
func (e baseEvent) AggregateID() string   { return e.CartID }
func (e baseEvent) OccurredAt() time.Time { return e.Occurred }

// CartProductAdded carries the added quantity and price, not the resulting line totals.
type CartProductAdded struct {
	baseEvent
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   Money  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
}

func (CartProductAdded) EventName() string { return EventCartProductAdded }

type CartProductRemoved struct {
	baseEvent
	ProductID string `json:"product_id"`
}

func (CartProductRemoved) EventName() string { return EventCartProductRemoved }

type CartCleared struct {
	baseEvent
}

func (CartCleared) EventName() string { return EventCartCleared }
