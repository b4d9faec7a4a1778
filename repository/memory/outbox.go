package memory

import (
	"context"
	"sync"

	"github.com/fastygo/cart/domain"
	"github.com/fastygo/cart/usecase"
)

// Outbox collects enqueued events in memory.
type Outbox struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Enqueue(_ context.Context, events []domain.Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.events = append(o.events, events...)
	return nil
}

// Events returns everything enqueued so far.
func (o *Outbox) Events() []domain.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]domain.Event, len(o.events))
	copy(out, o.events)
	return out
}

// FailWith makes subsequent Enqueue calls return err.
func (o *Outbox) FailWith(err error) {
	o.mu.Lock()
	o.err = err
	o.mu.Unlock()
}

var _ usecase.EventOutbox = (*Outbox)(nil)
