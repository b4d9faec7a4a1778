// Package codec converts carts and cart events to and from their stored JSON form.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fastygo/cart/domain"
	"github.com/fastygo/cart/repository"
)

// ErrMalformed marks payloads that cannot be turned back into a valid Cart.
var ErrMalformed = errors.New("malformed cart payload")

// EncodeCart serializes the cart's snapshot.
func EncodeCart(cart *domain.Cart) ([]byte, error) {
	if cart == nil {
		return nil, domain.ErrInvalidPayload
	}
	return EncodeSnapshot(cart.Snapshot())
}

// EncodeSnapshot serializes a snapshot as stored by every adapter.
func EncodeSnapshot(snap domain.CartSnapshot) ([]byte, error) {
	return json.Marshal(snap)
}

// DecodeSnapshot parses a snapshot. Field names match case-insensitively.
func DecodeSnapshot(data []byte) (domain.CartSnapshot, error) {
	var snap domain.CartSnapshot
	if len(data) == 0 {
		return snap, fmt.Errorf("%w: empty", ErrMalformed)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return snap, nil
}

// DecodeCart parses and validates a stored cart. Any failure wraps ErrMalformed.
func DecodeCart(data []byte) (*domain.Cart, error) {
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	cart, err := domain.RestoreCart(snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return cart, nil
}

// LoadOrAbsent folds malformed payloads, and payloads holding a cart other than id,
// into domain.ErrCartNotFound.
func LoadOrAbsent(id string, data []byte) (*domain.Cart, error) {
	cart, err := DecodeCart(data)
	if err == nil && cart.ID() != id {
		err = fmt.Errorf("%w: key %q holds cart %q", ErrMalformed, id, cart.ID())
	}
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeNotFound, domain.ErrCartNotFound.Message, err)
	}
	return cart, nil
}

// StoredVersion is the version a writer must hold to replace data stored under id.
// Anything LoadOrAbsent reports as absent counts as 0, so a fresh cart overwrites it.
func StoredVersion(id string, data []byte) int {
	cart, err := LoadOrAbsent(id, data)
	if err != nil {
		return 0
	}
	return cart.Version()
}

// EncodeEvent converts a domain event into its stored form.
func EncodeEvent(event domain.Event) (repository.StoredEvent, error) {
	if event == nil {
		return repository.StoredEvent{}, domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return repository.StoredEvent{}, err
	}
	return repository.StoredEvent{
		ID:         event.EventID(),
		CartID:     event.AggregateID(),
		Name:       event.EventName(),
		Payload:    payload,
		OccurredAt: event.OccurredAt(),
	}, nil
}
