package repository

import (
	"context"
	"errors"

	"github.com/fastygo/cart/domain"
)

// CartRepository persists Cart aggregates by id.
//
// Load returns domain.ErrCartNotFound for a missing or undecodable cart. Save
// rejects a cart whose version no longer matches the stored one with
// domain.ErrCartVersionConflict and calls MarkSaved on success.
type CartRepository interface {
	Load(ctx context.Context, id string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// CartCache is a best-effort snapshot cache in front of a CartRepository.
type CartCache interface {
	Get(ctx context.Context, id string) (*domain.CartSnapshot, error)
	Set(ctx context.Context, snapshot domain.CartSnapshot) error
	Delete(ctx context.Context, id string) error
}

// ErrCacheMiss is returned by CartCache.Get when no snapshot is cached.
var ErrCacheMiss = errors.New("cache miss")
