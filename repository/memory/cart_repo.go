// Package memory provides in-process adapters for local runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/fastygo/cart/domain"
	"github.com/fastygo/cart/repository"
)

// CartRepository keeps snapshots in a map so callers never share aggregate instances.
type CartRepository struct {
	mu    sync.RWMutex
	carts map[string]domain.CartSnapshot
}

func NewCartRepository() *CartRepository {
	return &CartRepository{carts: make(map[string]domain.CartSnapshot)}
}

func (r *CartRepository) Load(ctx context.Context, id string) (*domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	snap, ok := r.carts[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	cart, err := domain.RestoreCart(snap)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeNotFound, domain.ErrCartNotFound.Message, err)
	}
	return cart, nil
}

func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	if cart == nil {
		return domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.carts[cart.ID()]
	current := 0
	if exists {
		current = stored.Version
	}
	if current != cart.Version() {
		return domain.ErrCartVersionConflict
	}

	snap := cart.Snapshot()
	snap.Version = current + 1
	r.carts[cart.ID()] = snap
	cart.MarkSaved()
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.carts, id)
	r.mu.Unlock()
	return nil
}

func (r *CartRepository) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	_, ok := r.carts[id]
	r.mu.RUnlock()
	return ok, nil
}

var _ repository.CartRepository = (*CartRepository)(nil)
