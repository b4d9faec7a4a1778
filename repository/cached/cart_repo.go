// Package cached puts a snapshot cache in front of any CartRepository.
package cached

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fastygo/cart/domain"
	"github.com/fastygo/cart/repository"
)

const defaultLoadTimeout = 5 * time.Second

type cartRepository struct {
	next        repository.CartRepository
	cache       repository.CartCache
	logger      *zap.Logger
	group       singleflight.Group
	loadTimeout time.Duration
}

// NewCartRepository wraps next with cache-aside reads. Writes go to next first and
// then drop the cached entry; cache failures are logged and never fail the call.
func NewCartRepository(next repository.CartRepository, cache repository.CartCache, logger *zap.Logger) repository.CartRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cartRepository{
		next:        next,
		cache:       cache,
		logger:      logger.Named("cart_cache"),
		loadTimeout: defaultLoadTimeout,
	}
}

// Load shares one backend read per id. The shared read runs detached from any single
// caller's cancellation; each caller still stops waiting when its own ctx is done.
func (r *cartRepository) Load(ctx context.Context, id string) (*domain.Cart, error) {
	ch := r.group.DoChan(id, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.loadTimeout)
		defer cancel()
		return r.load(loadCtx, id)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, res.Err
	}

	// Each caller gets its own aggregate restored from the shared snapshot.
	cart, err := domain.RestoreCart(res.Val.(domain.CartSnapshot))
	if err != nil {
		r.invalidate(ctx, id)
		return nil, domain.WrapError(domain.ErrCodeNotFound, domain.ErrCartNotFound.Message, err)
	}
	return cart, nil
}

func (r *cartRepository) load(ctx context.Context, id string) (domain.CartSnapshot, error) {
	snap, err := r.cache.Get(ctx, id)
	switch {
	case err == nil && snap.ID == id:
		return *snap, nil
	case err == nil:
		r.logger.Warn("cache entry holds another cart", zap.String("cart_id", id), zap.String("cached_id", snap.ID))
		r.invalidate(ctx, id)
	case !errors.Is(err, repository.ErrCacheMiss):
		r.logger.Warn("cache get failed", zap.String("cart_id", id), zap.Error(err))
	}

	cart, err := r.next.Load(ctx, id)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	fresh := cart.Snapshot()
	if err := r.cache.Set(ctx, fresh); err != nil {
		r.logger.Warn("cache set failed", zap.String("cart_id", id), zap.Error(err))
	}
	return fresh, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	if cart == nil {
		return domain.ErrInvalidPayload
	}
	err := r.next.Save(ctx, cart)
	r.invalidate(ctx, cart.ID())
	return err
}

func (r *cartRepository) Delete(ctx context.Context, id string) error {
	err := r.next.Delete(ctx, id)
	r.invalidate(ctx, id)
	return err
}

func (r *cartRepository) Exists(ctx context.Context, id string) (bool, error) {
	if snap, err := r.cache.Get(ctx, id); err == nil && snap.ID == id {
		return true, nil
	}
	return r.next.Exists(ctx, id)
}

func (r *cartRepository) invalidate(ctx context.Context, id string) {
	if err := r.cache.Delete(ctx, id); err != nil {
		r.logger.Warn("cache invalidate failed", zap.String("cart_id", id), zap.Error(err))
	}
}
