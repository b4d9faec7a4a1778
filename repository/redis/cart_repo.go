package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/cart/domain"
	"github.com/fastygo/cart/repository"
	"github.com/fastygo/cart/repository/codec"
)

type cartRepository struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewCartRepository stores carts as JSON text with a sliding TTL, the server-side
// counterpart of a cookie-held cart.
func NewCartRepository(client *redislib.Client, ttl time.Duration) repository.CartRepository {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &cartRepository{
		client: client,
		prefix: "cart:",
		ttl:    ttl,
	}
}

func (r *cartRepository) Load(ctx context.Context, id string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrCartNotFound
		}
		return nil, err
	}
	return codec.LoadOrAbsent(id, data)
}

// Save uses WATCH/MULTI so a concurrent writer that bumped the version aborts this write.
func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	if cart == nil {
		return domain.ErrInvalidPayload
	}
	key := r.key(cart.ID())

	snap := cart.Snapshot()
	snap.Version = cart.Version() + 1
	payload, err := codec.EncodeSnapshot(snap)
	if err != nil {
		return err
	}

	txf := func(tx *redislib.Tx) error {
		current, err := storedVersion(ctx, tx, key, cart.ID())
		if err != nil {
			return err
		}
		if current != cart.Version() {
			return domain.ErrCartVersionConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		return err
	}

	if err := r.client.Watch(ctx, txf, key); err != nil {
		if errors.Is(err, redislib.TxFailedErr) {
			return domain.ErrCartVersionConflict
		}
		return err
	}
	cart.MarkSaved()
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}

func (r *cartRepository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *cartRepository) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}

// storedVersion reads the version of the stored payload; anything Load reports as absent counts as 0.
func storedVersion(ctx context.Context, tx *redislib.Tx, key, id string) (int, error) {
	data, err := tx.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return codec.StoredVersion(id, data), nil
}
