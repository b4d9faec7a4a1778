package redis

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/cart/domain"
	"github.com/fastygo/cart/repository"
	"github.com/fastygo/cart/repository/codec"
)

type cartCache struct {
	client  *redislib.Client
	prefix  string
	baseTTL time.Duration
}

// NewCartCache caches cart snapshots with a jittered TTL.
func NewCartCache(client *redislib.Client, ttl time.Duration) repository.CartCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &cartCache{
		client:  client,
		prefix:  "cart-cache:",
		baseTTL: ttl,
	}
}

func (c *cartCache) Get(ctx context.Context, id string) (*domain.CartSnapshot, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redislib.Nil) {
		return nil, repository.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	snap, err := codec.DecodeSnapshot(data)
	if err != nil {
		_ = c.client.Del(ctx, c.key(id)).Err()
		return nil, repository.ErrCacheMiss
	}
	return &snap, nil
}

func (c *cartCache) Set(ctx context.Context, snapshot domain.CartSnapshot) error {
	payload, err := codec.EncodeSnapshot(snapshot)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	jitter := time.Duration(rand.Int63n(int64(c.baseTTL/5) + 1))
	if err := c.client.Set(ctx, c.key(snapshot.ID), payload, c.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *cartCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *cartCache) key(id string) string {
	return fmt.Sprintf("%s%s", c.prefix, id)
}
