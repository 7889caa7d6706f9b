package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// ErrStaleFill is returned by Set when the product was invalidated after the
// caller read its version.
var ErrStaleFill = errors.New("cache fill raced an invalidation")

const ProductTTL = time.Minute

// ProductCache stores products by id. Every Invalidate bumps a per-product
// version; a reader takes Version before loading from the database and hands
// it to Set, which drops the write if the version moved in between.
type ProductCache interface {
	Get(ctx context.Context, id uint64) (*domain.Product, error)
	Version(ctx context.Context, id uint64) (int64, error)
	Set(ctx context.Context, p *domain.Product, ttl time.Duration, version int64) error
	Invalidate(ctx context.Context, ids ...uint64) error
}

var _ ProductCache = (*RedisProductCache)(nil)

type RedisProductCache struct {
	client *redis.Client
}

func NewRedisProductCache(client *redis.Client) *RedisProductCache {
	return &RedisProductCache{client: client}
}

func productKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}

func versionKey(id uint64) string {
	return fmt.Sprintf("product:%d:ver", id)
}

func (c *RedisProductCache) Get(ctx context.Context, id uint64) (*domain.Product, error) {
	raw, err := c.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode cached product: %w", err)
	}
	return &p, nil
}

func (c *RedisProductCache) Version(ctx context.Context, id uint64) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get version: %w", err)
	}
	return v, nil
}

func (c *RedisProductCache) Set(ctx context.Context, p *domain.Product, ttl time.Duration, version int64) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}

	verKey := versionKey(p.ID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, verKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return ErrStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, productKey(p.ID), data, ttl)
			return nil
		})
		return err
	}, verKey)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStaleFill
	}
	return err
}

func (c *RedisProductCache) Invalidate(ctx context.Context, ids ...uint64) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productKey(id))
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		for _, id := range ids {
			pipe.Incr(ctx, versionKey(id))
		}
		return nil
	})
	return err
}
