package cache

import (
	"context"
	"errors"
	"time"
)

// LayeredCache chains a fast local cache in front of a shared remote cache.
// Reads fall through L1 to L2 and backfill L1 on a remote hit. Writes and
// deletes go to both layers.
type LayeredCache struct {
	l1 Service
	l2 Service

	// l1TTL caps how long entries live locally so the shared layer stays
	// the source of truth across instances.
	l1TTL time.Duration
}

// NewLayeredCache creates a two-tier cache. l2 may be nil, in which case
// only the local layer is used.
func NewLayeredCache(l1, l2 Service, l1TTL time.Duration) *LayeredCache {
	if l1TTL <= 0 {
		l1TTL = time.Minute
	}
	return &LayeredCache{l1: l1, l2: l2, l1TTL: l1TTL}
}

func (c *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	localTTL := expiration
	if localTTL <= 0 || localTTL > c.l1TTL {
		localTTL = c.l1TTL
	}
	if err := c.l1.Set(ctx, key, value, localTTL); err != nil {
		return err
	}
	if c.l2 != nil {
		return c.l2.Set(ctx, key, value, expiration)
	}
	return nil
}

func (c *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	err := c.l1.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) || c.l2 == nil {
		return err
	}

	var raw []byte
	if err := c.l2.Get(ctx, key, &raw); err != nil {
		return err
	}

	_ = c.l1.Set(ctx, key, raw, c.l1TTL)
	return unmarshalValue(raw, dest)
}

func (c *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	err := c.l1.Delete(ctx, keys...)
	if c.l2 != nil {
		if err2 := c.l2.Delete(ctx, keys...); err == nil {
			err = err2
		}
	}
	return err
}

func (c *LayeredCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	ok, err := c.l1.Exists(ctx, keys...)
	if err == nil && ok {
		return true, nil
	}
	if c.l2 != nil {
		return c.l2.Exists(ctx, keys...)
	}
	return ok, err
}

func (c *LayeredCache) Close() error {
	err := c.l1.Close()
	if c.l2 != nil {
		if err2 := c.l2.Close(); err == nil {
			err = err2
		}
	}
	return err
}
