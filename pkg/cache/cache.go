package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service defines cache operations interface.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Close() error
}

// GetOrCompute returns the cached value for key, computing and storing it on
// a miss. Compute errors are returned as-is and nothing is cached for them.
// Cache read/write errors other than a miss are swallowed in favor of the
// freshly computed value: a degraded cache must never fail the request.
func GetOrCompute[T any](ctx context.Context, c Service, key string, ttl time.Duration, compute func() (T, error)) (T, bool, error) {
	var cached T
	if c != nil {
		if err := c.Get(ctx, key, &cached); err == nil {
			return cached, true, nil
		}
	}

	value, err := compute()
	if err != nil {
		return value, false, err
	}

	if c != nil {
		_ = c.Set(ctx, key, value, ttl)
	}
	return value, false, nil
}

// Key builds a cache key from a prefix and parameters.
func Key(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key = fmt.Sprintf("%s:%v", key, param)
	}
	return key
}

// marshalValue normalizes a value to bytes the way both backends store it.
func marshalValue(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return json.Marshal(value)
	}
}

// unmarshalValue decodes stored bytes into dest.
func unmarshalValue(data []byte, dest interface{}) error {
	switch d := dest.(type) {
	case *string:
		*d = string(data)
		return nil
	case *[]byte:
		*d = data
		return nil
	default:
		return json.Unmarshal(data, dest)
	}
}
