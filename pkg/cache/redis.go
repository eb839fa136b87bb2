package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	mmacerrors "github.com/matzehuels/mmac/pkg/errors"
)

// RedisConfig selects a Redis server.
type RedisConfig struct {
	Addr     string // host:port
	Password string
	DB       int
	Backoff  Backoff // Zero value uses DefaultBackoff
}

// RedisCache stores entries in Redis. Transient network failures are retried
// with backoff.
type RedisCache struct {
	client  *redis.Client
	backoff Backoff
}

// NewRedisCache connects and pings the server. An unreachable server returns
// an error wrapping ErrUnavailable with code NETWORK.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	c := &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		backoff: cfg.Backoff,
	}
	if c.backoff.Attempts == 0 {
		c.backoff = DefaultBackoff
	}
	err := RetryWithBackoff(ctx, c.backoff, func() error {
		return classify(c.client.Ping(ctx).Err())
	})
	if err != nil {
		c.client.Close()
		return nil, mmacerrors.Wrap(mmacerrors.ErrCodeNetwork,
			fmt.Errorf("%w: %w", ErrUnavailable, err), "connect to redis at %s", cfg.Addr)
	}
	return c, nil
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := RetryWithBackoff(ctx, c.backoff, func() error {
		var err error
		data, err = c.client.Get(ctx, key).Bytes()
		return classify(err)
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return RetryWithBackoff(ctx, c.backoff, func() error {
		return classify(c.client.Set(ctx, key, data, ttl).Err())
	})
}

// Delete implements Cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return RetryWithBackoff(ctx, c.backoff, func() error {
		return classify(c.client.Del(ctx, key).Err())
	})
}

// Close implements Cache.
func (c *RedisCache) Close() error { return c.client.Close() }

// classify marks connection-level failures as retryable. A missing key
// (redis.Nil) and server replies are returned as they are.
func classify(err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, redis.ErrClosed) {
		return Retryable(err)
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
