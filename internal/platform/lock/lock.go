// Package lock serializes batch entrypoints across processes with a Redis lock.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_posting/internal/platform/logging"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrBusy means another process holds the lock.
var ErrBusy = errors.New("lock held by another process")

// Locker runs a function while holding a named lock.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// RedisLocker is a Locker backed by bsm/redislock.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
}

// NewRedisLocker creates a locker whose locks expire after ttl unless released.
func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb), ttl: ttl}
}

// WithLock obtains key, runs fn and releases the lock. It does not wait for a held lock.
func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	logger := logging.FromContext(ctx)

	lk, err := l.client.Obtain(ctx, key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		logger.Warn().Str("lock_key", key).Msg("could not obtain redis lock")
		return fmt.Errorf("%w: %s", ErrBusy, key)
	} else if err != nil {
		return fmt.Errorf("obtaining redis lock %s: %w", key, err)
	}
	defer func() {
		if releaseErr := lk.Release(context.WithoutCancel(ctx)); releaseErr != nil && !errors.Is(releaseErr, redislock.ErrLockNotHeld) {
			logger.Warn().Err(releaseErr).Str("lock_key", key).Msg("failed to release redis lock")
		}
	}()

	return fn(ctx)
}

// NoopLocker runs fn directly. Used when Redis is not configured; correctness of
// batch runs never depends on the lock.
type NoopLocker struct{}

func (NoopLocker) WithLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var (
	_ Locker = (*RedisLocker)(nil)
	_ Locker = NoopLocker{}
)
