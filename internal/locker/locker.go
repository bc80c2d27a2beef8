// Package locker serializes ledger operations per circle across service instances.
package locker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-savings-circle/internal/logger"
)

// ErrBusy is returned when the circle lock could not be obtained in time.
var ErrBusy = errors.New("circle is busy, try again")

// CircleLocker obtains per-circle locks in Redis.
type CircleLocker struct {
	client  *redislock.Client
	ttl     time.Duration
	timeout time.Duration
}

// New creates a CircleLocker on top of a Redis client. ttl bounds how long a crashed holder
// keeps the lock; timeout bounds how long Lock waits for it.
func New(rdb redis.UniversalClient, ttl, timeout time.Duration) *CircleLocker {
	return &CircleLocker{
		client:  redislock.New(rdb),
		ttl:     ttl,
		timeout: timeout,
	}
}

// Key is the Redis key guarding circleID.
func Key(circleID uuid.UUID) string {
	return fmt.Sprintf("lock:circle:%s", circleID)
}

// Lock blocks until the lock for circleID is held or the timeout passes.
// The returned function releases it.
func (l *CircleLocker) Lock(ctx context.Context, circleID uuid.UUID) (func(), error) {
	key := Key(circleID)

	lock, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), int(l.timeout/(50*time.Millisecond))),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		logger.Log.Warnw("could not obtain circle lock", "key", key)
		return nil, ErrBusy
	}
	if err != nil {
		logger.Log.Errorw("error obtaining circle lock", "key", key, "error", err)
		return nil, err
	}

	return func() {
		// runs even when ctx was cancelled
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			logger.Log.Warnw("failed to release circle lock", "key", key, "error", err)
		}
	}, nil
}

// Noop is used when Redis is not configured. The circle row lock taken inside each
// ledger transaction then serializes contributions, claims and the funded-cycle check.
type Noop struct{}

// Lock returns immediately.
func (Noop) Lock(ctx context.Context, circleID uuid.UUID) (func(), error) {
	return func() {}, nil
}
