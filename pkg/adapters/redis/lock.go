// Package redis provides a Redis-backed ports.Locker for fleets of
// runners that share a checkout over the network, where the file lock
// cannot reach.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"

	"github.com/drovertool/drover/pkg/ports"
)

// ErrLockAcquire is returned when the lock cannot be acquired.
var ErrLockAcquire = errors.New("failed to acquire repository lock")

// releaseScript deletes the key only when this holder still owns it.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// Locker implements ports.Locker with SET NX PX plus a guarded Lua
// release, so an expired holder can never delete a successor's lock.
type Locker struct {
	client *backend.Client
	prefix string
	retry  time.Duration
}

var _ ports.Locker = (*Locker)(nil)

// Option configures the locker.
type Option func(*Locker)

// WithRetryInterval sets how often acquisition is retried while the
// lock is held elsewhere. Default 100ms.
func WithRetryInterval(d time.Duration) Option {
	return func(l *Locker) { l.retry = d }
}

// NewLocker creates a Redis locker. Keys are namespaced by prefix.
func NewLocker(client *backend.Client, prefix string, opts ...Option) *Locker {
	l := &Locker{
		client: client,
		prefix: prefix,
		retry:  100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock acquires the lock for key, polling until it is free or ctx ends.
// The ttl bounds how long a crashed holder can block others.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	holder := uuid.NewString()

	unlock, ok, err := l.tryLock(ctx, lockKey, holder, ttl)
	if err != nil || ok {
		return unlock, err
	}

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrLockAcquire, ctx.Err())
		case <-ticker.C:
			unlock, ok, err := l.tryLock(ctx, lockKey, holder, ttl)
			if err != nil || ok {
				return unlock, err
			}
		}
	}
}

func (l *Locker) tryLock(ctx context.Context, lockKey, holder string, ttl time.Duration) (ports.UnlockFunc, bool, error) {
	acquired, err := l.client.SetNX(ctx, lockKey, holder, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrLockAcquire, err)
	}
	if !acquired {
		return nil, false, nil
	}
	unlock := func(ctx context.Context) error {
		return l.client.Eval(ctx, releaseScript, []string{lockKey}, holder).Err()
	}
	return unlock, true, nil
}
