package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a held lock.
type UnlockFunc func(ctx context.Context) error

// Locker serializes pipeline runs that target the same repository. The
// file-based implementation covers a single machine; the Redis one
// coordinates across hosts sharing a checkout.
type Locker interface {
	// Lock acquires the lock for key, blocking until it is held, the
	// context is canceled, or ttl elapses on a stale holder. The
	// returned UnlockFunc MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
