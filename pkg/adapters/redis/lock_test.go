package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drovertool/drover/pkg/adapters/redis"
)

func newTestLocker(t *testing.T) (*redis.Locker, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return redis.NewLocker(client, "drover:", redis.WithRetryInterval(5*time.Millisecond)), mr
}

func TestLocker_AcquireAndRelease(t *testing.T) {
	ctx := context.Background()
	locker, mr := newTestLocker(t)

	unlock, err := locker.Lock(ctx, "acme/widgets", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("drover:lock:acme/widgets"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("drover:lock:acme/widgets"))
}

func TestLocker_BlocksSecondHolder(t *testing.T) {
	ctx := context.Background()
	locker, _ := newTestLocker(t)

	unlock, err := locker.Lock(ctx, "repo", 30*time.Second)
	require.NoError(t, err)

	// A second acquisition must not proceed while the first holds on.
	blocked, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(blocked, "repo", 30*time.Second)
	assert.ErrorIs(t, err, redis.ErrLockAcquire)

	require.NoError(t, unlock(ctx))

	unlock2, err := locker.Lock(ctx, "repo", 30*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestLocker_TTLFreesStaleHolder(t *testing.T) {
	ctx := context.Background()
	locker, mr := newTestLocker(t)

	_, err := locker.Lock(ctx, "repo", time.Second)
	require.NoError(t, err)

	// Simulate a crashed holder: never unlock, let the TTL expire.
	mr.FastForward(2 * time.Second)

	unlock, err := locker.Lock(ctx, "repo", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestLocker_StaleReleaseCannotStealLock(t *testing.T) {
	ctx := context.Background()
	locker, mr := newTestLocker(t)

	staleUnlock, err := locker.Lock(ctx, "repo", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	unlock, err := locker.Lock(ctx, "repo", 30*time.Second)
	require.NoError(t, err)

	// The expired holder's release is a no-op against the new holder.
	require.NoError(t, staleUnlock(ctx))
	assert.True(t, mr.Exists("drover:lock:repo"), "successor's lock survives a stale release")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("drover:lock:repo"))
}

func TestLocker_DistinctKeysDoNotContend(t *testing.T) {
	ctx := context.Background()
	locker, _ := newTestLocker(t)

	unlockA, err := locker.Lock(ctx, "repo-a", 30*time.Second)
	require.NoError(t, err)
	unlockB, err := locker.Lock(ctx, "repo-b", 30*time.Second)
	require.NoError(t, err)

	require.NoError(t, unlockA(ctx))
	require.NoError(t, unlockB(ctx))
}
