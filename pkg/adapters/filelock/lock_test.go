package filelock

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drovertool/drover/pkg/adapters/memory"
)

func newTestLocker(t *testing.T) (*Locker, *memory.Clock) {
	t.Helper()
	clock := memory.NewClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	locker := New(t.TempDir(), WithClock(clock), WithRetryInterval(time.Second))
	return locker, clock
}

func TestLocker_AcquireAndRelease(t *testing.T) {
	locker, _ := newTestLocker(t)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "acme/widgets", 30*time.Second)
	require.NoError(t, err)

	path := locker.path("acme/widgets")
	_, statErr := os.Stat(path)
	require.NoError(t, statErr, "lock file should exist while held")

	require.NoError(t, unlock(ctx))
	_, statErr = os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "lock file should be gone after release")
}

func TestLocker_SecondHolderWaitsForTTL(t *testing.T) {
	locker, clock := newTestLocker(t)
	ctx := context.Background()
	started := clock.Now()

	_, err := locker.Lock(ctx, "repo", 10*time.Second)
	require.NoError(t, err)

	// The second caller spins on the manual clock until the first
	// holder's TTL lapses, without any wall-clock delay.
	unlock, err := locker.Lock(ctx, "repo", 10*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))

	waited := clock.Now().Sub(started)
	assert.Greater(t, waited, 10*time.Second, "reclaim must wait out the TTL")
}

func TestLocker_StaleReleaseDoesNotRemoveSuccessor(t *testing.T) {
	locker, _ := newTestLocker(t)
	ctx := context.Background()

	first, err := locker.Lock(ctx, "repo", time.Second)
	require.NoError(t, err)

	second, err := locker.Lock(ctx, "repo", time.Minute)
	require.NoError(t, err)

	// The expired holder's release must leave the new holder's file alone.
	require.NoError(t, first(ctx))
	_, statErr := os.Stat(locker.path("repo"))
	require.NoError(t, statErr, "successor's lock file must survive a stale release")

	require.NoError(t, second(ctx))
}

func TestLocker_CanceledContext(t *testing.T) {
	locker, _ := newTestLocker(t)
	ctx := context.Background()

	_, err := locker.Lock(ctx, "repo", time.Hour)
	require.NoError(t, err)

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	_, err = locker.Lock(canceled, "repo", time.Hour)
	require.ErrorIs(t, err, ErrLockAcquire)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLocker_CorruptLockFileIsReclaimed(t *testing.T) {
	locker, _ := newTestLocker(t)
	ctx := context.Background()

	path := locker.path("repo")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	unlock, err := locker.Lock(ctx, "repo", time.Hour)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestLocker_DistinctKeysDoNotContend(t *testing.T) {
	locker, clock := newTestLocker(t)
	ctx := context.Background()
	started := clock.Now()

	unlockA, err := locker.Lock(ctx, "repo-a", time.Hour)
	require.NoError(t, err)
	unlockB, err := locker.Lock(ctx, "repo-b", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, started, clock.Now(), "independent keys should not wait on each other")
	require.NoError(t, unlockA(ctx))
	require.NoError(t, unlockB(ctx))
}

func TestLocker_KeyNamesAreFlattened(t *testing.T) {
	locker, _ := newTestLocker(t)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "github.com/acme/widgets", time.Minute)
	require.NoError(t, err)
	defer unlock(ctx)

	path := locker.path("github.com/acme/widgets")
	assert.Equal(t, "github.com-acme-widgets.lock", filepath.Base(path))
	_, statErr := os.Stat(path)
	require.NoError(t, statErr)
}
