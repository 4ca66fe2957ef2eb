// Package filelock provides an advisory file-based ports.Locker that
// serializes pipeline runs against the same repository on one machine.
// Lock files carry the holder's identity and acquisition time so a
// crashed run's lock can be reclaimed after its TTL instead of wedging
// every later run.
package filelock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/drovertool/drover/pkg/ports"
)

// ErrLockAcquire is returned when the lock cannot be acquired.
var ErrLockAcquire = errors.New("failed to acquire repository file lock")

// payload is what a lock file contains, readable by a human debugging a
// stuck lock.
type payload struct {
	Holder     string    `json:"holder"`
	PID        int       `json:"pid"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// Locker implements ports.Locker with O_EXCL lock files under one
// directory.
type Locker struct {
	dir   string
	clock ports.Clock
	retry time.Duration
}

var _ ports.Locker = (*Locker)(nil)

// Option configures the locker.
type Option func(*Locker)

// WithClock substitutes the time source, a manual clock in tests.
func WithClock(c ports.Clock) Option {
	return func(l *Locker) { l.clock = c }
}

// WithRetryInterval sets how long to wait between acquisition attempts.
// Default one second.
func WithRetryInterval(d time.Duration) Option {
	return func(l *Locker) { l.retry = d }
}

// New creates a file locker storing lock files under dir.
func New(dir string, opts ...Option) *Locker {
	l := &Locker{
		dir:   dir,
		clock: ports.SystemClock{},
		retry: time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock acquires the lock for key, waiting until it is free, reclaimable
// after ttl, or the context ends.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLockAcquire, err)
	}
	path := l.path(key)
	holder := uuid.NewString()

	for {
		acquired, err := l.tryAcquire(path, holder, ttl)
		if err != nil {
			return nil, err
		}
		if acquired {
			return func(context.Context) error {
				return l.release(path, holder)
			}, nil
		}

		l.clock.Sleep(ctx, l.retry)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLockAcquire, err)
		}
	}
}

// tryAcquire makes one attempt, reclaiming a stale or unreadable lock
// file on the way. Reclaiming races through O_EXCL: of two reclaimers
// only one creation succeeds, the other loops.
func (l *Locker) tryAcquire(path, holder string, ttl time.Duration) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err == nil {
		p := payload{Holder: holder, PID: os.Getpid(), AcquiredAt: l.clock.Now()}
		encodeErr := json.NewEncoder(f).Encode(p)
		closeErr := f.Close()
		if encodeErr != nil || closeErr != nil {
			os.Remove(path)
			return false, fmt.Errorf("%w: writing lock file", ErrLockAcquire)
		}
		return true, nil
	}
	if !os.IsExist(err) {
		return false, fmt.Errorf("%w: %w", ErrLockAcquire, err)
	}

	current, readErr := readPayload(path)
	stale := readErr != nil || l.clock.Now().Sub(current.AcquiredAt) > ttl
	if stale {
		os.Remove(path)
	}
	return false, nil
}

// release removes the lock file only while this holder still owns it, so
// a reclaimed lock is never deleted out from under its new holder.
func (l *Locker) release(path, holder string) error {
	current, err := readPayload(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if current.Holder != holder {
		return nil
	}
	return os.Remove(path)
}

func readPayload(path string) (payload, error) {
	var p payload
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, err
	}
	return p, nil
}

// path maps a lock key to a file name, flattening separators so keys
// like owner/repo stay inside the lock directory.
func (l *Locker) path(key string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, key)
	return filepath.Join(l.dir, mapped+".lock")
}
