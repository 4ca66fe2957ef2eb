package repolock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/drovertool/drover/internal/logging"
	"github.com/drovertool/drover/pkg/ports"
)

// DefaultTTL bounds how long a crashed run can keep other processes
// out of a repository. A submit that pushes over a slow link can take
// a while, so the window is generous.
const DefaultTTL = 2 * time.Minute

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Guard serializes pipeline runs that target the same repository.
// In-process callers share a per-key mutex, garbage collected by
// reference counting; an optional ports.Locker extends the guarantee
// across processes or hosts.
type Guard struct {
	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker ports.Locker // Optional cross-process locker
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures the Guard.
type Option func(*Guard)

// WithLocker enables cross-process locking.
func WithLocker(locker ports.Locker) Option {
	return func(g *Guard) {
		g.locker = locker
	}
}

// WithTTL overrides how long a cross-process lock outlives a crashed
// holder.
func WithTTL(ttl time.Duration) Option {
	return func(g *Guard) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// WithLogger configures a logger for deferred release failures.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

// New creates a Guard.
func New(opts ...Option) *Guard {
	g := &Guard{
		locks:  make(map[string]*lockEntry),
		ttl:    DefaultTTL,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Key picks the lock key for a repository: the remote URL when one is
// configured, so clones of the same repository on one machine contend,
// otherwise the local root path.
func Key(remoteURL, root string) string {
	if remoteURL != "" {
		return remoteURL
	}
	return root
}

// acquire gets or creates a lock entry and increments its reference
// count. The caller MUST Lock the entry.mu, and then call release(key)
// after unlocking.
func (g *Guard) acquire(key string) *lockEntry {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, exists := g.locks[key]
	if !exists {
		entry = &lockEntry{}
		g.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it
// reaches zero.
func (g *Guard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, exists := g.locks[key]
	if !exists {
		return // Should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(g.locks, key)
	}
}

// WithLock executes fn while holding the lock for key.
func (g *Guard) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := g.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		g.release(key)
	}()

	if g.locker != nil {
		unlock, err := g.locker.Lock(ctx, key, g.ttl)
		if err != nil {
			return fmt.Errorf("failed to acquire repository lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				g.logger.Warn("Failed to release repository lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
