package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	backend "github.com/redis/go-redis/v9"

	"github.com/drovertool/drover"
	"github.com/drovertool/drover/internal/config"
	"github.com/drovertool/drover/pkg/adapters/filelock"
	"github.com/drovertool/drover/pkg/adapters/redis"
	"github.com/drovertool/drover/pkg/repolock"
)

// workspace is the shared bootstrap every command runs through: settings
// file, logger, terminal sink, assembled Env, and the repository
// identity used for locking.
type workspace struct {
	cfg     config.Config
	logger  *slog.Logger
	term    *Terminal
	env     *drover.Env
	workDir string
	root    string
	remote  string
}

// setup builds the workspace for a command rooted at dir. Gateway reads
// that fail here (unborn repo, missing remote) degrade to defaults; the
// pipeline or command surfaces the real error with context.
func setup(ctx context.Context, dir string, debug bool, term *Terminal, extra ...drover.Option) (*workspace, error) {
	wd, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve working directory: %w", err)
	}

	cfg := config.Default()
	anchor := wd
	if path := config.Discover(wd); path != "" {
		var unknown []string
		cfg, unknown, err = config.Load(path)
		if err != nil {
			return nil, err
		}
		for _, key := range unknown {
			term.Warn("Ignoring unknown setting %q in %s", key, path)
		}
		anchor = filepath.Dir(path)
	}

	logFile := ""
	if cfg.Log.File {
		logFile = filepath.Join(anchor, ".drover", "drover.log")
	}
	logger := createLogger(debug, logFile)

	envOpts := cfg.Options()
	envOpts = append(envOpts, drover.WithLogger(logger), drover.WithSink(term))
	envOpts = append(envOpts, extra...)
	env := drover.New(wd, envOpts...)

	root, err := env.Git.Root(ctx, wd)
	if err != nil {
		logger.Debug("repository root not resolvable, using working directory", "err", err)
		root = wd
	}
	remote, err := env.Git.RemoteURL(ctx)
	if err != nil {
		logger.Debug("remote URL not resolvable, lock key falls back to root", "err", err)
		remote = ""
	}

	return &workspace{
		cfg:     cfg,
		logger:  logger,
		term:    term,
		env:     env,
		workDir: wd,
		root:    root,
		remote:  remote,
	}, nil
}

// withRepoLock serializes fn against other drover runs on the same
// repository. The in-process guard always engages; a cross-process
// locker is layered on per the lock settings, redis for shared
// checkouts and the file lock otherwise.
func (w *workspace) withRepoLock(ctx context.Context, fn func(context.Context) error) error {
	opts := []repolock.Option{repolock.WithLogger(w.logger)}
	if w.cfg.Lock.TTL > 0 {
		opts = append(opts, repolock.WithTTL(w.cfg.Lock.TTL))
	}

	if url := w.cfg.Lock.RedisURL; url != "" {
		ropts, err := backend.ParseURL(url)
		if err != nil {
			return fmt.Errorf("invalid lock redis_url: %w", err)
		}
		client := backend.NewClient(ropts)
		defer client.Close()
		opts = append(opts, repolock.WithLocker(redis.NewLocker(client, "drover")))
	} else {
		dir := w.cfg.Lock.Dir
		if dir == "" {
			dir = filepath.Join(os.TempDir(), "drover-locks")
		}
		opts = append(opts, repolock.WithLocker(filelock.New(dir)))
	}

	guard := repolock.New(opts...)
	return guard.WithLock(ctx, repolock.Key(w.remote, w.root), fn)
}
