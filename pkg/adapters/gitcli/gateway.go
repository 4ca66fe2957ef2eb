// Package gitcli is the live version control gateway backed by the git
// binary.
package gitcli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/drovertool/drover/pkg/adapters/process"
	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/ports"
)

const defaultRemote = "origin"

// Gateway implements ports.Git by spawning git in a fixed working tree.
type Gateway struct {
	dir    string
	bin    string
	remote string
	exec   process.Execer
}

var _ ports.Git = (*Gateway)(nil)

// Option configures the gateway.
type Option func(*Gateway)

// WithExecer substitutes the subprocess executor, usually a
// process.Script in tests.
func WithExecer(e process.Execer) Option {
	return func(g *Gateway) { g.exec = e }
}

// WithBinary overrides the git binary name.
func WithBinary(bin string) Option {
	return func(g *Gateway) { g.bin = bin }
}

// WithRemote overrides the remote every push, fetch, and divergence
// query talks to.
func WithRemote(name string) Option {
	return func(g *Gateway) {
		if name != "" {
			g.remote = name
		}
	}
}

// New creates a live git gateway rooted at dir.
func New(dir string, opts ...Option) *Gateway {
	g := &Gateway{
		dir:    dir,
		bin:    "git",
		remote: defaultRemote,
		exec:   process.NewRunner(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// run executes git with args and treats a nonzero exit as an error
// carrying the tool's own message.
func (g *Gateway) run(ctx context.Context, args ...string) (string, error) {
	return g.runIn(ctx, g.dir, args...)
}

func (g *Gateway) runIn(ctx context.Context, dir string, args ...string) (string, error) {
	res, err := g.exec.Run(ctx, dir, g.bin, args...)
	if err != nil {
		return "", err
	}
	if !res.Ok() {
		return "", fmt.Errorf("git %s: %s", args[0], toolMessage(res))
	}
	return strings.TrimSpace(res.Stdout), nil
}

func toolMessage(res process.Result) string {
	msg := strings.TrimSpace(res.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(res.Stdout)
	}
	if msg == "" {
		msg = fmt.Sprintf("exit status %d", res.ExitCode)
	}
	return msg
}

// Root resolves the repository root containing dir.
func (g *Gateway) Root(ctx context.Context, dir string) (string, error) {
	return g.runIn(ctx, dir, "rev-parse", "--show-toplevel")
}

// CurrentBranch returns the checked-out branch name.
func (g *Gateway) CurrentBranch(ctx context.Context) (string, error) {
	return g.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// Status counts staged, unstaged, and untracked paths from porcelain
// output.
func (g *Gateway) Status(ctx context.Context) (domain.TreeStatus, error) {
	out, err := g.run(ctx, "status", "--porcelain")
	if err != nil {
		return domain.TreeStatus{}, err
	}

	var st domain.TreeStatus
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 2 {
			continue
		}
		// XY PATH: X is the index column, Y the working tree column.
		x, y := line[0], line[1]
		if x == '?' {
			st.Untracked++
			continue
		}
		if x != ' ' {
			st.Staged++
		}
		if y != ' ' {
			st.Unstaged++
		}
	}
	return st, nil
}

// Divergence compares branch with its remote counterpart. A missing
// remote branch is a normal answer, not an error.
func (g *Gateway) Divergence(ctx context.Context, branch string) (domain.Divergence, error) {
	remote := g.remote + "/" + branch

	res, err := g.exec.Run(ctx, g.dir, g.bin, "rev-parse", "--verify", "--quiet", remote)
	if err != nil {
		return domain.Divergence{}, err
	}
	if !res.Ok() {
		return domain.Divergence{}, nil
	}

	out, err := g.run(ctx, "rev-list", "--left-right", "--count", branch+"..."+remote)
	if err != nil {
		return domain.Divergence{}, err
	}
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return domain.Divergence{}, fmt.Errorf("git rev-list: unexpected output %q", out)
	}
	ahead, err := strconv.Atoi(fields[0])
	if err != nil {
		return domain.Divergence{}, fmt.Errorf("git rev-list: unexpected output %q", out)
	}
	behind, err := strconv.Atoi(fields[1])
	if err != nil {
		return domain.Divergence{}, fmt.Errorf("git rev-list: unexpected output %q", out)
	}
	return domain.Divergence{RemoteExists: true, Ahead: ahead, Behind: behind}, nil
}

// Diff returns the changes on HEAD since it forked from base.
func (g *Gateway) Diff(ctx context.Context, base string) (string, error) {
	res, err := g.exec.Run(ctx, g.dir, g.bin, "diff", "--no-color", "--no-ext-diff", base+"...HEAD")
	if err != nil {
		return "", err
	}
	if !res.Ok() {
		return "", fmt.Errorf("git diff: %s", toolMessage(res))
	}
	// Keep the raw diff: trailing newlines are part of the format.
	return res.Stdout, nil
}

// CommitsAhead lists subjects of commits on HEAD but not on base,
// newest first.
func (g *Gateway) CommitsAhead(ctx context.Context, base string) ([]string, error) {
	out, err := g.run(ctx, "log", base+"..HEAD", "--pretty=format:%s")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// HeadSubject returns the subject line of the tip commit.
func (g *Gateway) HeadSubject(ctx context.Context) (string, error) {
	return g.run(ctx, "log", "-1", "--pretty=format:%s")
}

// RemoteURL returns the fetch URL of the configured remote.
func (g *Gateway) RemoteURL(ctx context.Context) (string, error) {
	return g.run(ctx, "remote", "get-url", g.remote)
}

// StageAll stages every change in the tree, deletions included.
func (g *Gateway) StageAll(ctx context.Context) error {
	_, err := g.run(ctx, "add", "-A")
	return err
}

// Commit records the staged changes.
func (g *Gateway) Commit(ctx context.Context, message string) error {
	_, err := g.run(ctx, "commit", "-m", message)
	return err
}

// AmendMessage rewrites the tip commit's message without changing its
// content. The tree must be clean or staged changes get folded in.
func (g *Gateway) AmendMessage(ctx context.Context, message string) error {
	_, err := g.run(ctx, "commit", "--amend", "-m", message)
	return err
}

// Push uploads branch to the configured remote.
func (g *Gateway) Push(ctx context.Context, branch string, opts domain.PushOpts) error {
	args := []string{"push"}
	if opts.SetUpstream {
		args = append(args, "-u")
	}
	if opts.ForceWithLease {
		args = append(args, "--force-with-lease")
	} else if opts.Force {
		args = append(args, "--force")
	}
	args = append(args, g.remote, branch)
	_, err := g.run(ctx, args...)
	return err
}

// Checkout switches to branch. Asking for the current branch succeeds.
func (g *Gateway) Checkout(ctx context.Context, branch string) error {
	_, err := g.run(ctx, "checkout", branch)
	return err
}

// DeleteBranch removes a local branch even if unmerged.
func (g *Gateway) DeleteBranch(ctx context.Context, branch string) error {
	_, err := g.run(ctx, "branch", "-D", branch)
	return err
}

// Fetch updates remote tracking refs from the configured remote.
func (g *Gateway) Fetch(ctx context.Context) error {
	_, err := g.run(ctx, "fetch", g.remote)
	return err
}
