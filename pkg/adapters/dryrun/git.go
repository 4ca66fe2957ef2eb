package dryrun

import (
	"context"

	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/ports"
)

type gitDryRun struct {
	next ports.Git
	sink ports.Sink
}

// NewGit wraps a version control gateway in preview mode.
func NewGit(next ports.Git, sink ports.Sink) ports.Git {
	return &gitDryRun{next: next, sink: sink}
}

func (g *gitDryRun) Root(ctx context.Context, dir string) (string, error) {
	return g.next.Root(ctx, dir)
}

func (g *gitDryRun) CurrentBranch(ctx context.Context) (string, error) {
	return g.next.CurrentBranch(ctx)
}

func (g *gitDryRun) Status(ctx context.Context) (domain.TreeStatus, error) {
	return g.next.Status(ctx)
}

func (g *gitDryRun) Divergence(ctx context.Context, branch string) (domain.Divergence, error) {
	return g.next.Divergence(ctx, branch)
}

func (g *gitDryRun) Diff(ctx context.Context, base string) (string, error) {
	return g.next.Diff(ctx, base)
}

func (g *gitDryRun) CommitsAhead(ctx context.Context, base string) ([]string, error) {
	return g.next.CommitsAhead(ctx, base)
}

func (g *gitDryRun) HeadSubject(ctx context.Context) (string, error) {
	return g.next.HeadSubject(ctx)
}

func (g *gitDryRun) RemoteURL(ctx context.Context) (string, error) {
	return g.next.RemoteURL(ctx)
}

func (g *gitDryRun) StageAll(ctx context.Context) error {
	st, err := g.next.Status(ctx)
	if err != nil {
		return err
	}
	g.sink.Say("dry-run: would stage %d path(s)", st.Unstaged+st.Untracked)
	return nil
}

func (g *gitDryRun) Commit(_ context.Context, message string) error {
	g.sink.Say("dry-run: would commit staged changes as %q", message)
	return nil
}

func (g *gitDryRun) AmendMessage(_ context.Context, message string) error {
	g.sink.Say("dry-run: would reword head commit to %q", message)
	return nil
}

func (g *gitDryRun) Push(ctx context.Context, branch string, opts domain.PushOpts) error {
	div, err := g.next.Divergence(ctx, branch)
	if err != nil {
		return err
	}
	switch {
	case !div.RemoteExists:
		g.sink.Say("dry-run: would push %s and create its remote branch", branch)
	case opts.Force || opts.ForceWithLease:
		g.sink.Say("dry-run: would force-push %s (ahead %d, behind %d)", branch, div.Ahead, div.Behind)
	default:
		g.sink.Say("dry-run: would push %s (ahead %d)", branch, div.Ahead)
	}
	return nil
}

func (g *gitDryRun) Checkout(ctx context.Context, branch string) error {
	current, err := g.next.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	if current != branch {
		g.sink.Say("dry-run: would check out %s", branch)
	}
	return nil
}

func (g *gitDryRun) DeleteBranch(_ context.Context, branch string) error {
	g.sink.Say("dry-run: would delete branch %s", branch)
	return nil
}

func (g *gitDryRun) Fetch(context.Context) error {
	g.sink.Say("dry-run: would fetch from origin")
	return nil
}
