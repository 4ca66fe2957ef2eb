package audit

import (
	"context"

	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/ports"
)

type gitAudit struct {
	next ports.Git
	obs  Observer
}

// NewGit wraps a version control gateway with observation.
func NewGit(next ports.Git, obs Observer) ports.Git {
	return &gitAudit{next: next, obs: obs}
}

func (g *gitAudit) Root(ctx context.Context, dir string) (string, error) {
	start := g.obs.clock().Now()
	root, err := g.next.Root(ctx, dir)
	g.obs.emit(ctx, domain.SystemGit, "Root", []string{dir}, false, start, err)
	return root, err
}

func (g *gitAudit) CurrentBranch(ctx context.Context) (string, error) {
	start := g.obs.clock().Now()
	branch, err := g.next.CurrentBranch(ctx)
	g.obs.emit(ctx, domain.SystemGit, "CurrentBranch", nil, false, start, err)
	return branch, err
}

func (g *gitAudit) Status(ctx context.Context) (domain.TreeStatus, error) {
	start := g.obs.clock().Now()
	st, err := g.next.Status(ctx)
	g.obs.emit(ctx, domain.SystemGit, "Status", nil, false, start, err)
	return st, err
}

func (g *gitAudit) Divergence(ctx context.Context, branch string) (domain.Divergence, error) {
	start := g.obs.clock().Now()
	div, err := g.next.Divergence(ctx, branch)
	g.obs.emit(ctx, domain.SystemGit, "Divergence", []string{branch}, false, start, err)
	return div, err
}

func (g *gitAudit) Diff(ctx context.Context, base string) (string, error) {
	start := g.obs.clock().Now()
	diff, err := g.next.Diff(ctx, base)
	g.obs.emit(ctx, domain.SystemGit, "Diff", []string{base}, false, start, err)
	return diff, err
}

func (g *gitAudit) CommitsAhead(ctx context.Context, base string) ([]string, error) {
	start := g.obs.clock().Now()
	subjects, err := g.next.CommitsAhead(ctx, base)
	g.obs.emit(ctx, domain.SystemGit, "CommitsAhead", []string{base}, false, start, err)
	return subjects, err
}

func (g *gitAudit) HeadSubject(ctx context.Context) (string, error) {
	start := g.obs.clock().Now()
	subject, err := g.next.HeadSubject(ctx)
	g.obs.emit(ctx, domain.SystemGit, "HeadSubject", nil, false, start, err)
	return subject, err
}

func (g *gitAudit) RemoteURL(ctx context.Context) (string, error) {
	start := g.obs.clock().Now()
	url, err := g.next.RemoteURL(ctx)
	g.obs.emit(ctx, domain.SystemGit, "RemoteURL", nil, false, start, err)
	return url, err
}

func (g *gitAudit) StageAll(ctx context.Context) error {
	start := g.obs.clock().Now()
	err := g.next.StageAll(ctx)
	g.obs.emit(ctx, domain.SystemGit, "StageAll", nil, true, start, err)
	return err
}

func (g *gitAudit) Commit(ctx context.Context, message string) error {
	start := g.obs.clock().Now()
	err := g.next.Commit(ctx, message)
	g.obs.emit(ctx, domain.SystemGit, "Commit", []string{message}, true, start, err)
	return err
}

func (g *gitAudit) AmendMessage(ctx context.Context, message string) error {
	start := g.obs.clock().Now()
	err := g.next.AmendMessage(ctx, message)
	g.obs.emit(ctx, domain.SystemGit, "AmendMessage", []string{message}, true, start, err)
	return err
}

func (g *gitAudit) Push(ctx context.Context, branch string, opts domain.PushOpts) error {
	start := g.obs.clock().Now()
	err := g.next.Push(ctx, branch, opts)
	g.obs.emit(ctx, domain.SystemGit, "Push", []string{branch}, true, start, err)
	return err
}

func (g *gitAudit) Checkout(ctx context.Context, branch string) error {
	start := g.obs.clock().Now()
	err := g.next.Checkout(ctx, branch)
	g.obs.emit(ctx, domain.SystemGit, "Checkout", []string{branch}, true, start, err)
	return err
}

func (g *gitAudit) DeleteBranch(ctx context.Context, branch string) error {
	start := g.obs.clock().Now()
	err := g.next.DeleteBranch(ctx, branch)
	g.obs.emit(ctx, domain.SystemGit, "DeleteBranch", []string{branch}, true, start, err)
	return err
}

func (g *gitAudit) Fetch(ctx context.Context) error {
	start := g.obs.clock().Now()
	err := g.next.Fetch(ctx)
	g.obs.emit(ctx, domain.SystemGit, "Fetch", nil, true, start, err)
	return err
}
