package dryrun

import (
	"context"
	"strings"

	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/ports"
)

type forgeDryRun struct {
	next ports.Forge
	sink ports.Sink
}

// NewForge wraps a code host gateway in preview mode.
func NewForge(next ports.Forge, sink ports.Sink) ports.Forge {
	return &forgeDryRun{next: next, sink: sink}
}

func (f *forgeDryRun) AuthStatus(ctx context.Context) error {
	return f.next.AuthStatus(ctx)
}

func (f *forgeDryRun) PullRequestForBranch(ctx context.Context, branch string) (domain.PullRequest, error) {
	return f.next.PullRequestForBranch(ctx, branch)
}

func (f *forgeDryRun) PullRequest(ctx context.Context, number int) (domain.PullRequest, error) {
	return f.next.PullRequest(ctx, number)
}

func (f *forgeDryRun) Issue(ctx context.Context, number int) (domain.Issue, error) {
	return f.next.Issue(ctx, number)
}

func (f *forgeDryRun) DefaultBranch(ctx context.Context) (string, error) {
	return f.next.DefaultBranch(ctx)
}

// CreatePullRequest previews the creation. The returned request is
// shaped like a real one but carries number zero and no URL, the
// host never having assigned either.
func (f *forgeDryRun) CreatePullRequest(_ context.Context, pr domain.NewPullRequest) (domain.PullRequest, error) {
	f.sink.Say("dry-run: would open review request %q (%s -> %s)", pr.Title, pr.Head, pr.Base)
	return domain.PullRequest{
		Title: pr.Title,
		Body:  pr.Body,
		Head:  pr.Head,
		Base:  pr.Base,
		State: domain.PullRequestOpen,
		Draft: pr.Draft,
	}, nil
}

func (f *forgeDryRun) UpdatePullRequest(_ context.Context, number int, patch domain.PullRequestPatch) error {
	var fields []string
	if patch.Title != nil {
		fields = append(fields, "title")
	}
	if patch.Body != nil {
		fields = append(fields, "body")
	}
	if patch.Base != nil {
		fields = append(fields, "base")
	}
	if len(fields) == 0 {
		return nil
	}
	f.sink.Say("dry-run: would update %s of review request #%d", strings.Join(fields, ", "), number)
	return nil
}

func (f *forgeDryRun) AddLabels(_ context.Context, number int, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	f.sink.Say("dry-run: would label review request #%d with %s", number, strings.Join(labels, ", "))
	return nil
}

func (f *forgeDryRun) Merge(_ context.Context, number int, opts domain.MergeOpts) error {
	method := opts.Method
	if method == "" {
		method = domain.MergeSquash
	}
	f.sink.Say("dry-run: would merge review request #%d (%s)", number, method)
	return nil
}

func (f *forgeDryRun) ClosePullRequest(_ context.Context, number int) error {
	f.sink.Say("dry-run: would close review request #%d", number)
	return nil
}
