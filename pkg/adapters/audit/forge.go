package audit

import (
	"context"
	"strconv"

	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/ports"
)

type forgeAudit struct {
	next ports.Forge
	obs  Observer
}

// NewForge wraps a code host gateway with observation.
func NewForge(next ports.Forge, obs Observer) ports.Forge {
	return &forgeAudit{next: next, obs: obs}
}

func (f *forgeAudit) AuthStatus(ctx context.Context) error {
	start := f.obs.clock().Now()
	err := f.next.AuthStatus(ctx)
	f.obs.emit(ctx, domain.SystemForge, "AuthStatus", nil, false, start, err)
	return err
}

func (f *forgeAudit) PullRequestForBranch(ctx context.Context, branch string) (domain.PullRequest, error) {
	start := f.obs.clock().Now()
	pr, err := f.next.PullRequestForBranch(ctx, branch)
	f.obs.emit(ctx, domain.SystemForge, "PullRequestForBranch", []string{branch}, false, start, err)
	return pr, err
}

func (f *forgeAudit) PullRequest(ctx context.Context, number int) (domain.PullRequest, error) {
	start := f.obs.clock().Now()
	pr, err := f.next.PullRequest(ctx, number)
	f.obs.emit(ctx, domain.SystemForge, "PullRequest", []string{strconv.Itoa(number)}, false, start, err)
	return pr, err
}

func (f *forgeAudit) Issue(ctx context.Context, number int) (domain.Issue, error) {
	start := f.obs.clock().Now()
	issue, err := f.next.Issue(ctx, number)
	f.obs.emit(ctx, domain.SystemForge, "Issue", []string{strconv.Itoa(number)}, false, start, err)
	return issue, err
}

func (f *forgeAudit) DefaultBranch(ctx context.Context) (string, error) {
	start := f.obs.clock().Now()
	branch, err := f.next.DefaultBranch(ctx)
	f.obs.emit(ctx, domain.SystemForge, "DefaultBranch", nil, false, start, err)
	return branch, err
}

func (f *forgeAudit) CreatePullRequest(ctx context.Context, pr domain.NewPullRequest) (domain.PullRequest, error) {
	start := f.obs.clock().Now()
	created, err := f.next.CreatePullRequest(ctx, pr)
	f.obs.emit(ctx, domain.SystemForge, "CreatePullRequest", []string{pr.Head, pr.Base}, true, start, err)
	return created, err
}

func (f *forgeAudit) UpdatePullRequest(ctx context.Context, number int, patch domain.PullRequestPatch) error {
	start := f.obs.clock().Now()
	err := f.next.UpdatePullRequest(ctx, number, patch)
	f.obs.emit(ctx, domain.SystemForge, "UpdatePullRequest", []string{strconv.Itoa(number)}, true, start, err)
	return err
}

func (f *forgeAudit) AddLabels(ctx context.Context, number int, labels []string) error {
	start := f.obs.clock().Now()
	err := f.next.AddLabels(ctx, number, labels)
	f.obs.emit(ctx, domain.SystemForge, "AddLabels", append([]string{strconv.Itoa(number)}, labels...), true, start, err)
	return err
}

func (f *forgeAudit) Merge(ctx context.Context, number int, opts domain.MergeOpts) error {
	start := f.obs.clock().Now()
	err := f.next.Merge(ctx, number, opts)
	f.obs.emit(ctx, domain.SystemForge, "Merge", []string{strconv.Itoa(number)}, true, start, err)
	return err
}

func (f *forgeAudit) ClosePullRequest(ctx context.Context, number int) error {
	start := f.obs.clock().Now()
	err := f.next.ClosePullRequest(ctx, number)
	f.obs.emit(ctx, domain.SystemForge, "ClosePullRequest", []string{strconv.Itoa(number)}, true, start, err)
	return err
}
